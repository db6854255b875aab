// Package ledger holds the domain model for per-client ledger snapshots:
// the logical table registry, per-table record schemas, and the storage
// contract the HTTP layer depends on.
package ledger

import "github.com/smartledger/backend/internal/domain/shared"

// Logical table names exposed on the API.
const (
	TableBankBalance = "bank_balance"
	TableExpenses    = "expenses"
	TableSales       = "sales"
	TableOrders      = "orders"
	TableReminders   = "reminders"
)

// tableNames lists logical tables in the order the dashboard reports them.
var tableNames = []string{
	TableBankBalance,
	TableExpenses,
	TableSales,
	TableOrders,
	TableReminders,
}

// collections maps logical table names to physical storage tables.
// "orders" maps to order_snapshot because ORDER is a reserved word in SQL;
// the registry exists to keep public names independent of storage names.
var collections = map[string]string{
	TableBankBalance: "bankbalance",
	TableExpenses:    "expense",
	TableSales:       "sale",
	TableOrders:      "order_snapshot",
	TableReminders:   "reminder",
}

// Resolve returns the storage collection for a logical table name.
func Resolve(table string) (string, error) {
	coll, ok := collections[table]
	if !ok {
		return "", shared.ErrUnknownTable
	}
	return coll, nil
}

// TableNames returns the logical table names in stable dashboard order.
// The returned slice must not be mutated.
func TableNames() []string {
	return tableNames
}

// Collections returns the physical table names, in the same order as TableNames.
func Collections() []string {
	colls := make([]string, len(tableNames))
	for i, name := range tableNames {
		colls[i] = collections[name]
	}
	return colls
}

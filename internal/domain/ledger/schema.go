package ledger

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/smartledger/backend/internal/domain/shared"
)

// FieldKind classifies a schema field for boundary validation.
type FieldKind int

const (
	// FieldAmount is a non-negative decimal amount.
	FieldAmount FieldKind = iota
	// FieldCount is a non-negative integer.
	FieldCount
	// FieldText is a free-form string.
	FieldText
	// FieldDate is a string expected in YYYY-MM-DD form. The format is
	// advisory: a malformed date produces a warning, not a rejection.
	FieldDate
)

// schemas declares the accepted fields per logical table. Upsert payloads
// are validated against these before anything reaches storage; field names
// outside the table's schema are rejected.
var schemas = map[string]map[string]FieldKind{
	TableBankBalance: {
		"amount": FieldAmount,
	},
	TableExpenses: {
		"amount": FieldAmount,
		"month":  FieldText,
	},
	TableSales: {
		"amount": FieldAmount,
	},
	TableOrders: {
		"total_orders": FieldCount,
		"pending":      FieldCount,
		"completed":    FieldCount,
	},
	TableReminders: {
		"title":    FieldText,
		"due_date": FieldDate,
	},
}

var dateValidator = validator.New()

// ValidateValues checks an upsert payload against the table's schema.
// It returns advisory warnings (currently only malformed due dates) and a
// DomainError for anything that must be rejected. Null values are allowed
// for any declared field; they clear nothing but are stored as-is.
func ValidateValues(table string, values map[string]any) ([]string, error) {
	schema, ok := schemas[table]
	if !ok {
		return nil, shared.ErrUnknownTable
	}

	var warnings []string
	for name, value := range values {
		kind, ok := schema[name]
		if !ok {
			return warnings, shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("field %q is not part of table %q", name, table))
		}
		if value == nil {
			continue
		}

		switch kind {
		case FieldAmount:
			d, err := toDecimal(value)
			if err != nil {
				return warnings, shared.NewDomainError(shared.CodeInvalidInput,
					fmt.Sprintf("field %q must be a number", name))
			}
			if d.IsNegative() {
				return warnings, shared.NewDomainError(shared.CodeInvalidInput,
					fmt.Sprintf("field %q must not be negative", name))
			}
		case FieldCount:
			n, err := toCount(value)
			if err != nil {
				return warnings, shared.NewDomainError(shared.CodeInvalidInput,
					fmt.Sprintf("field %q must be an integer", name))
			}
			if n < 0 {
				return warnings, shared.NewDomainError(shared.CodeInvalidInput,
					fmt.Sprintf("field %q must not be negative", name))
			}
		case FieldText:
			if _, ok := value.(string); !ok {
				return warnings, shared.NewDomainError(shared.CodeInvalidInput,
					fmt.Sprintf("field %q must be a string", name))
			}
		case FieldDate:
			s, ok := value.(string)
			if !ok {
				return warnings, shared.NewDomainError(shared.CodeInvalidInput,
					fmt.Sprintf("field %q must be a string", name))
			}
			if err := dateValidator.Var(s, "datetime=2006-01-02"); err != nil {
				warnings = append(warnings,
					fmt.Sprintf("field %q is not in YYYY-MM-DD form: %q", name, s))
			}
		}
	}

	return warnings, nil
}

// toDecimal accepts the value shapes JSON decoding can produce for a number.
func toDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %T", value)
	}
}

// toCount accepts integral JSON numbers only; 3.5 pending orders is not a thing.
func toCount(value any) (int64, error) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("unsupported integer type %T", value)
	}
}

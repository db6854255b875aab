package ledger

import (
	"testing"

	"github.com/smartledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValues_AcceptsDeclaredFields(t *testing.T) {
	cases := []struct {
		table  string
		values map[string]any
	}{
		{TableBankBalance, map[string]any{"amount": 500.0}},
		{TableBankBalance, map[string]any{"amount": "1234.56"}},
		{TableExpenses, map[string]any{"amount": 0.0, "month": "January"}},
		{TableSales, map[string]any{"amount": 99.99}},
		{TableOrders, map[string]any{"total_orders": 10.0, "pending": 3.0, "completed": 7.0}},
		{TableReminders, map[string]any{"title": "pay rent", "due_date": "2026-09-01"}},
		{TableReminders, map[string]any{"title": nil}},
		{TableSales, map[string]any{}},
	}

	for _, tc := range cases {
		warnings, err := ValidateValues(tc.table, tc.values)
		assert.NoError(t, err, "table %q values %v", tc.table, tc.values)
		assert.Empty(t, warnings)
	}
}

func TestValidateValues_RejectsUnknownFields(t *testing.T) {
	_, err := ValidateValues(TableBankBalance, map[string]any{"balance": 500.0})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)
	assert.Contains(t, domainErr.Message, "balance")
}

func TestValidateValues_RejectsBadTypes(t *testing.T) {
	cases := []struct {
		name   string
		table  string
		values map[string]any
	}{
		{"negative amount", TableBankBalance, map[string]any{"amount": -1.0}},
		{"non-numeric amount", TableSales, map[string]any{"amount": "lots"}},
		{"amount as bool", TableExpenses, map[string]any{"amount": true}},
		{"fractional count", TableOrders, map[string]any{"pending": 3.5}},
		{"negative count", TableOrders, map[string]any{"completed": -2.0}},
		{"count as string", TableOrders, map[string]any{"total_orders": "10"}},
		{"month as number", TableExpenses, map[string]any{"month": 1.0}},
		{"title as number", TableReminders, map[string]any{"title": 42.0}},
		{"due_date as number", TableReminders, map[string]any{"due_date": 20260901.0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateValues(tc.table, tc.values)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)
		})
	}
}

func TestValidateValues_MalformedDueDateWarnsOnly(t *testing.T) {
	warnings, err := ValidateValues(TableReminders, map[string]any{"due_date": "next tuesday"})

	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "due_date")
}

func TestValidateValues_UnknownTable(t *testing.T) {
	_, err := ValidateValues("users", map[string]any{})
	assert.ErrorIs(t, err, shared.ErrUnknownTable)
}

package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revipro-dev/revipro/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCompare(t *testing.T) {
	eps := DefaultOptions().Epsilon
	tests := []struct {
		name   string
		tax    *decimal.Decimal
		ledger *decimal.Decimal
		status model.AuditStatus
		diff   string
	}{
		{"sub-cent difference matches", ptr("1000.00"), ptr("1000.004"), model.StatusMatch, "0.00"},
		{"rounded cent is a mismatch", ptr("1000.00"), ptr("1000.009"), model.StatusMismatch, "0.01"},
		{"exact", ptr("500.00"), ptr("500.00"), model.StatusMatch, "0.00"},
		{"sign of difference ignored", ptr("400.00"), ptr("500.00"), model.StatusMismatch, "100.00"},
		{"both absent", nil, nil, model.StatusNoData, "0.00"},
		{"ledger absent", ptr("500.00"), nil, model.StatusIncomplete, "0.00"},
		{"tax absent", nil, ptr("500.00"), model.StatusIncomplete, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, diff := Compare(tt.tax, tt.ledger, eps)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.diff, diff.StringFixed(2))
		})
	}
}

func TestRun_AlwaysTwoResultsInOrder(t *testing.T) {
	results := NewEngine(DefaultOptions()).Run(nil, nil, nil)

	require.Len(t, results, 2)
	assert.Equal(t, model.RuleR805, results[0].Rule.ID)
	assert.Equal(t, model.RuleR806, results[1].Rule.ID)
	assert.Equal(t, model.StatusNoData, results[0].Status)
	assert.Equal(t, model.StatusNoData, results[1].Status)
	assert.Nil(t, results[0].TaxTotal)
	assert.Nil(t, results[0].LedgerTotal)
	assert.Empty(t, results[0].Hint)
}

func TestRun_AnnualStatementMatchesLedger(t *testing.T) {
	tax := []model.TaxFact{{
		Filename: "JA_2023_2024.pdf", Category: model.CategoryAnnualStatement,
		FiscalYear: "2024", Amount: dec("1000.00"), Found: true,
	}}
	ledger := []model.LedgerFact{{Filename: "fibu_1012.pdf", Account: "1012.00", ClosingBalance: dec("1000.00")}}

	results := NewEngine(DefaultOptions()).Run(tax, ledger, nil)

	r805, r806 := results[0], results[1]
	assert.Equal(t, model.StatusMatch, r805.Status)
	assert.Equal(t, "0.00", r805.Difference.StringFixed(2))
	require.NotNil(t, r805.TaxTotal)
	assert.Equal(t, "1000.00", r805.TaxTotal.StringFixed(2))
	assert.Len(t, r805.TaxItems, 1)
	assert.Len(t, r805.LedgerItems, 1)
	assert.Equal(t, model.StatusNoData, r806.Status)
}

func TestRun_NegativeResidualWithoutLedger(t *testing.T) {
	tax := []model.TaxFact{{
		Filename: "SR_2023_2024.pdf", Category: model.CategoryResidualStatement,
		Amount: dec("250.00"), IsNegative: true, Found: true,
	}}

	results := NewEngine(DefaultOptions()).Run(tax, nil, nil)

	r806 := results[1]
	assert.Equal(t, model.StatusIncomplete, r806.Status)
	require.NotNil(t, r806.TaxTotal)
	assert.Equal(t, "250.00", r806.TaxTotal.StringFixed(2))
	assert.Nil(t, r806.LedgerTotal)
	assert.Equal(t, model.StatusNoData, results[0].Status)
}

func TestRun_DropsEmptyAndZeroFacts(t *testing.T) {
	tax := []model.TaxFact{
		{Filename: "a.pdf", Amount: dec("0"), Found: true},
		{Filename: "b.pdf", Found: false},
		{Filename: "c.pdf", Amount: dec("10.00"), Found: true},
	}

	results := NewEngine(DefaultOptions()).Run(tax, nil, nil)

	require.Len(t, results[0].TaxItems, 1)
	assert.Equal(t, "c.pdf", results[0].TaxItems[0].Filename)
}

func TestRun_MismatchHint(t *testing.T) {
	tax := []model.TaxFact{
		{Filename: "JA.pdf", Amount: dec("67884.25"), Found: true},
		{Filename: "SR.pdf", Amount: dec("0.005"), Found: true},
	}
	ledger := []model.LedgerFact{{Account: "1012.00", ClosingBalance: dec("57311.04")}}

	results := NewEngine(DefaultOptions()).Run(tax, ledger, nil)

	r805 := results[0]
	assert.Equal(t, model.StatusMismatch, r805.Status)
	assert.Equal(t, "10573.22", r805.Difference.StringFixed(2))
	assert.Contains(t, r805.Hint, "CHF 10'573.22")
	assert.Contains(t, r805.Hint, "Verzugszinsen")
	// Totals are rounded, items are not.
	assert.Equal(t, "67884.26", r805.TaxTotal.String())
	assert.Equal(t, "0.005", r805.TaxItems[1].Amount.String())
}

func TestRun_BalanceSheetFallback(t *testing.T) {
	sheets := []model.BalanceSheetFact{
		{Filename: "Bilanz.pdf", Receivables: ptr("900.00"), Payables: ptr("120.00")},
		{Filename: "Bilanz_alt.pdf", Receivables: ptr("1.00")},
	}
	ledger := []model.LedgerFact{{Account: "2002.00", ClosingBalance: dec("120.00")}}
	tax := []model.TaxFact{{Filename: "JA.pdf", Amount: dec("900.00"), Found: true}}

	results := NewEngine(DefaultOptions()).Run(tax, ledger, sheets)

	r805, r806 := results[0], results[1]
	require.Len(t, r805.LedgerItems, 1)
	assert.Equal(t, "1012.00 (Bilanz)", r805.LedgerItems[0].Account)
	assert.Equal(t, "Bilanz.pdf", r805.LedgerItems[0].Filename)
	assert.Equal(t, model.StatusMatch, r805.Status)

	require.Len(t, r806.LedgerItems, 1)
	assert.Equal(t, "2002.00", r806.LedgerItems[0].Account)
	assert.Equal(t, model.StatusIncomplete, r806.Status)
}

func TestRules_UseConfiguredAccounts(t *testing.T) {
	rules := Rules(Options{Receivables: "1013.00", Payables: "2003.00"})

	assert.Contains(t, rules[0].Description, "Konto 1013.00")
	assert.Equal(t, "2003.00", rules[1].LedgerAccount)
	assert.True(t, rules[1].Negative)
}

func TestHint(t *testing.T) {
	assert.Contains(t, Hint(model.RuleR806, dec("1234.5")), "CHF 1'234.50")
	assert.Contains(t, Hint(model.RuleR806, dec("1")), "Rückerstattungen")
	assert.Equal(t, "Differenz von CHF 5.00", Hint("R999", dec("5")))
}

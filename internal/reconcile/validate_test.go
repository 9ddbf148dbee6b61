package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revipro-dev/revipro/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts map[string]bool

func (m mockAccounts) Exists(id string) bool {
	return m[id]
}

var chart = mockAccounts{"1012.00": true, "2002.00": true, "2006.00": true}

func checks(findings []model.Finding) []int {
	var out []int
	for _, f := range findings {
		out = append(out, f.Check)
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	tax := []model.TaxFact{{Filename: "JA.pdf", Category: model.CategoryAnnualStatement, FiscalYear: "2024", Amount: dec("10.00"), Found: true, SignConfidence: model.SignConfidenceHigh}}
	ledger := []model.LedgerFact{{Filename: "fibu.pdf", Account: "1012.00", ClosingBalance: dec("10.00")}}

	assert.Empty(t, Validate(tax, ledger, chart))
}

func TestValidate_Checks(t *testing.T) {
	tax := []model.TaxFact{
		{Filename: "leer.pdf", Category: model.CategoryResidualStatement},
		{Filename: "minus.pdf", Category: model.CategoryAnnualStatement, FiscalYear: "2024", Amount: dec("5.00"), IsNegative: true, Found: true, SignConfidence: model.SignConfidenceLow},
		{Filename: "JA.pdf", Category: model.CategoryAnnualStatement, FiscalYear: "2023", Amount: dec("7.00"), Found: true},
		{Filename: "JA_kopie.pdf", Category: model.CategoryAnnualStatement, FiscalYear: "2023", Amount: dec("7.00"), Found: true},
		{Filename: "fein.pdf", Category: model.CategorySupplementaryTax, FiscalYear: "2024", Amount: dec("1.005"), Found: true},
	}
	ledger := []model.LedgerFact{
		{Filename: "fibu_x.pdf", Account: "", ClosingBalance: dec("1.00")},
		{Filename: "fibu_9.pdf", Account: "9999.00", ClosingBalance: dec("1.00")},
	}

	findings := Validate(tax, ledger, chart)

	assert.Equal(t, []int{
		CheckNoAmount,
		CheckWeakSign,
		CheckDuplicateStatement,
		CheckPrecision,
		CheckUnknownAccount,
		CheckUnknownAccount,
	}, checks(findings))
	require.Len(t, findings, 6)
	assert.Equal(t, "JA_kopie.pdf", findings[2].Source)
	assert.Contains(t, findings[2].Description, "JA.pdf")
	assert.Equal(t, `check 2 [fibu_9.pdf]: unknown account "9999.00"`, findings[5].String())
}

func TestValidate_NilChart(t *testing.T) {
	ledger := []model.LedgerFact{{Filename: "fibu.pdf", Account: "9999.00", ClosingBalance: dec("1.00")}}
	assert.Empty(t, Validate(nil, ledger, nil))
}

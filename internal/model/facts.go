package model

import "github.com/shopspring/decimal"

// SignConfidence records how the sign of a TaxFact was determined.
type SignConfidence string

const (
	SignConfidenceHigh   SignConfidence = "high"   // read from the table cell
	SignConfidenceMedium SignConfidence = "medium" // read from a raw text line
	SignConfidenceLow    SignConfidence = "low"    // inferred from the filename
)

// TaxFact is the residual-tax figure of one JA/SR/NAST statement.
// Amount is never negative; the sign lives in IsNegative.
type TaxFact struct {
	Filename       string
	Category       Category
	FiscalYear     string
	Amount         decimal.Decimal
	IsNegative     bool
	Found          bool
	RollForward    *decimal.Decimal
	SignConfidence SignConfidence
}

// Signed returns Amount with the sign applied.
func (f TaxFact) Signed() decimal.Decimal {
	if f.IsNegative {
		return f.Amount.Neg()
	}
	return f.Amount
}

// LedgerFact is the closing balance (Endsaldo) of one GL account.
type LedgerFact struct {
	Filename       string
	Account        string
	ClosingBalance decimal.Decimal
	Label          string
}

// BalanceSheetFact holds the tax receivables/payables lines of a balance sheet excerpt.
type BalanceSheetFact struct {
	Filename    string
	Receivables *decimal.Decimal
	Payables    *decimal.Decimal
}

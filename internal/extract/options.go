// Package extract pulls the reconciliation facts out of classified documents.
//
// Every extractor is a pure function of one RawDocument. Extractors never
// fail: missing tables, unparseable cells and odd layouts degrade to a fact
// with absent fields.
package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Options carries the layout knowledge that varies between municipalities.
type Options struct {
	// ColumnMarker identifies the organization's column in tax statements.
	ColumnMarker string
	// DefaultColumn is used when no header cell carries ColumnMarker.
	DefaultColumn int
	// HeaderRows is how many leading rows of a table are searched for the marker.
	HeaderRows int
	// LedgerHeaderLines is how many leading text lines are searched for an account id.
	LedgerHeaderLines int
	// DefaultYear is the fiscal year when neither filename nor text carries one.
	DefaultYear string
	// BalanceMin separates balances from booking counts and row numbers.
	BalanceMin decimal.Decimal
	// Receivables and Payables are the GL accounts of rules R805 and R806.
	Receivables string
	Payables    string
	// LedgerAccounts are the account tokens a ledger extract may belong to, in priority order.
	LedgerAccounts []string
}

// DefaultOptions returns the layout of the standard Zurich-style statements.
func DefaultOptions() Options {
	return Options{
		ColumnMarker:      "Politische Gemeinde",
		DefaultColumn:     2,
		HeaderRows:        5,
		LedgerHeaderLines: 15,
		DefaultYear:       "2024",
		BalanceMin:        decimal.NewFromInt(100),
		Receivables:       "1012.00",
		Payables:          "2002.00",
		LedgerAccounts:    []string{"1012.00", "2002.00", "2006.00"},
	}
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/revipro-dev/revipro/internal/amount"
	"github.com/revipro-dev/revipro/internal/model"
)

// LedgerLabel labels the closing balance of a single-account extract.
const LedgerLabel = "Kontoauszug Saldo"

type balanceStrategy func(doc model.RawDocument, min decimal.Decimal) (decimal.Decimal, bool)

// Tried in order; the first strategy that yields a balance wins.
var ledgerStrategies = []balanceStrategy{
	// Not first-total-row-decides: a total row with no cell above min falls
	// through to earlier rows, and negative totals count by magnitude.
	balanceFromTotalRow,
	balanceFromBookingLines,
	balanceFromTotalLine,
}

// Ledger extracts the account id and closing balance of a FiBu extract.
// The boolean reports whether a closing balance was found.
func Ledger(doc model.RawDocument, opts Options) (model.LedgerFact, bool) {
	fact := model.LedgerFact{
		Filename: doc.Filename,
		Account:  AccountID(doc, opts),
		Label:    LedgerLabel,
	}
	for _, strategy := range ledgerStrategies {
		if v, ok := strategy(doc, opts.BalanceMin); ok {
			fact.ClosingBalance = v
			return fact, true
		}
	}
	return fact, false
}

// AccountID finds the GL account a ledger extract belongs to, searching the
// filename first and then the header lines.
func AccountID(doc model.RawDocument, opts Options) string {
	name := strings.ToLower(doc.Filename)
	for _, acct := range opts.LedgerAccounts {
		if strings.Contains(name, acct) || strings.Contains(name, model.AccountPrefix(acct)) {
			return acct
		}
	}
	for i, line := range doc.Lines {
		if i >= opts.LedgerHeaderLines {
			break
		}
		for _, acct := range opts.LedgerAccounts {
			if strings.Contains(line, acct) {
				return acct
			}
		}
	}
	return ""
}

// balanceFromTotalRow walks tables bottom-up for the "Total" row. Cells
// compare by absolute value against min.
func balanceFromTotalRow(doc model.RawDocument, min decimal.Decimal) (decimal.Decimal, bool) {
	for ti := len(doc.Tables) - 1; ti >= 0; ti-- {
		tbl := doc.Tables[ti]
		for ri := len(tbl) - 1; ri >= 0; ri-- {
			row := tbl[ri]
			phrase := strings.ToLower(model.JoinRow(row))
			if !strings.Contains(phrase, "total") && !strings.Contains(phrase, "anzahl buchungen") {
				continue
			}
			for ci := len(row) - 1; ci >= 0; ci-- {
				if v, ok := amount.Parse(model.Cell(row, ci)); ok && v.Abs().GreaterThan(min) {
					return v.Abs(), true
				}
			}
		}
	}
	return decimal.Zero, false
}

// balanceFromBookingLines takes the last balance-sized value on any booking
// line (three or more numbers); the running balance column ends each line.
func balanceFromBookingLines(doc model.RawDocument, min decimal.Decimal) (decimal.Decimal, bool) {
	var last *decimal.Decimal
	for _, line := range doc.Lines {
		l := strings.ToLower(line)
		if strings.Contains(l, "saldo") && strings.Contains(l, "buchungstext") {
			continue
		}
		toks := amount.Tokens(line)
		if len(toks) < 3 {
			continue
		}
		for _, tok := range toks {
			if v, ok := amount.Parse(tok.Text); ok && v.Abs().GreaterThan(min) {
				abs := v.Abs()
				last = &abs
			}
		}
	}
	if last == nil {
		return decimal.Zero, false
	}
	return *last, true
}

// balanceFromTotalLine reads explicit "Total:" / "Saldo Buchungsjahr" lines.
func balanceFromTotalLine(doc model.RawDocument, min decimal.Decimal) (decimal.Decimal, bool) {
	var last *decimal.Decimal
	for _, line := range doc.Lines {
		l := strings.ToLower(line)
		if !strings.Contains(l, "total:") && !strings.Contains(l, "saldo buchungsjahr") {
			continue
		}
		toks := amount.Tokens(line)
		for i := len(toks) - 1; i >= 0; i-- {
			if v, ok := amount.Parse(toks[i].Text); ok && v.Abs().GreaterThan(min) {
				abs := v.Abs()
				last = &abs
				break
			}
		}
	}
	if last == nil {
		return decimal.Zero, false
	}
	return *last, true
}

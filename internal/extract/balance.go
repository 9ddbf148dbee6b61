package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/revipro-dev/revipro/internal/amount"
	"github.com/revipro-dev/revipro/internal/model"
)

// BalanceSheet reads the tax receivables and payables lines of a balance
// sheet excerpt. The boolean is false when neither line was found.
func BalanceSheet(doc model.RawDocument, opts Options) (model.BalanceSheetFact, bool) {
	fact := model.BalanceSheetFact{Filename: doc.Filename}

	lines := append([]string{}, doc.Lines...)
	for _, tbl := range doc.Tables {
		for _, row := range tbl {
			lines = append(lines, model.JoinRow(row))
		}
	}

	for _, line := range lines {
		l := strings.ToLower(line)
		if fact.Receivables == nil && balanceLineFor(l, opts.Receivables, "steuerforderungen") {
			fact.Receivables = firstAmount(line, opts.Receivables)
		}
		if fact.Payables == nil && balanceLineFor(l, opts.Payables, "steuerverpflichtungen") {
			fact.Payables = firstAmount(line, opts.Payables)
		}
	}
	return fact, fact.Receivables != nil || fact.Payables != nil
}

func balanceLineFor(line, account, keyword string) bool {
	return strings.Contains(line, account) ||
		strings.HasPrefix(line, model.AccountPrefix(account)+" ") ||
		strings.Contains(line, keyword)
}

// firstAmount returns the current-period figure: the first amount on the
// line that is not the account number itself.
func firstAmount(line, account string) *decimal.Decimal {
	prefix := model.AccountPrefix(account)
	for _, tok := range amount.Tokens(line) {
		if tok.Text == prefix || tok.Text == account {
			continue
		}
		if v, ok := amount.Parse(tok.Text); ok {
			abs := v.Abs()
			return &abs
		}
	}
	return nil
}

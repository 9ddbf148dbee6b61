// Package reconcile compares tax-statement residuals against ledger
// closing balances and produces the R805/R806 audit results.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/revipro-dev/revipro/internal/amount"
	"github.com/revipro-dev/revipro/internal/model"
)

// BalanceSheetSuffix marks ledger items taken from a balance sheet
// because no ledger extract for the account was supplied.
const BalanceSheetSuffix = " (Bilanz)"

// Options holds the thresholds and accounts the engine checks.
type Options struct {
	// Epsilon is the match tolerance; a rounded difference equal to it is a mismatch.
	Epsilon     decimal.Decimal
	Receivables string
	Payables    string
}

// DefaultOptions returns a 0.01 CHF tolerance on accounts 1012.00 and 2002.00.
func DefaultOptions() Options {
	return Options{
		Epsilon:     decimal.New(1, -2),
		Receivables: "1012.00",
		Payables:    "2002.00",
	}
}

// Engine runs the reconciliation rules. It holds no state between runs.
type Engine struct {
	opts  Options
	rules []model.AuditRule
}

// NewEngine creates an Engine with the R805 and R806 rules for opts.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts, rules: Rules(opts)}
}

// Rules returns R805 and R806 in report order.
func Rules(opts Options) []model.AuditRule {
	return []model.AuditRule{
		{
			ID:            model.RuleR805,
			Description:   fmt.Sprintf("Steuerforderungen (Konto %s) vs. Steuerabrechnungen (positive Restanzen)", opts.Receivables),
			LedgerAccount: opts.Receivables,
		},
		{
			ID:            model.RuleR806,
			Description:   fmt.Sprintf("Steuerverpflichtungen (Konto %s) vs. Steuerabrechnungen (negative Restanzen)", opts.Payables),
			Negative:      true,
			LedgerAccount: opts.Payables,
		},
	}
}

// Run evaluates every rule. sheets are only consulted for an account that
// has no ledger fact at all.
func (e *Engine) Run(tax []model.TaxFact, ledger []model.LedgerFact, sheets []model.BalanceSheetFact) []model.AuditResult {
	results := make([]model.AuditResult, 0, len(e.rules))
	for _, rule := range e.rules {
		results = append(results, e.evaluate(rule, tax, ledger, sheets))
	}
	return results
}

func (e *Engine) evaluate(rule model.AuditRule, tax []model.TaxFact, ledger []model.LedgerFact, sheets []model.BalanceSheetFact) model.AuditResult {
	res := model.AuditResult{Rule: rule}

	for _, f := range tax {
		if !f.Found || !f.Amount.IsPositive() || f.IsNegative != rule.Negative {
			continue
		}
		res.TaxItems = append(res.TaxItems, f)
	}
	for _, f := range ledger {
		if f.Account == rule.LedgerAccount {
			res.LedgerItems = append(res.LedgerItems, f)
		}
	}
	if len(res.LedgerItems) == 0 {
		if f, ok := balanceSheetItem(rule, sheets); ok {
			res.LedgerItems = append(res.LedgerItems, f)
		}
	}

	var taxTotal, ledgerTotal *decimal.Decimal
	if len(res.TaxItems) > 0 {
		total := decimal.Zero
		for _, f := range res.TaxItems {
			total = total.Add(f.Amount)
		}
		taxTotal = &total
	}
	if len(res.LedgerItems) > 0 {
		total := decimal.Zero
		for _, f := range res.LedgerItems {
			total = total.Add(f.ClosingBalance)
		}
		ledgerTotal = &total
	}

	res.Status, res.Difference = Compare(taxTotal, ledgerTotal, e.opts.Epsilon)
	if res.Status == model.StatusMismatch {
		res.Hint = Hint(rule.ID, res.Difference)
	}
	res.TaxTotal = round(taxTotal)
	res.LedgerTotal = round(ledgerTotal)
	return res
}

func round(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}

func balanceSheetItem(rule model.AuditRule, sheets []model.BalanceSheetFact) (model.LedgerFact, bool) {
	for _, s := range sheets {
		v := s.Receivables
		if rule.Negative {
			v = s.Payables
		}
		if v == nil {
			continue
		}
		return model.LedgerFact{
			Filename:       s.Filename,
			Account:        rule.LedgerAccount + BalanceSheetSuffix,
			ClosingBalance: *v,
			Label:          "Bilanz",
		}, true
	}
	return model.LedgerFact{}, false
}

// Compare derives the status of one rule from its two totals. The
// difference is rounded to cents before it is compared to epsilon.
func Compare(taxTotal, ledgerTotal *decimal.Decimal, epsilon decimal.Decimal) (model.AuditStatus, decimal.Decimal) {
	switch {
	case taxTotal == nil && ledgerTotal == nil:
		return model.StatusNoData, decimal.Zero
	case taxTotal == nil || ledgerTotal == nil:
		return model.StatusIncomplete, decimal.Zero
	}
	diff := taxTotal.Sub(*ledgerTotal).Abs().Round(2)
	if diff.LessThan(epsilon) {
		return model.StatusMatch, diff
	}
	return model.StatusMismatch, diff
}

// Hint names the usual cause of a mismatch for rule id.
func Hint(id model.RuleID, diff decimal.Decimal) string {
	chf := amount.Format(diff)
	switch id {
	case model.RuleR805:
		return fmt.Sprintf("Differenz von CHF %s: nicht verbuchte Verzugszinsen oder fehlende Steuerabrechnungen früherer Jahre prüfen", chf)
	case model.RuleR806:
		return fmt.Sprintf("Differenz von CHF %s: offene Rückerstattungen oder Gutschriften prüfen", chf)
	default:
		return fmt.Sprintf("Differenz von CHF %s", chf)
	}
}

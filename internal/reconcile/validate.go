package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/revipro-dev/revipro/internal/model"
)

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

// Plausibility checks, numbered for stable reporting.
const (
	CheckNoAmount = iota + 1
	CheckUnknownAccount
	CheckWeakSign
	CheckDuplicateStatement
	CheckPrecision
)

// Validate runs plausibility checks over the extracted facts. Findings
// point a reviewer at inputs worth a second look.
func Validate(tax []model.TaxFact, ledger []model.LedgerFact, accounts AccountChecker) []model.Finding {
	var findings []model.Finding

	type statementKey struct {
		category model.Category
		year     string
		amount   string
	}
	seen := make(map[statementKey]string)

	for _, f := range tax {
		// Check 1: statement yielded no residual.
		if !f.Found {
			findings = append(findings, model.Finding{
				Check:       CheckNoAmount,
				Source:      f.Filename,
				Description: fmt.Sprintf("no residual amount found in %s statement", f.Category),
			})
			continue
		}

		// Check 3: sign only inferred from the filename.
		if f.SignConfidence == model.SignConfidenceLow {
			findings = append(findings, model.Finding{
				Check:       CheckWeakSign,
				Source:      f.Filename,
				Description: "sign inferred from filename only",
			})
		}

		// Check 4: same statement uploaded twice under different names.
		key := statementKey{f.Category, f.FiscalYear, f.Signed().StringFixed(2)}
		if first, ok := seen[key]; ok && first != f.Filename {
			findings = append(findings, model.Finding{
				Check:       CheckDuplicateStatement,
				Source:      f.Filename,
				Description: fmt.Sprintf("same %s %s amount as %s", f.Category, f.FiscalYear, first),
			})
		} else if !ok {
			seen[key] = f.Filename
		}

		// Check 5: more than two decimal places.
		if !exactCents(f.Amount) {
			findings = append(findings, model.Finding{
				Check:       CheckPrecision,
				Source:      f.Filename,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", f.Amount),
			})
		}
	}

	for _, f := range ledger {
		// Check 2: balance booked to an account outside the chart.
		if f.Account == "" || (accounts != nil && !accounts.Exists(f.Account)) {
			findings = append(findings, model.Finding{
				Check:       CheckUnknownAccount,
				Source:      f.Filename,
				Description: fmt.Sprintf("unknown account %q", f.Account),
			})
		}
		if !exactCents(f.ClosingBalance) {
			findings = append(findings, model.Finding{
				Check:       CheckPrecision,
				Source:      f.Filename,
				Description: fmt.Sprintf("closing balance %s has more than 2 decimal places", f.ClosingBalance),
			})
		}
	}

	return findings
}

func exactCents(d decimal.Decimal) bool {
	hundred := decimal.NewFromInt(100)
	return d.Mul(hundred).Equal(d.Mul(hundred).Floor())
}

package extract

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/revipro-dev/revipro/internal/amount"
	"github.com/revipro-dev/revipro/internal/model"
)

type rowTarget int

const (
	// targetPrimary is the residual amount reported as the TaxFact.
	targetPrimary rowTarget = iota
	// targetRollForward is the prior-year carry-over, kept for reference only.
	targetRollForward
)

type writePolicy int

const (
	setOnce writePolicy = iota
	overwrite
)

// rowRule maps a statement row to the field it feeds. Statements encode
// postings by fixed row number; phrases cover layouts without numbers.
type rowRule struct {
	row      int            // 0: any row number
	category model.Category // "": any category
	require  string
	exclude  string
	target   rowTarget
	policy   writePolicy
}

func (r rowRule) matches(cat model.Category, rowNum int, phrase string) bool {
	if r.row != 0 && r.row != rowNum {
		return false
	}
	if r.category != "" && r.category != cat {
		return false
	}
	if r.require != "" && !strings.Contains(phrase, r.require) {
		return false
	}
	if r.exclude != "" && strings.Contains(phrase, r.exclude) {
		return false
	}
	return true
}

// taxRowRules is evaluated top-down per row; the first matching rule applies.
var taxRowRules = []rowRule{
	// Row 51: new residual balance (debit), always wins.
	{row: 51, target: targetPrimary, policy: overwrite},
	{category: model.CategoryResidualStatement, require: "total restanzen", exclude: "vortrag", target: targetPrimary, policy: overwrite},
	// Row 45 "Restanzenvortrag": prior-year roll-forward (credit).
	{row: 45, require: "vortrag", target: targetRollForward, policy: overwrite},
	// Row 45 on an annual statement: current-year posting.
	{row: 45, category: model.CategoryAnnualStatement, exclude: "vortrag", target: targetPrimary, policy: setOnce},
	{row: 44, target: targetPrimary, policy: setOnce},
	{category: model.CategorySupplementaryTax, require: "total restanzen nachsteuern", target: targetPrimary, policy: setOnce},
	{row: 38, target: targetRollForward, policy: setOnce},
	{require: "restanzenvortrag inkl. zinsen", target: targetRollForward, policy: setOnce},
}

func matchRowRule(cat model.Category, rowNum int, phrase string) (rowRule, bool) {
	for _, r := range taxRowRules {
		if r.matches(cat, rowNum, phrase) {
			return r, true
		}
	}
	return rowRule{}, false
}

type taxValues struct {
	primary     *decimal.Decimal
	rollForward *decimal.Decimal
}

func (v *taxValues) apply(r rowRule, d decimal.Decimal) {
	slot := &v.primary
	if r.target == targetRollForward {
		slot = &v.rollForward
	}
	if *slot != nil && r.policy == setOnce {
		return
	}
	*slot = &d
}

// TaxStatement extracts the residual-tax fact of a JA, SR or NAST statement.
func TaxStatement(doc model.RawDocument, cat model.Category, opts Options) model.TaxFact {
	fact := model.TaxFact{
		Filename:   doc.Filename,
		Category:   cat,
		FiscalYear: FiscalYear(doc, opts.DefaultYear),
	}

	vals := scanTaxTables(doc.Tables, cat, opts)
	if vals.primary == nil && cat == model.CategorySupplementaryTax && vals.rollForward != nil {
		vals.primary = vals.rollForward
	}
	if vals.rollForward != nil {
		rf := vals.rollForward.Abs()
		fact.RollForward = &rf
	}

	switch {
	case vals.primary != nil:
		setAmount(&fact, *vals.primary, model.SignConfidenceHigh)
	default:
		if v, negative, ok := scanTaxText(doc.Lines); ok {
			setAmount(&fact, v, model.SignConfidenceMedium)
			fact.IsNegative = fact.IsNegative || negative
		}
	}

	if fact.Found && !fact.IsNegative && filenameSuggestsNegative(doc.Filename, opts) {
		fact.IsNegative = true
		fact.SignConfidence = model.SignConfidenceLow
	}
	return fact
}

func setAmount(fact *model.TaxFact, v decimal.Decimal, conf model.SignConfidence) {
	fact.Amount = v.Abs()
	fact.IsNegative = v.IsNegative()
	fact.Found = true
	fact.SignConfidence = conf
}

func scanTaxTables(tables []model.Table, cat model.Category, opts Options) taxValues {
	var vals taxValues
	col := opts.DefaultColumn
	for _, tbl := range tables {
		// Continuation tables on later pages carry no header; keep the last column found.
		if c, ok := findColumn(tbl, opts.ColumnMarker, opts.HeaderRows); ok {
			col = c
		}
		for _, row := range tbl {
			phrase := strings.ToLower(model.JoinRow(row))
			rule, ok := matchRowRule(cat, rowNumber(row), phrase)
			if !ok {
				continue
			}
			v, ok := amount.Parse(model.Cell(row, col))
			if !ok {
				continue
			}
			vals.apply(rule, v)
		}
	}
	return vals
}

func findColumn(tbl model.Table, marker string, headerRows int) (int, bool) {
	if marker == "" {
		return 0, false
	}
	marker = strings.ToLower(marker)
	for i := 0; i < len(tbl) && i < headerRows; i++ {
		for j := range tbl[i] {
			if strings.Contains(strings.ToLower(model.Cell(tbl[i], j)), marker) {
				return j, true
			}
		}
	}
	return 0, false
}

func rowNumber(row []*string) int {
	s := strings.TrimSuffix(model.Cell(row, 0), ".")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// textValueToken is the position of the organization's figure on a
// "Total Restanzen" line of the raw text layer.
const textValueToken = 4

// scanTaxText reads the first "Total Restanzen" line that is not a roll-forward.
func scanTaxText(lines []string) (decimal.Decimal, bool, bool) {
	for _, line := range lines {
		l := strings.ToLower(line)
		if !strings.Contains(l, "total restanzen") || strings.Contains(l, "vortrag") {
			continue
		}
		toks := amount.Tokens(line)
		if len(toks) <= textValueToken {
			continue
		}
		tok := toks[textValueToken]
		v, ok := amount.Parse(tok.Text)
		if !ok {
			continue
		}
		from := tok.Start - 5
		if from < 0 {
			from = 0
		}
		negative := strings.Contains(line[from:tok.Start], "-") || v.IsNegative()
		return v, negative, true
	}
	return decimal.Zero, false, false
}

// filenameSuggestsNegative is the lowest-confidence sign heuristic: files
// named after the payables account or marked "minus" hold negative residuals.
func filenameSuggestsNegative(filename string, opts Options) bool {
	name := strings.ToLower(filename)
	if strings.Contains(name, model.AccountPrefix(opts.Receivables)) {
		return false
	}
	return strings.Contains(name, model.AccountPrefix(opts.Payables)) || strings.Contains(name, "minus")
}

// Package classify assigns a document category from page text and filename.
//
// Rules are evaluated in a fixed order and the first match wins. Filename
// conventions are checked before body text within each tier because scanned
// text is noisy while file names follow the municipality's naming scheme.
package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/revipro-dev/revipro/internal/model"
)

// Input is the normalized view a rule matches against.
type Input struct {
	Text     string // lowercased, NFC-normalized page text
	Filename string // lowercased filename
}

// Rule is one step of the cascade.
type Rule struct {
	Name     string
	Category model.Category
	Match    func(in Input) bool
}

var (
	fibuPrefix       = regexp.MustCompile(`^\d{1,3}[-_ ]?fibu`)
	residualFilename = regexp.MustCompile(`sr_\d{4}_\d{4}`)
	annualFilename   = regexp.MustCompile(`ja_\d{4}_\d{4}`)
	yearPair         = regexp.MustCompile(`(\d{4})\D(\d{4})`)
)

var combinedLedgerMarkers = []string{
	"fibukontoblatt",
	"fibukonto",
	"kontokorrent steuerforderungen",
	"kontokorrent steuerverpflichtungen",
}

var rules = []Rule{
	{
		Name:     "withholding-tax",
		Category: model.CategoryWithholdingTax,
		Match: func(in Input) bool {
			return containsAny(in.Filename, "quellensteuer", "qvo") ||
				containsAny(in.Text, "quellensteuer", "qvo")
		},
	},
	{
		Name:     "ledger",
		Category: model.CategoryLedger,
		Match: func(in Input) bool {
			return (strings.Contains(in.Filename, "fibu") && strings.Contains(in.Filename, "konto")) ||
				fibuPrefix.MatchString(in.Filename) ||
				strings.Contains(in.Text, "kontoauszug")
		},
	},
	{
		Name:     "combined-ledger",
		Category: model.CategoryCombinedLedger,
		Match: func(in Input) bool {
			if containsAny(in.Filename, "konti", "restanzen") && containsAny(in.Text, "1012.00", "2002.00") {
				return true
			}
			return containsAny(in.Text, combinedLedgerMarkers...)
		},
	},
	{
		Name:     "supplementary-tax",
		Category: model.CategorySupplementaryTax,
		Match: func(in Input) bool {
			return (strings.Contains(in.Filename, "nachsteuer") && !strings.Contains(in.Filename, "fibu")) ||
				strings.Contains(in.Text, "abrechnung über den ertrag von nachsteuern")
		},
	},
	{
		Name:     "residual-statement",
		Category: model.CategoryResidualStatement,
		Match: func(in Input) bool {
			return residualFilename.MatchString(in.Filename) || strings.Contains(in.Text, "steuerrestanz")
		},
	},
	{
		Name:     "annual-statement",
		Category: model.CategoryAnnualStatement,
		Match: func(in Input) bool {
			return annualFilename.MatchString(in.Filename) ||
				(strings.Contains(in.Text, "jahresabschluss") && !strings.Contains(in.Filename, "fibu"))
		},
	},
	{
		Name:     "income-statement",
		Category: model.CategoryIncomeStatementExcerpt,
		Match: func(in Input) bool {
			return strings.Contains(in.Text, "erfolgsrechnung") && strings.Contains(in.Text, "fiskalertrag")
		},
	},
	{
		Name:     "balance-sheet",
		Category: model.CategoryBalanceSheetExcerpt,
		Match: func(in Input) bool {
			return strings.Contains(in.Text, "bilanz") && !strings.Contains(in.Filename, "fibu") &&
				containsAny(in.Text, "31.12.", "per ende")
		},
	},
	{
		Name:     "municipal-tax-annual",
		Category: model.CategoryAnnualStatement,
		Match: func(in Input) bool {
			return isMunicipalTax(in) && !yearsDiffer(in.Filename)
		},
	},
	{
		Name:     "municipal-tax-residual",
		Category: model.CategoryResidualStatement,
		Match: func(in Input) bool {
			return isMunicipalTax(in) && yearsDiffer(in.Filename)
		},
	},
}

// Rules returns the cascade in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classifier evaluates an ordered rule list.
type Classifier struct {
	rules []Rule
}

// New returns a Classifier with the default cascade.
func New() *Classifier {
	return &Classifier{rules: rules}
}

// NewWithRules returns a Classifier evaluating the given rules in order.
func NewWithRules(r []Rule) *Classifier {
	return &Classifier{rules: r}
}

// Classify returns the category of the first matching rule, or Unknown.
func (c *Classifier) Classify(text, filename string) model.Category {
	cat, _ := c.Explain(text, filename)
	return cat
}

// Explain is Classify plus the name of the rule that decided.
func (c *Classifier) Explain(text, filename string) (model.Category, string) {
	in := Normalize(text, filename)
	for _, r := range c.rules {
		if r.Match(in) {
			return r.Category, r.Name
		}
	}
	return model.CategoryUnknown, ""
}

// Normalize lowercases and NFC-normalizes the inputs.
func Normalize(text, filename string) Input {
	return Input{
		Text:     strings.ToLower(norm.NFC.String(text)),
		Filename: strings.ToLower(norm.NFC.String(filename)),
	}
}

func isMunicipalTax(in Input) bool {
	return containsAny(in.Text, "gemeindesteuer", "politische gemeinde") &&
		strings.Contains(in.Text, "total restanzen")
}

// yearsDiffer reports whether the filename carries two different years.
// No year pair counts as equal, so the statement defaults to annual.
func yearsDiffer(filename string) bool {
	m := yearPair.FindStringSubmatch(filename)
	if m == nil {
		return false
	}
	return m[1] != m[2]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Package amount parses and formats CHF amounts as printed on Swiss
// tax statements and ledger extracts.
package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Row and account references such as "1012.00" look like money but are not.
	referencePattern = regexp.MustCompile(`^\d{4}\.\d{2}$`)
	numberRun        = regexp.MustCompile(`[\d'’´.,]+`)
	tokenPattern     = regexp.MustCompile(`-?\(?\d[\d'’´.,]*\)?-?`)

	apostrophes = strings.NewReplacer("'", "", "’", "", "´", "")
	currency    = strings.NewReplacer("CHF", "", "chf", "", "Fr.", "")
	noise       = strings.NewReplacer(" ", "", "\t", "", "\u00a0", "", "(", "", ")", "")
)

// Parse converts a raw token into a signed amount. The boolean is false
// when the token is not a monetary value; Parse never fails otherwise.
func Parse(token string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(token)
	if len(s) < 2 {
		return decimal.Zero, false
	}
	if strings.Contains(s, "%") {
		return decimal.Zero, false
	}

	s = strings.TrimSpace(currency.Replace(s))
	negative := strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") ||
		(strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))

	s = noise.Replace(s)
	s = strings.Trim(s, "-+")
	if referencePattern.MatchString(s) {
		return decimal.Zero, false
	}

	run := longestRun(s)
	run = strings.TrimRight(apostrophes.Replace(run), ".,")
	if run == "" {
		return decimal.Zero, false
	}

	hasComma := strings.Contains(run, ",")
	hasDot := strings.Contains(run, ".")
	switch {
	case hasComma && !hasDot:
		run = strings.ReplaceAll(run, ",", ".")
	case hasComma && hasDot:
		run = strings.ReplaceAll(run, ",", "")
	}

	d, err := decimal.NewFromString(run)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

func longestRun(s string) string {
	var best string
	for _, m := range numberRun.FindAllString(s, -1) {
		if len(m) > len(best) {
			best = m
		}
	}
	return best
}

// Token is a numeric-looking fragment of a text line.
type Token struct {
	Text  string
	Start int // byte offset in the line
}

// Tokens returns the numeric-looking fragments of line in order.
func Tokens(line string) []Token {
	locs := tokenPattern.FindAllStringIndex(line, -1)
	tokens := make([]Token, 0, len(locs))
	for _, loc := range locs {
		tokens = append(tokens, Token{Text: line[loc[0]:loc[1]], Start: loc[0]})
	}
	return tokens
}

// Values returns every token of line that parses as an amount, in order.
func Values(line string) []decimal.Decimal {
	var vals []decimal.Decimal
	for _, tok := range Tokens(line) {
		if v, ok := Parse(tok.Text); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// Format renders d the Swiss way with two decimals: -1'234.50.
func Format(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('\'')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

package extract

import (
	"regexp"

	"github.com/revipro-dev/revipro/internal/model"
)

var filenameYears = regexp.MustCompile(`_(\d{4})_(\d{4})`)

// Checked in order; the first pattern with a match decides.
var textYearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:steuerjahr|rechnungsjahr|steuerperiode|periode)\s*:?\s*(20\d{2})`),
	regexp.MustCompile(`(?i)\b(?:per|vom)\s+\d{1,2}\.\d{1,2}\.(20\d{2})`),
	regexp.MustCompile(`31\.12\.(20\d{2})`),
	regexp.MustCompile(`\b(20\d{2})\b`),
}

// FiscalYear reads the statement year from the filename, then the text.
func FiscalYear(doc model.RawDocument, fallback string) string {
	if m := filenameYears.FindStringSubmatch(doc.Filename); m != nil {
		return m[2]
	}
	text := doc.Text()
	for _, re := range textYearPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return fallback
}

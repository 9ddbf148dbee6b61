// Package report renders an Analysis as JSON, CSV or a text summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/revipro-dev/revipro/internal/model"
)

// Report is the wire form of an Analysis.
type Report struct {
	RunID             string     `json:"run_id"`
	Results           []Result   `json:"results"`
	FilesProcessed    int        `json:"files_processed"`
	TaxFiles          int        `json:"tax_files"`
	FibuFiles         int        `json:"fibu_files"`
	AnnualReportFiles int        `json:"annual_report_files"`
	SkippedFiles      int        `json:"skipped_files"`
	Documents         []Document `json:"documents"`
	Findings          []string   `json:"findings,omitempty"`
}

// Result is one rule outcome with its supporting items.
type Result struct {
	Rule        string       `json:"rule"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Difference  json.Number  `json:"difference"`
	TaxTotal    *json.Number `json:"tax_total,omitempty"`
	FibuTotal   *json.Number `json:"fibu_total,omitempty"`
	Hint        string       `json:"hint,omitempty"`
	TaxItems    []TaxItem    `json:"tax_items"`
	FibuItems   []FibuItem   `json:"fibu_items"`
}

// TaxItem is one tax statement contributing to a rule.
type TaxItem struct {
	Source         string      `json:"source"`
	Label          string      `json:"label"`
	Amount         json.Number `json:"amount"`
	Year           string      `json:"year"`
	DocType        string      `json:"doc_type"`
	IsNegative     bool        `json:"is_negative"`
	SignConfidence string      `json:"sign_confidence,omitempty"`
}

// FibuItem is one ledger balance contributing to a rule.
type FibuItem struct {
	Source  string      `json:"source"`
	Label   string      `json:"label"`
	Amount  json.Number `json:"amount"`
	Account string      `json:"account"`
}

// Document reports what happened to one input file.
type Document struct {
	Filename string `json:"filename"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Facts    int    `json:"facts"`
	Reason   string `json:"reason,omitempty"`
}

// TaxLabel is the item label of a tax fact: "Total Restanzen (JA)".
func TaxLabel(c model.Category) string {
	return fmt.Sprintf("Total Restanzen (%s)", c)
}

// Build converts an Analysis into its wire form.
func Build(a model.Analysis) Report {
	rep := Report{
		RunID:             a.RunID,
		Results:           make([]Result, 0, len(a.Results)),
		FilesProcessed:    len(a.Documents),
		TaxFiles:          a.Count(model.Category.IsTaxStatement),
		FibuFiles:         a.Count(model.Category.IsLedger),
		AnnualReportFiles: a.Count(model.Category.IsAnnualReport),
		Documents:         make([]Document, 0, len(a.Documents)),
	}

	for _, r := range a.Results {
		res := Result{
			Rule:        string(r.Rule.ID),
			Description: r.Rule.Description,
			Status:      string(r.Status),
			Difference:  cents(r.Difference),
			TaxTotal:    optionalCents(r.TaxTotal),
			FibuTotal:   optionalCents(r.LedgerTotal),
			Hint:        r.Hint,
			TaxItems:    make([]TaxItem, 0, len(r.TaxItems)),
			FibuItems:   make([]FibuItem, 0, len(r.LedgerItems)),
		}
		for _, f := range r.TaxItems {
			res.TaxItems = append(res.TaxItems, TaxItem{
				Source:         f.Filename,
				Label:          TaxLabel(f.Category),
				Amount:         json.Number(f.Amount.String()),
				Year:           f.FiscalYear,
				DocType:        string(f.Category),
				IsNegative:     f.IsNegative,
				SignConfidence: string(f.SignConfidence),
			})
		}
		for _, f := range r.LedgerItems {
			res.FibuItems = append(res.FibuItems, FibuItem{
				Source:  f.Filename,
				Label:   f.Label,
				Amount:  json.Number(f.ClosingBalance.String()),
				Account: f.Account,
			})
		}
		rep.Results = append(rep.Results, res)
	}

	for _, d := range a.Documents {
		if d.Status != model.DocumentExtracted {
			rep.SkippedFiles++
		}
		rep.Documents = append(rep.Documents, Document{
			Filename: d.Filename,
			Category: string(d.Category),
			Status:   string(d.Status),
			Facts:    d.Facts,
			Reason:   d.Reason,
		})
	}

	for _, f := range a.Findings {
		rep.Findings = append(rep.Findings, f.String())
	}
	return rep
}

func cents(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func optionalCents(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := cents(*d)
	return &n
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, a model.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Build(a)); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

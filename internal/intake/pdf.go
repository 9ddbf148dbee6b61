package intake

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/unicode/norm"

	"github.com/revipro-dev/revipro/internal/model"
)

// PDFLoader reads the text layer of a PDF. Rows of the page become text
// lines; runs of rows with minTableCells or more cells become a table.
type PDFLoader struct{}

const (
	minTableCells   = 3
	defaultFontSize = 10.0
	// Horizontal gaps, in multiples of the font size.
	wordGap = 0.15
	cellGap = 1.2
)

func init() {
	// Keep pdfcpu from creating its config directory under $HOME.
	api.DisableConfigDir()
}

// Format returns the loader name.
func (l *PDFLoader) Format() string { return "pdf" }

// Load probes the file with pdfcpu, then extracts rows page by page.
func (l *PDFLoader) Load(ctx context.Context, path string) (model.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RawDocument{}, fmt.Errorf("reading pdf: %w", err)
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	if _, err := api.PageCount(bytes.NewReader(data), conf); err != nil {
		return model.RawDocument{}, fmt.Errorf("validating pdf: %w", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return model.RawDocument{}, fmt.Errorf("opening pdf: %w", err)
	}

	var rows [][]string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return model.RawDocument{}, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageRows, err := page.GetTextByRow()
		if err != nil {
			return model.RawDocument{}, fmt.Errorf("reading page %d: %w", i, err)
		}
		for _, row := range pageRows {
			if cells := layoutRow(row.Content); len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
	}

	return assemble(filepath.Base(path), rows), nil
}

// layoutRow splits the glyph runs of one row into cells on wide gaps and
// into words on narrow ones.
func layoutRow(texts []pdf.Text) []string {
	runs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) != "" {
			runs = append(runs, t)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var (
		cells []string
		cur   strings.Builder
		end   float64
	)
	for i, t := range runs {
		fs := t.FontSize
		if fs <= 0 {
			fs = defaultFontSize
		}
		if i > 0 {
			gap := t.X - end
			switch {
			case gap > cellGap*fs:
				cells = append(cells, strings.TrimSpace(cur.String()))
				cur.Reset()
			case gap > wordGap*fs:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(t.S)
		end = t.X + t.W
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		cells = append(cells, s)
	}
	return cells
}

// assemble builds the RawDocument from laid-out rows.
func assemble(filename string, rows [][]string) model.RawDocument {
	doc := model.RawDocument{Filename: filename}
	var tbl model.Table
	flush := func() {
		if len(tbl) > 0 {
			doc.Tables = append(doc.Tables, tbl)
		}
		tbl = nil
	}

	for _, cells := range rows {
		for i := range cells {
			cells[i] = norm.NFC.String(cells[i])
		}
		doc.Lines = append(doc.Lines, strings.Join(cells, " "))
		if len(cells) >= minTableCells {
			tbl = append(tbl, model.Row(cells...))
			continue
		}
		flush()
	}
	flush()
	return doc
}

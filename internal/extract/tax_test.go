package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revipro-dev/revipro/internal/model"
)

func header() []*string {
	return model.Row("Nr.", "Bezeichnung", "Politische Gemeinde")
}

func TestTaxStatement_Row51WinsOverRollForward(t *testing.T) {
	doc := model.RawDocument{
		Filename: "SR_2023_2024.pdf",
		Tables: []model.Table{{
			header(),
			model.Row("45", "Restanzenvortrag", "1'000.00"),
			model.Row("51", "Total Restanzen", "-250.00"),
		}},
	}

	fact := TaxStatement(doc, model.CategoryResidualStatement, DefaultOptions())

	require.True(t, fact.Found)
	assert.Equal(t, "250.00", fact.Amount.StringFixed(2))
	assert.True(t, fact.IsNegative)
	assert.Equal(t, model.SignConfidenceHigh, fact.SignConfidence)
	require.NotNil(t, fact.RollForward)
	assert.Equal(t, "1000.00", fact.RollForward.StringFixed(2))
	assert.Equal(t, "2024", fact.FiscalYear)
}

func TestTaxStatement_Row51OverwritesEarlierPrimary(t *testing.T) {
	doc := model.RawDocument{
		Filename: "SR_2023_2024.pdf",
		Tables: []model.Table{{
			header(),
			model.Row("44", "Zwischentotal", "700.00"),
			model.Row("51", "Neue Restanzen", "900.00"),
		}},
	}

	fact := TaxStatement(doc, model.CategoryResidualStatement, DefaultOptions())

	assert.Equal(t, "900.00", fact.Amount.StringFixed(2))
	assert.False(t, fact.IsNegative)
}

func TestTaxStatement_AnnualRow45(t *testing.T) {
	doc := model.RawDocument{
		Filename: "JA_2023_2024.pdf",
		Tables: []model.Table{{
			header(),
			model.Row("45", "Total Restanzen", "1'000.00"),
			model.Row("44", "Andere", "300.00"),
		}},
	}

	fact := TaxStatement(doc, model.CategoryAnnualStatement, DefaultOptions())

	require.True(t, fact.Found)
	assert.Equal(t, "1000.00", fact.Amount.StringFixed(2))
	assert.False(t, fact.IsNegative)
	assert.Nil(t, fact.RollForward)
}

func TestTaxStatement_ColumnMarker(t *testing.T) {
	doc := model.RawDocument{
		Filename: "JA_2024.pdf",
		Tables: []model.Table{{
			model.Row("", "", "Kanton", "Politische Gemeinde"),
			model.Row("44", "Total", "999.00", "1'234.50"),
		}},
	}

	fact := TaxStatement(doc, model.CategoryAnnualStatement, DefaultOptions())

	assert.Equal(t, "1234.50", fact.Amount.StringFixed(2))
}

func TestTaxStatement_SupplementaryFallsBackToRollForward(t *testing.T) {
	doc := model.RawDocument{
		Filename: "NAST_2024.pdf",
		Tables: []model.Table{{
			header(),
			model.Row("38", "Restanzenvortrag inkl. Zinsen", "500.00"),
		}},
	}

	fact := TaxStatement(doc, model.CategorySupplementaryTax, DefaultOptions())

	require.True(t, fact.Found)
	assert.Equal(t, "500.00", fact.Amount.StringFixed(2))
}

func TestTaxStatement_SupplementaryTotalPhrase(t *testing.T) {
	doc := model.RawDocument{
		Filename: "NAST_2024.pdf",
		Tables: []model.Table{{
			header(),
			model.Row("", "Total Restanzen Nachsteuern", "800.00"),
			model.Row("44", "Zwischentotal", "300.00"),
		}},
	}

	fact := TaxStatement(doc, model.CategorySupplementaryTax, DefaultOptions())

	require.True(t, fact.Found)
	assert.Equal(t, "800.00", fact.Amount.StringFixed(2))
	assert.Equal(t, model.SignConfidenceHigh, fact.SignConfidence)
	assert.Nil(t, fact.RollForward)
}

func TestTaxStatement_TextFallback(t *testing.T) {
	doc := model.RawDocument{
		Filename: "JA_2024.pdf",
		Lines: []string{
			"Restanzenvortrag 2024 1.00 2.00 3.00 4.00",
			"Total Restanzen 2024 100.00 200.00 300.00 - 1'500.00",
		},
	}

	fact := TaxStatement(doc, model.CategoryAnnualStatement, DefaultOptions())

	require.True(t, fact.Found)
	assert.Equal(t, "1500.00", fact.Amount.StringFixed(2))
	assert.True(t, fact.IsNegative)
	assert.Equal(t, model.SignConfidenceMedium, fact.SignConfidence)
}

func TestTaxStatement_FilenameSignHeuristic(t *testing.T) {
	tests := []struct {
		filename string
		negative bool
	}{
		{"Restanzen_minusbetrag.pdf", true},
		{"Restanzen_2002.pdf", true},
		{"Restanzen_1012_minus.pdf", false},
		{"Restanzen.pdf", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			doc := model.RawDocument{
				Filename: tt.filename,
				Tables:   []model.Table{{header(), model.Row("44", "Total", "800.00")}},
			}
			fact := TaxStatement(doc, model.CategoryAnnualStatement, DefaultOptions())

			assert.Equal(t, tt.negative, fact.IsNegative)
			if tt.negative {
				assert.Equal(t, model.SignConfidenceLow, fact.SignConfidence)
			} else {
				assert.Equal(t, model.SignConfidenceHigh, fact.SignConfidence)
			}
		})
	}
}

func TestTaxStatement_NothingFound(t *testing.T) {
	doc := model.RawDocument{Filename: "leer_minus.pdf", Lines: []string{"Keine Daten"}}

	fact := TaxStatement(doc, model.CategoryAnnualStatement, DefaultOptions())

	assert.False(t, fact.Found)
	assert.False(t, fact.IsNegative)
	assert.True(t, fact.Amount.IsZero())
}

func TestFiscalYear(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		lines    []string
		want     string
	}{
		{"filename pair", "SR_2022_2023.pdf", []string{"Steuerjahr 2019"}, "2023"},
		{"period label", "x.pdf", []string{"Erstellt 2021", "Steuerjahr: 2023"}, "2023"},
		{"per date", "x.pdf", []string{"Saldo per 31.12.2022"}, "2022"},
		{"year end", "x.pdf", []string{"Abschluss 31.12.2021"}, "2021"},
		{"bare year", "x.pdf", []string{"Druck 2020"}, "2020"},
		{"fallback", "x.pdf", []string{"nichts"}, "2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := model.RawDocument{Filename: tt.filename, Lines: tt.lines}
			assert.Equal(t, tt.want, FiscalYear(doc, "2024"))
		})
	}
}

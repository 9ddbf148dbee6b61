package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revipro-dev/revipro/internal/model"
)

func TestAccountID(t *testing.T) {
	opts := DefaultOptions()
	filler := make([]string, 15)

	tests := []struct {
		name     string
		filename string
		lines    []string
		want     string
	}{
		{"filename token", "FiBu_1012.00.pdf", nil, "1012.00"},
		{"filename prefix", "fibu_2006_kontoauszug.pdf", nil, "2006.00"},
		{"header line", "kontoauszug.pdf", []string{"Gemeinde", "Konto 2002.00 Steuerverpflichtungen"}, "2002.00"},
		{"beyond header", "kontoauszug.pdf", append(filler, "Konto 2002.00"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := model.RawDocument{Filename: tt.filename, Lines: tt.lines}
			assert.Equal(t, tt.want, AccountID(doc, opts))
		})
	}
}

func TestLedger_TotalRowSkipsCounts(t *testing.T) {
	doc := model.RawDocument{
		Filename: "fibu_1012.pdf",
		Tables: []model.Table{{
			model.Row("01.01.2024", "Startsaldo", "5'000.00"),
			model.Row("Total", "7'500.00", "12"),
		}},
	}

	fact, ok := Ledger(doc, DefaultOptions())

	require.True(t, ok)
	assert.Equal(t, "1012.00", fact.Account)
	assert.Equal(t, "7500.00", fact.ClosingBalance.StringFixed(2))
	assert.Equal(t, LedgerLabel, fact.Label)
}

func TestLedger_TotalRowFallsThroughAndUsesMagnitude(t *testing.T) {
	doc := model.RawDocument{
		Filename: "fibu_2002.pdf",
		Tables: []model.Table{{
			model.Row("Total Soll", "-1'250.00"),
			model.Row("Total Buchungen", "12"),
		}},
	}

	fact, ok := Ledger(doc, DefaultOptions())

	require.True(t, ok)
	assert.Equal(t, "1250.00", fact.ClosingBalance.StringFixed(2))
}

func TestLedger_TableBeatsText(t *testing.T) {
	doc := model.RawDocument{
		Filename: "fibu_1012.pdf",
		Lines:    []string{"05.02.2024 Zahlung 1'200.00 0.00 3'800.00"},
		Tables:   []model.Table{{model.Row("Anzahl Buchungen 4", "2'222.00")}},
	}

	fact, ok := Ledger(doc, DefaultOptions())

	require.True(t, ok)
	assert.Equal(t, "2222.00", fact.ClosingBalance.StringFixed(2))
}

func TestLedger_BookingLines(t *testing.T) {
	doc := model.RawDocument{
		Filename: "fibu_2002.pdf",
		Lines: []string{
			"Datum Buchungstext Soll Haben Saldo",
			"05.02.2024 Zahlung 1'200.00 0.00 3'800.00",
			"10.03.2024 Zahlung 800.00 0.00 3'000.00",
			"Seite 1 von 2",
		},
	}

	fact, ok := Ledger(doc, DefaultOptions())

	require.True(t, ok)
	assert.Equal(t, "2002.00", fact.Account)
	assert.Equal(t, "3000.00", fact.ClosingBalance.StringFixed(2))
}

func TestLedger_TotalLine(t *testing.T) {
	doc := model.RawDocument{
		Filename: "fibu_1012.pdf",
		Lines:    []string{"Kontoauszug", "Total: 4'321.00", "Saldo Buchungsjahr 50.00"},
	}

	fact, ok := Ledger(doc, DefaultOptions())

	require.True(t, ok)
	assert.Equal(t, "4321.00", fact.ClosingBalance.StringFixed(2))
}

func TestLedger_NoBalance(t *testing.T) {
	doc := model.RawDocument{Filename: "fibu_1012.pdf", Lines: []string{"Keine Buchungen"}}

	fact, ok := Ledger(doc, DefaultOptions())

	assert.False(t, ok)
	assert.Equal(t, "1012.00", fact.Account)
}

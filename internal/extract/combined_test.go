package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revipro-dev/revipro/internal/model"
)

func TestCombinedLedger_SectionIsolation(t *testing.T) {
	doc := model.RawDocument{
		Filename: "fibukontoblatt.pdf",
		Tables: []model.Table{{
			model.Row("1012.00", "Steuerforderungen"),
			model.Row("Endsaldo", "", "", "", "100.00"),
			model.Row("2002.00", "Steuerverpflichtungen"),
			model.Row("Endsaldo"),
		}},
	}

	facts := CombinedLedger(doc, DefaultOptions())

	require.Len(t, facts, 2)
	assert.Equal(t, "1012.00", facts[0].Account)
	assert.Equal(t, "100.00", facts[0].ClosingBalance.StringFixed(2))
	assert.Equal(t, "2002.00", facts[1].Account)
	assert.Equal(t, "0.00", facts[1].ClosingBalance.StringFixed(2))
}

func TestCombinedLedger_TextSections(t *testing.T) {
	doc := model.RawDocument{
		Filename: "fibukontoblatt.pdf",
		Lines: []string{
			"Konto 1012.00 Steuerforderungen",
			"Startsaldo 1'000.00",
			"Endsaldo 31.12.2024 1'500.00",
			"Konto 2002.00 Kontokorrent",
			"Startsaldo 0.00",
			"Endsaldo 31.12.2024 250.00-",
		},
	}

	facts := CombinedLedger(doc, DefaultOptions())

	require.Len(t, facts, 2)
	assert.Equal(t, "1012.00", facts[0].Account)
	assert.Equal(t, "1500.00", facts[0].ClosingBalance.StringFixed(2))
	assert.Equal(t, "2002.00", facts[1].Account)
	assert.Equal(t, "250.00", facts[1].ClosingBalance.StringFixed(2))
	assert.Equal(t, CombinedLabel, facts[1].Label)
}

func TestCombinedLedger_EndsaldoOutsideSectionIgnored(t *testing.T) {
	doc := model.RawDocument{
		Filename: "fibukontoblatt.pdf",
		Lines:    []string{"Endsaldo 999.00", "Konto 1012.00 ohne Stichwort"},
	}

	assert.Empty(t, CombinedLedger(doc, DefaultOptions()))
}

func TestCombinedLedger_UnclosedSectionEmitsNothing(t *testing.T) {
	doc := model.RawDocument{
		Filename: "fibukontoblatt.pdf",
		Lines: []string{
			"Konto 1012.00 Steuerforderungen",
			"Endsaldo 400.00",
			"Konto 2002.00 Steuerverpflichtungen",
			"Startsaldo 10.00",
		},
	}

	facts := CombinedLedger(doc, DefaultOptions())

	require.Len(t, facts, 1)
	assert.Equal(t, "1012.00", facts[0].Account)
}

func TestSectionMachineStates(t *testing.T) {
	m := newSectionMachine(DefaultOptions())
	assert.Equal(t, idle{}, m.state)

	m.step("konto 2002.00 steuerverpflichtungen", "", nil)
	assert.Equal(t, inSection{account: "2002.00"}, m.state)

	m.step("endsaldo", "", func() decimal.Decimal { return decimal.NewFromInt(5) })
	assert.Equal(t, idle{}, m.state)
	assert.Equal(t, "5", m.balances["2002.00"].String())
}

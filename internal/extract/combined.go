package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/revipro-dev/revipro/internal/amount"
	"github.com/revipro-dev/revipro/internal/model"
)

// CombinedLabel labels balances read from a multi-account extract.
const CombinedLabel = "Endsaldo Kontoblatt"

// sectionState is either idle or inSection. A combined extract holds
// several account ledgers back to back, delimited only by text markers.
type sectionState interface {
	isSectionState()
}

type idle struct{}

type inSection struct {
	account string
}

func (idle) isSectionState()      {}
func (inSection) isSectionState() {}

// sectionTrigger opens a section: the account id plus either the keyword
// on the same line or a following "Startsaldo" line.
type sectionTrigger struct {
	account string
	keyword string
}

type sectionMachine struct {
	state    sectionState
	triggers []sectionTrigger
	balances map[string]decimal.Decimal
	order    []string
}

func newSectionMachine(opts Options) *sectionMachine {
	return &sectionMachine{
		state: idle{},
		triggers: []sectionTrigger{
			{account: opts.Receivables, keyword: "forderungen"},
			{account: opts.Payables, keyword: "verpflichtungen"},
		},
		balances: make(map[string]decimal.Decimal),
	}
}

// step feeds one lowercased line (or table row) with its successor.
// closing is only evaluated on an "Endsaldo" line inside a section.
func (m *sectionMachine) step(cur, next string, closing func() decimal.Decimal) {
	if strings.Contains(cur, "endsaldo") {
		if s, ok := m.state.(inSection); ok {
			m.balances[s.account] = closing()
			m.state = idle{}
		}
		return
	}
	for _, t := range m.triggers {
		if !strings.Contains(cur, t.account) {
			continue
		}
		if strings.Contains(cur, t.keyword) || strings.HasPrefix(next, "startsaldo") {
			m.enter(t.account)
			return
		}
	}
}

func (m *sectionMachine) enter(account string) {
	seen := false
	for _, a := range m.order {
		if a == account {
			seen = true
			break
		}
	}
	if !seen {
		m.order = append(m.order, account)
	}
	delete(m.balances, account)
	m.state = inSection{account: account}
}

func (m *sectionMachine) facts(filename string) []model.LedgerFact {
	var facts []model.LedgerFact
	for _, acct := range m.order {
		bal, ok := m.balances[acct]
		if !ok {
			continue
		}
		facts = append(facts, model.LedgerFact{
			Filename:       filename,
			Account:        acct,
			ClosingBalance: bal,
			Label:          CombinedLabel,
		})
	}
	return facts
}

// CombinedLedger extracts one closing balance per account section. Text
// lines are scanned first; the table grid is the fallback.
func CombinedLedger(doc model.RawDocument, opts Options) []model.LedgerFact {
	m := newSectionMachine(opts)
	for i, line := range doc.Lines {
		next := ""
		if i+1 < len(doc.Lines) {
			next = lower(doc.Lines[i+1])
		}
		line := line
		m.step(lower(line), next, func() decimal.Decimal { return lastTokenValue(line) })
	}
	if facts := m.facts(doc.Filename); len(facts) > 0 {
		return facts
	}

	var rows [][]*string
	for _, tbl := range doc.Tables {
		rows = append(rows, tbl...)
	}
	m = newSectionMachine(opts)
	for i, row := range rows {
		next := ""
		if i+1 < len(rows) {
			next = lower(model.JoinRow(rows[i+1]))
		}
		row := row
		m.step(lower(model.JoinRow(row)), next, func() decimal.Decimal { return lastCellValue(row) })
	}
	return m.facts(doc.Filename)
}

// lastTokenValue is the last parseable number on an Endsaldo line, or zero
// for a settled account printed without figures.
func lastTokenValue(line string) decimal.Decimal {
	vals := amount.Values(line)
	if len(vals) == 0 {
		return decimal.Zero
	}
	return vals[len(vals)-1].Abs()
}

func lastCellValue(row []*string) decimal.Decimal {
	for i := len(row) - 1; i >= 0; i-- {
		c := model.Cell(row, i)
		if c == "" {
			continue
		}
		if v, ok := amount.Parse(c); ok {
			return v.Abs()
		}
	}
	return decimal.Zero
}

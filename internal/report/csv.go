package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/revipro-dev/revipro/internal/model"
)

// ItemsHeader is the CSV header of the item export.
const ItemsHeader = "rule,side,source,label,amount,year,account,doc_type,is_negative"

const (
	numFields  = 9
	colRule    = 0
	colSide    = 1
	colSource  = 2
	colLabel   = 3
	colAmount  = 4
	colYear    = 5
	colAccount = 6
	colDocType = 7
	colNeg     = 8
)

// Item sides.
const (
	SideTax  = "tax"
	SideFibu = "fibu"
)

// MarshalTaxItem converts a tax fact of rule to a CSV row.
func MarshalTaxItem(rule model.RuleID, f model.TaxFact) []string {
	row := make([]string, numFields)
	row[colRule] = string(rule)
	row[colSide] = SideTax
	row[colSource] = f.Filename
	row[colLabel] = TaxLabel(f.Category)
	row[colAmount] = f.Amount.String()
	row[colYear] = f.FiscalYear
	row[colDocType] = string(f.Category)
	row[colNeg] = strconv.FormatBool(f.IsNegative)
	return row
}

// MarshalLedgerItem converts a ledger fact of rule to a CSV row.
func MarshalLedgerItem(rule model.RuleID, f model.LedgerFact) []string {
	row := make([]string, numFields)
	row[colRule] = string(rule)
	row[colSide] = SideFibu
	row[colSource] = f.Filename
	row[colLabel] = f.Label
	row[colAmount] = f.ClosingBalance.String()
	row[colAccount] = f.Account
	return row
}

// WriteItemsCSV writes one row per tax and ledger item of every rule.
func WriteItemsCSV(w io.Writer, a model.Analysis) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ItemsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	n := 1
	for _, r := range a.Results {
		for _, f := range r.TaxItems {
			n++
			if err := cw.Write(MarshalTaxItem(r.Rule.ID, f)); err != nil {
				return fmt.Errorf("writing row %d: %w", n, err)
			}
		}
		for _, f := range r.LedgerItems {
			n++
			if err := cw.Write(MarshalLedgerItem(r.Rule.ID, f)); err != nil {
				return fmt.Errorf("writing row %d: %w", n, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Package runlog keeps the audit trail of past analyses in
// logs/audit-log.csv, one row per rule result.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/revipro-dev/revipro/internal/model"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	Rule       model.RuleID
	Status     model.AuditStatus
	Difference decimal.Decimal
	Documents  int
}

// Path is the audit log location relative to the project root.
const Path = "logs/audit-log.csv"

// Header is the CSV header for audit-log.csv.
const Header = "timestamp,run_id,rule,status,difference,documents"

const (
	numFields     = 6
	logDir        = "logs"
	colTimestamp  = 0
	colRunID      = 1
	colRule       = 2
	colStatus     = 3
	colDifference = 4
	colDocuments  = 5
)

// FromAnalysis returns one entry per rule result of a.
func FromAnalysis(a model.Analysis, at time.Time) []Entry {
	entries := make([]Entry, 0, len(a.Results))
	for _, r := range a.Results {
		entries = append(entries, Entry{
			Timestamp:  at,
			RunID:      a.RunID,
			Rule:       r.Rule.ID,
			Status:     r.Status,
			Difference: r.Difference,
			Documents:  len(a.Documents),
		})
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colRule] = string(e.Rule)
	row[colStatus] = string(e.Status)
	row[colDifference] = e.Difference.StringFixed(2)
	row[colDocuments] = strconv.Itoa(e.Documents)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	diff, err := decimal.NewFromString(record[colDifference])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing difference %q: %w", record[colDifference], err)
	}
	docs, err := strconv.Atoi(record[colDocuments])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing documents %q: %w", record[colDocuments], err)
	}

	return Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		Rule:       model.RuleID(record[colRule]),
		Status:     model.AuditStatus(record[colStatus]),
		Difference: diff,
		Documents:  docs,
	}, nil
}

// Append writes entries to <root>/logs/audit-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, Path)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/audit-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, Path)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

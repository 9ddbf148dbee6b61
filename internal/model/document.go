package model

import "strings"

// Table is one table of a page grid. A nil cell is an empty cell.
type Table [][]*string

// RawDocument is what the text/table extraction layer hands to the core.
type RawDocument struct {
	Filename string
	Lines    []string
	Tables   []Table
}

// Text returns all lines joined by newlines.
func (d RawDocument) Text() string {
	return strings.Join(d.Lines, "\n")
}

// Cell returns the trimmed content of row[i], or "" when absent.
func Cell(row []*string, i int) string {
	if i < 0 || i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(*row[i])
}

// JoinRow joins all non-empty cells of a row with single spaces.
func JoinRow(row []*string) string {
	parts := make([]string, 0, len(row))
	for i := range row {
		if c := Cell(row, i); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// Row builds a table row from plain strings; "" becomes an empty cell.
func Row(cells ...string) []*string {
	row := make([]*string, len(cells))
	for i, c := range cells {
		if c == "" {
			continue
		}
		c := c
		row[i] = &c
	}
	return row
}

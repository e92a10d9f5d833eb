// Package dataset holds the delimited tables the ingestion loop reads and
// writes: the cleaned snapshot of a cycle and the cumulative master dataset.
//
// Cells are kept as strings exactly as read. Nothing is type-inferred, so a
// table written back out reproduces its input values byte for byte.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates fields in every file this package touches.
const Delimiter = ';'

// Table is a header plus ordered rows. Every row has len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table has no columns (and therefore no rows).
func (t *Table) Empty() bool {
	return t == nil || len(t.Columns) == 0
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ParseError describes a malformed row.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("error tokenizing data: line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// rowKey builds an unambiguous identity for a row.
// Length-prefixing each cell keeps "a;b" distinct from "a" + ";b".
func rowKey(row []string) string {
	var b strings.Builder
	for _, cell := range row {
		b.WriteString(strconv.Itoa(len(cell)))
		b.WriteByte(':')
		b.WriteString(cell)
	}
	return b.String()
}

// dedupeColumns renames repeated header names to name.1, name.2, ...
func dedupeColumns(cols []string) []string {
	taken := make(map[string]bool, len(cols))
	counts := make(map[string]int)
	out := make([]string, len(cols))
	for i, c := range cols {
		name := c
		for taken[name] {
			counts[c]++
			name = fmt.Sprintf("%s.%d", c, counts[c])
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// Package table holds the in-memory tabular container the pipeline operates over.
package table

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Value is a raw cell value: string, float64, bool or nil (missing).
type Value any

// Row maps column name to raw value.
type Row map[string]Value

// Table is an ordered set of columns plus rows. Treat as read-only once loaded.
type Table struct {
	Columns []string
	Rows    []Row
}

// New builds a table from a header and rows of values aligned to it.
// Names are trimmed, blank names become "Unnamed: N" and duplicates get a ".N" suffix.
func New(header []string, records [][]Value) *Table {
	cols := UniqueNames(header)
	t := &Table{Columns: cols, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		r := make(Row, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				r[c] = rec[i]
			} else {
				r[c] = nil
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

var unnamedRe = regexp.MustCompile(`(?i)^unnamed`)

// IsUnnamed reports whether a column name is a placeholder for a blank header cell.
func IsUnnamed(name string) bool { return unnamedRe.MatchString(strings.TrimSpace(name)) }

// UniqueNames trims names, fills blanks and disambiguates duplicates. A
// generated "name.N" never collides with a name already in use.
func UniqueNames(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	next := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[name] {
			base := name
			n := next[base]
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if !used[name] {
					break
				}
			}
			next[base] = n
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// DropUnnamed returns a copy of t without placeholder columns.
func (t *Table) DropUnnamed() *Table {
	keep := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !IsUnnamed(c) {
			keep = append(keep, c)
		}
	}
	if len(keep) == len(t.Columns) {
		return t
	}
	out := &Table{Columns: keep, Rows: make([]Row, 0, len(t.Rows))}
	for _, r := range t.Rows {
		nr := make(Row, len(keep))
		for _, c := range keep {
			nr[c] = r[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the column exists.
func (t *Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Head returns up to n rows rendered as strings, in column order.
func (t *Table) Head(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := make([][]string, 0, n)
	for _, r := range t.Rows[:n] {
		line := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			line[i] = Text(r[c])
		}
		out = append(out, line)
	}
	return out
}

// IsMissing reports whether v carries no value.
func IsMissing(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

// Text renders a value as display text; missing values render as "".
func Text(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

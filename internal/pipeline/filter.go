package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/tabula-cli/internal/schema"
)

// Field names a filterable or searchable attribute of a WorkingRow.
type Field string

const (
	FieldVehicleType Field = "vehicle_type"
	FieldCategory    Field = "category"
	FieldProvider    Field = "provider"
	FieldRegion      Field = "region"
	FieldPlate       Field = "plate"
	FieldProtocol    Field = "protocol"
	FieldText        Field = "text"
)

// Fields lists every Field in display order.
var Fields = []Field{FieldVehicleType, FieldCategory, FieldProvider, FieldRegion, FieldPlate, FieldProtocol, FieldText}

// DefaultSearch are the fields searched when a Filter names none.
var DefaultSearch = []Field{FieldText, FieldProvider, FieldRegion, FieldPlate, FieldProtocol}

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Fields {
		if k == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Value returns the row's value for f.
func (w WorkingRow) Value(f Field) string {
	switch f {
	case FieldVehicleType:
		return w.VehicleType
	case FieldCategory:
		return w.Category
	case FieldProvider:
		return w.Provider
	case FieldRegion:
		return w.Region
	case FieldPlate:
		return w.Plate
	case FieldProtocol:
		return w.Protocol
	case FieldText:
		return w.Text
	}
	return ""
}

// role returns the role backing f. Derived fields report ok=false and are
// always available.
func (f Field) role() (schema.Role, bool) {
	switch f {
	case FieldProvider:
		return schema.Provider, true
	case FieldRegion:
		return schema.Region, true
	case FieldPlate:
		return schema.Plate, true
	case FieldProtocol:
		return schema.Protocol, true
	}
	return schema.Unmapped, false
}

// Available reports whether f carries data under binding b.
func (f Field) Available(b *schema.Binding) bool {
	if r, ok := f.role(); ok {
		return b.Bound(r)
	}
	return true
}

// Filter is a conjunction of predicates. The zero Filter passes every row.
type Filter struct {
	// From and To are inclusive calendar-date bounds; zero means open.
	From, To time.Time
	// Select restricts a field to a value set. A nil slice leaves the field
	// unfiltered; an empty non-nil slice selects nothing.
	Select map[Field][]string
	// Search is a case-insensitive substring matched against SearchIn (OR).
	Search   string
	SearchIn []Field
}

// Apply returns the rows passing every active predicate, in input order.
// Predicates on roles unbound in b are skipped.
func (f Filter) Apply(rows []WorkingRow, b *schema.Binding) []WorkingRow {
	dateOn := (!f.From.IsZero() || !f.To.IsZero()) && b.Bound(schema.Date) && anyDate(rows)
	from, to := dayOf(f.From), dayOf(f.To)

	type selection struct {
		field Field
		set   map[string]struct{}
	}
	var sels []selection
	for field, vals := range f.Select {
		if vals == nil || !field.Available(b) {
			continue
		}
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		sels = append(sels, selection{field, set})
	}

	needle := strings.ToLower(strings.TrimSpace(f.Search))
	var searchIn []Field
	if needle != "" {
		in := f.SearchIn
		if len(in) == 0 {
			in = DefaultSearch
		}
		for _, fld := range in {
			if fld.Available(b) {
				searchIn = append(searchIn, fld)
			}
		}
	}

	out := make([]WorkingRow, 0, len(rows))
next:
	for _, w := range rows {
		if dateOn {
			if !w.Date.Valid {
				continue
			}
			d := w.Date.Day()
			if !f.From.IsZero() && d.Before(from) {
				continue
			}
			if !f.To.IsZero() && d.After(to) {
				continue
			}
		}
		for _, s := range sels {
			if _, ok := s.set[w.Value(s.field)]; !ok {
				continue next
			}
		}
		if len(searchIn) > 0 && !matches(w, searchIn, needle) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func matches(w WorkingRow, fields []Field, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(w.Value(f)), needle) {
			return true
		}
	}
	return false
}

func anyDate(rows []WorkingRow) bool {
	for _, w := range rows {
		if w.Date.Valid {
			return true
		}
	}
	return false
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Options returns the sorted distinct non-empty values of f.
func Options(rows []WorkingRow, f Field) []string {
	seen := map[string]struct{}{}
	for _, w := range rows {
		if v := w.Value(f); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DateSpan returns the earliest and latest valid dates; ok is false when
// no row has one.
func DateSpan(rows []WorkingRow) (first, last time.Time, ok bool) {
	for _, w := range rows {
		if !w.Date.Valid {
			continue
		}
		d := w.Date.Day()
		if !ok || d.Before(first) {
			first = d
		}
		if !ok || d.After(last) {
			last = d
		}
		ok = true
	}
	return first, last, ok
}

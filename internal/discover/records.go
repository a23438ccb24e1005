package discover

import (
	"errors"

	"github.com/KaramelBytes/tabula-cli/internal/table"
	"github.com/tidwall/gjson"
)

var (
	// ErrMalformed is returned for input that is not valid JSON.
	ErrMalformed = errors.New("malformed JSON")
	// ErrNoRecords is returned when no record list can be found.
	ErrNoRecords = errors.New("no record list found in JSON")
)

// Records locates the most plausible record list in a JSON document and
// flattens it into a table. key names the object key the records came from;
// it is empty when the document itself is a list and "." when the whole
// object was taken as a single record.
func Records(data []byte) (t *table.Table, key string, err error) {
	if !gjson.ValidBytes(data) {
		return nil, "", ErrMalformed
	}
	root := gjson.ParseBytes(data)
	var items []gjson.Result
	switch {
	case root.IsArray():
		items = root.Array()
	case root.IsObject():
		var found bool
		key, items, found = recordList(root)
		if !found {
			key = "."
			items = []gjson.Result{root}
		}
	default:
		return nil, "", ErrNoRecords
	}
	return Flatten(items), key, nil
}

// RecordListKey returns the key of obj holding the longest non-empty list of
// objects. ok is false when no key does; the empty string is a valid key.
// Ties go to the first key in document order.
func RecordListKey(obj gjson.Result) (key string, ok bool) {
	key, _, ok = recordList(obj)
	return key, ok
}

func recordList(obj gjson.Result) (string, []gjson.Result, bool) {
	var (
		best  string
		items []gjson.Result
		found bool
	)
	obj.ForEach(func(k, v gjson.Result) bool {
		if !v.IsArray() {
			return true
		}
		arr := v.Array()
		if len(arr) == 0 || len(arr) <= len(items) {
			return true
		}
		for _, it := range arr {
			if !it.IsObject() {
				return true
			}
		}
		best, items, found = k.String(), arr, true
		return true
	})
	return best, items, found
}

// Flatten turns a list of JSON values into a table. Nested object fields are
// named by their "."-joined path; arrays are kept as raw JSON text. Column
// order follows first appearance.
func Flatten(items []gjson.Result) *table.Table {
	var cols []string
	seen := map[string]bool{}
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		row := table.Row{}
		if it.IsObject() {
			flattenInto(row, "", it, &cols, seen)
		} else {
			addCell(row, "value", scalar(it), &cols, seen)
		}
		rows = append(rows, row)
	}
	for _, r := range rows {
		for _, c := range cols {
			if _, ok := r[c]; !ok {
				r[c] = nil
			}
		}
	}
	return &table.Table{Columns: cols, Rows: rows}
}

func flattenInto(row table.Row, prefix string, obj gjson.Result, cols *[]string, seen map[string]bool) {
	obj.ForEach(func(k, v gjson.Result) bool {
		name := k.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		if v.IsObject() {
			flattenInto(row, name, v, cols, seen)
			return true
		}
		addCell(row, name, scalar(v), cols, seen)
		return true
	})
}

func addCell(row table.Row, name string, v table.Value, cols *[]string, seen map[string]bool) {
	if !seen[name] {
		seen[name] = true
		*cols = append(*cols, name)
	}
	row[name] = v
}

func scalar(v gjson.Result) table.Value {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return v.Num
	case gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}

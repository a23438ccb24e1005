package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueNames(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"trim and blanks", []string{" a ", "", "b"}, []string{"a", "Unnamed: 1", "b"}},
		{"duplicates", []string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{"generated name already taken", []string{"a", "a", "a.1"}, []string{"a", "a.1", "a.1.1"}},
		{"existing suffix first", []string{"a.1", "a", "a"}, []string{"a.1", "a", "a.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueNames(tt.header))
		})
	}
}

func TestNew_DuplicateColumnsKeepEveryCell(t *testing.T) {
	tbl := New([]string{"a", "a", "a.1"}, [][]Value{{"x", "y", "z"}})
	require.Equal(t, 1, tbl.Len())
	assert.Len(t, tbl.Columns, 3)
	r := tbl.Rows[0]
	assert.Equal(t, "x", r["a"])
	assert.Equal(t, "y", r["a.1"])
	assert.Equal(t, "z", r["a.1.1"])
}

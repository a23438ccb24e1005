package schema

import (
	"errors"
	"fmt"
)

// ErrColumnTaken is returned when binding a column already bound to another role.
var ErrColumnTaken = errors.New("column already bound")

// Binding maps roles to optional column names. No column is bound to two roles.
type Binding struct {
	cols  map[Role]string
	owner map[string]Role
}

// NewBinding returns an empty binding.
func NewBinding() *Binding {
	return &Binding{cols: map[Role]string{}, owner: map[string]Role{}}
}

// Column returns the column bound to r.
func (b *Binding) Column(r Role) (string, bool) {
	if b == nil {
		return "", false
	}
	c, ok := b.cols[r]
	return c, ok
}

// Bound reports whether r has a column.
func (b *Binding) Bound(r Role) bool {
	_, ok := b.Column(r)
	return ok
}

// Bind sets the column for r, replacing any previous one. An empty column
// unbinds r.
func (b *Binding) Bind(r Role, col string) error {
	if r == Unmapped {
		return fmt.Errorf("bind %q: cannot bind the unmapped role", col)
	}
	if col == "" {
		b.Unbind(r)
		return nil
	}
	if other, ok := b.owner[col]; ok && other != r {
		return fmt.Errorf("bind %s to %q: %w to %s", r, col, ErrColumnTaken, other)
	}
	b.Unbind(r)
	b.cols[r] = col
	b.owner[col] = r
	return nil
}

// Unbind clears r.
func (b *Binding) Unbind(r Role) {
	if c, ok := b.cols[r]; ok {
		delete(b.owner, c)
		delete(b.cols, r)
	}
}

// RoleOf returns the role a column is bound to, or Unmapped.
func (b *Binding) RoleOf(col string) Role {
	if b == nil {
		return Unmapped
	}
	if r, ok := b.owner[col]; ok {
		return r
	}
	return Unmapped
}

// Roles returns the bound roles in Order.
func (b *Binding) Roles() []Role {
	var out []Role
	for _, r := range Order {
		if b.Bound(r) {
			out = append(out, r)
		}
	}
	return out
}

// Clone returns an independent copy.
func (b *Binding) Clone() *Binding {
	out := NewBinding()
	if b == nil {
		return out
	}
	for r, c := range b.cols {
		out.cols[r] = c
		out.owner[c] = r
	}
	return out
}

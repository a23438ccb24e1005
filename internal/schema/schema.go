// Package schema binds semantic roles to physical column names.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the semantic meaning a column is bound to.
type Role int

const (
	Unmapped Role = iota
	Date
	Amount
	Distance
	Provider
	Region
	Plate
	VehicleType
	Protocol
)

// Order is the fixed order in which roles claim columns during auto-resolution.
var Order = []Role{Date, Amount, Distance, Provider, Region, Plate, VehicleType, Protocol}

var roleNames = map[Role]string{
	Unmapped:    "unmapped",
	Date:        "date",
	Amount:      "amount",
	Distance:    "distance",
	Provider:    "provider",
	Region:      "region",
	Plate:       "plate",
	VehicleType: "vehicle_type",
	Protocol:    "protocol",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ErrUnknownRole is returned by ParseRole for names outside the role set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps a role name ("date", "vehicle_type", "vehicle-type", ...) to a Role.
func ParseRole(s string) (Role, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.ReplaceAll(k, "-", "_")
	for r, name := range roleNames {
		if name == k && r != Unmapped {
			return r, nil
		}
	}
	return Unmapped, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Resolve finds the column matching one of candidates.
// Pass 1 is case-insensitive equality, pass 2 case-insensitive containment of a
// candidate within the column name. The first match in column order wins.
func Resolve(columns, candidates []string) (string, bool) {
	return resolve(columns, candidates, nil)
}

func resolve(columns, candidates []string, skip map[string]Role) (string, bool) {
	cands := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			cands = append(cands, c)
		}
	}
	if len(cands) == 0 {
		return "", false
	}
	for _, col := range columns {
		if _, taken := skip[col]; taken {
			continue
		}
		lc := strings.ToLower(strings.TrimSpace(col))
		for _, c := range cands {
			if lc == c {
				return col, true
			}
		}
	}
	for _, col := range columns {
		if _, taken := skip[col]; taken {
			continue
		}
		lc := strings.ToLower(col)
		for _, c := range cands {
			if strings.Contains(lc, c) {
				return col, true
			}
		}
	}
	return "", false
}

// ResolveAll resolves every role in Order. A column already claimed by an
// earlier role is never offered to a later one.
func ResolveAll(columns []string, candidates map[Role][]string) *Binding {
	b := NewBinding()
	for _, r := range Order {
		if col, ok := resolve(columns, candidates[r], b.owner); ok {
			b.cols[r] = col
			b.owner[col] = r
		}
	}
	return b
}

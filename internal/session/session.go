// Package session ties one upload to its role binding and recomputes the
// working set on demand.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KaramelBytes/tabula-cli/internal/analysis"
	"github.com/KaramelBytes/tabula-cli/internal/classify"
	"github.com/KaramelBytes/tabula-cli/internal/parser"
	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/schema"
	"github.com/google/uuid"
)

// ErrUnknownColumn is returned when binding a column the upload does not have.
var ErrUnknownColumn = errors.New("unknown column")

// Session is one upload plus its binding. Only the binding is mutable; every
// Run derives from the read-only table.
type Session struct {
	ID        string
	Source    *parser.Result
	Binding   *schema.Binding
	CreatedAt time.Time

	classifier *classify.Classifier
	log        *slog.Logger
}

// New resolves a binding for res from candidates. When the date role stays
// unresolved, the format's own date column is bound if it is free.
func New(res *parser.Result, candidates map[schema.Role][]string, rules classify.Rules) *Session {
	id := uuid.NewString()
	b := schema.ResolveAll(res.Table.Columns, candidates)
	if !b.Bound(schema.Date) && res.DateColumn != "" && res.Table.Has(res.DateColumn) {
		_ = b.Bind(schema.Date, res.DateColumn)
	}
	s := &Session{
		ID:         id,
		Source:     res,
		Binding:    b,
		CreatedAt:  time.Now(),
		classifier: classify.New(rules),
		log:        slog.With("session", id, "file", res.Name),
	}
	s.log.Debug("session created", "rows", res.Table.Len(), "columns", len(res.Table.Columns), "bound", len(b.Roles()))
	return s
}

// Bind maps role to col; an empty col unbinds the role.
func (s *Session) Bind(role schema.Role, col string) error {
	if col != "" && !s.Source.Table.Has(col) {
		return fmt.Errorf("bind %s: %w %q", role, ErrUnknownColumn, col)
	}
	if err := s.Binding.Bind(role, col); err != nil {
		return err
	}
	s.log.Debug("role bound", "role", role.String(), "column", col)
	return nil
}

// Classifier returns the session's compiled rules.
func (s *Session) Classifier() *classify.Classifier { return s.classifier }

// Result is the outcome of one recomputation pass.
type Result struct {
	// All holds every derived row; Rows the filtered working set.
	All    []pipeline.WorkingRow
	Rows   []pipeline.WorkingRow
	Report *analysis.Report
	// Columns are the upload's columns in source order.
	Columns []string
}

// Run derives, filters and aggregates. It has no effect on the session.
func (s *Session) Run(f pipeline.Filter, opt analysis.Options) (*Result, error) {
	if s.Source == nil || s.Source.Table == nil {
		return nil, errors.New("session has no table")
	}
	start := time.Now()
	all := pipeline.Derive(s.Source.Table, s.Binding, s.Source.Sources, s.classifier)
	rows := f.Apply(all, s.Binding)
	rep := analysis.Build(s.Source.Name, len(all), rows, s.Binding, opt)
	rep.Session = s.ID
	rep.Sheet = s.Source.Sheet
	s.log.Debug("recomputed",
		"derived", len(all),
		"working", len(rows),
		"notes", len(rep.Notes),
		"elapsed", time.Since(start))
	return &Result{All: all, Rows: rows, Report: rep, Columns: s.Source.Table.Columns}, nil
}

// Summary describes the session for machine-readable output.
type Summary struct {
	ID        string            `json:"id"`
	File      string            `json:"file"`
	Kind      string            `json:"kind"`
	Sheet     string            `json:"sheet,omitempty"`
	RecordKey string            `json:"record_key,omitempty"`
	Rows      int               `json:"rows"`
	Columns   []string          `json:"columns"`
	Binding   map[string]string `json:"binding"`
	CreatedAt time.Time         `json:"created_at"`
}

// Describe returns the session summary.
func (s *Session) Describe() Summary {
	bind := map[string]string{}
	for _, r := range s.Binding.Roles() {
		col, _ := s.Binding.Column(r)
		bind[r.String()] = col
	}
	return Summary{
		ID:        s.ID,
		File:      s.Source.Name,
		Kind:      string(s.Source.Kind),
		Sheet:     s.Source.Sheet,
		RecordKey: s.Source.RecordKey,
		Rows:      s.Source.Table.Len(),
		Columns:   s.Source.Table.Columns,
		Binding:   bind,
		CreatedAt: s.CreatedAt,
	}
}

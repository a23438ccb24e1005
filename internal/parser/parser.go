// Package parser turns uploaded files into raw tables.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabula-cli/internal/discover"
	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/table"
	"github.com/KaramelBytes/tabula-cli/internal/trello"
)

// Kind is the shape of an upload.
type Kind string

const (
	KindAuto    Kind = "auto"
	KindTable   Kind = "table"
	KindRecords Kind = "records"
	KindTrello  Kind = "trello"
)

// ParseKind validates a kind name; "" means auto.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case "", KindAuto:
		return KindAuto, nil
	case KindTable, KindRecords, KindTrello:
		return k, nil
	}
	return "", fmt.Errorf("unknown input kind %q (want auto|table|records|trello)", s)
}

var (
	// ErrUnsupported indicates a file type no loader accepts.
	ErrUnsupported = errors.New("unsupported file format")
	// ErrMalformed indicates an unreadable upload.
	ErrMalformed = errors.New("unreadable upload")
	// ErrNoRecords indicates a JSON upload without a record list.
	ErrNoRecords = discover.ErrNoRecords
	// ErrNoCards indicates a Trello upload without cards.
	ErrNoCards = trello.ErrNoCards
)

// Options controls loading.
type Options struct {
	// SheetName selects a workbook sheet; it wins over SheetIndex.
	SheetName string
	// SheetIndex is 1-based; 0 selects the first sheet.
	SheetIndex int
	Kind       Kind
	Markers    discover.Markers
}

// Result is a loaded upload.
type Result struct {
	Name      string
	Kind      Kind
	Sheet     string
	RecordKey string
	Table     *table.Table
	// Sources names the free-text columns, when the format has them.
	Sources pipeline.Sources
	// DateColumn is a format-defined date column, bound when nothing else resolves.
	DateColumn string
}

// Loader reads one family of file formats.
type Loader interface {
	CanParse(filename string) bool
	Load(data []byte, opt Options) (*Result, error)
}

var registry []Loader

// Register adds a loader to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(jsonLoader{})
}

// LoadFile reads path and loads it with the first matching loader.
func LoadFile(path string, opt Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Load(filepath.Base(path), data, opt)
}

// Load selects a loader by file name.
func Load(name string, data []byte, opt Options) (*Result, error) {
	if opt.Markers.Primary == "" && opt.Markers.Secondary == "" {
		opt.Markers = discover.DefaultMarkers()
	}
	for _, l := range registry {
		if !l.CanParse(name) {
			continue
		}
		res, err := l.Load(data, opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		res.Name = name
		return res, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrUnsupported)
}

package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/discover"
)

type csvLoader struct{}

func (csvLoader) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (csvLoader) Load(data []byte, opt Options) (*Result, error) {
	if opt.Kind != KindAuto && opt.Kind != "" && opt.Kind != KindTable {
		return nil, fmt.Errorf("%w: delimited text cannot be read as %s", ErrUnsupported, opt.Kind)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = SniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	grid, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", ErrMalformed, err)
	}
	idx := discover.HeaderRow(grid, opt.Markers)
	return &Result{Kind: KindTable, Table: discover.ApplyHeader(grid, idx, nil)}, nil
}

// SniffDelimiter picks ',', ';' or tab by frequency in the first non-empty
// line. Ties and lines with none of them default to ','.
func SniffDelimiter(data []byte) rune {
	var line string
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}
	best, bestN := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

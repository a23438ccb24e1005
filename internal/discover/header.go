// Package discover locates the header row of raw spreadsheet grids and the
// record list inside arbitrary JSON documents.
package discover

import (
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/table"
)

// DefaultScanRows is how many leading rows are inspected for a header.
const DefaultScanRows = 25

// Markers configures header detection. Terms are compared uppercased and trimmed.
type Markers struct {
	Primary   string
	Secondary string
	ScanRows  int
}

// DefaultMarkers matches attendance sheets with CLIENTE / PROTOCOLO headers.
func DefaultMarkers() Markers {
	return Markers{Primary: "CLIENTE", Secondary: "PROTOCOLO", ScanRows: DefaultScanRows}
}

// HeaderRow returns the 0-based index of the header row in grid.
//
// Tie-breaks: the first row holding both marker terms wins; otherwise the
// first row with the highest count of non-empty cells; all-empty scans give 0.
func HeaderRow(grid [][]string, m Markers) int {
	scan := m.ScanRows
	if scan <= 0 {
		scan = DefaultScanRows
	}
	if scan > len(grid) {
		scan = len(grid)
	}
	primary := strings.ToUpper(strings.TrimSpace(m.Primary))
	secondary := strings.ToUpper(strings.TrimSpace(m.Secondary))
	if primary != "" && secondary != "" {
		for i := 0; i < scan; i++ {
			cells := make(map[string]struct{}, len(grid[i]))
			for _, c := range grid[i] {
				cells[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
			}
			_, hasP := cells[primary]
			_, hasS := cells[secondary]
			if hasP && hasS {
				return i
			}
		}
	}
	best, bestCount := 0, 0
	for i := 0; i < scan; i++ {
		if n := nonEmpty(grid[i]); n > bestCount {
			best, bestCount = i, n
		}
	}
	return best
}

func nonEmpty(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

// ApplyHeader turns grid[idx] into column names and the rows below into records.
// Placeholder columns are dropped and fully empty rows skipped. convert maps a
// raw cell at grid[row][col] to a Value; nil keeps cells as strings.
func ApplyHeader(grid [][]string, idx int, convert func(row, col int, raw string) table.Value) *table.Table {
	if idx < 0 || idx >= len(grid) {
		return &table.Table{}
	}
	if convert == nil {
		convert = func(_, _ int, s string) table.Value { return s }
	}
	header := grid[idx]
	width := len(header)
	for _, r := range grid[idx+1:] {
		if len(r) > width {
			width = len(r)
		}
	}
	names := make([]string, width)
	copy(names, header)

	records := make([][]table.Value, 0, len(grid)-idx-1)
	for i := idx + 1; i < len(grid); i++ {
		r := grid[i]
		if nonEmpty(r) == 0 {
			continue
		}
		rec := make([]table.Value, width)
		for j := 0; j < width; j++ {
			if j < len(r) && strings.TrimSpace(r[j]) != "" {
				rec[j] = convert(i, j, r[j])
			}
		}
		records = append(records, rec)
	}
	return table.New(names, records).DropUnnamed()
}

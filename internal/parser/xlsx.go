package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/discover"
	"github.com/KaramelBytes/tabula-cli/internal/table"
	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

func (xlsxLoader) Load(data []byte, opt Options) (*Result, error) {
	if opt.Kind != KindAuto && opt.Kind != "" && opt.Kind != KindTable {
		return nil, fmt.Errorf("%w: workbooks cannot be read as %s", ErrUnsupported, opt.Kind)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, err
	}
	g, err := readSheet(f, sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrMalformed, sheet, err)
	}
	idx := discover.HeaderRow(g.cells, opt.Markers)
	if err := g.fillMerged(f, sheet, idx+1); err != nil {
		return nil, fmt.Errorf("%w: read merged cells of %q: %v", ErrMalformed, sheet, err)
	}
	return &Result{
		Kind:  KindTable,
		Sheet: sheet,
		Table: discover.ApplyHeader(g.cells, idx, g.value),
	}, nil
}

// Sheets lists the sheet names of a workbook in tab order.
func Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrMalformed, err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func pickSheet(sheets []string, name string, index int) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}
	if name != "" {
		for _, s := range sheets {
			if s == name {
				return s, nil
			}
		}
		for _, s := range sheets {
			if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(name)) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found (have: %s)", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d)", index, len(sheets))
	}
	return sheets[index-1], nil
}

// sheetGrid is a sheet's raw cell text padded to a rectangle, with a flag
// per cell telling whether the workbook stores it as a number.
type sheetGrid struct {
	cells   [][]string
	numeric [][]bool
}

func readSheet(f *excelize.File, sheet string) (*sheetGrid, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	g := &sheetGrid{cells: make([][]string, len(rows)), numeric: make([][]bool, len(rows))}
	for i, r := range rows {
		g.cells[i] = make([]string, width)
		g.numeric[i] = make([]bool, width)
		copy(g.cells[i], r)
		for j, v := range r {
			if strings.TrimSpace(v) == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, axis)
			if err != nil {
				return nil, err
			}
			// Numbers are written without a type attribute.
			g.numeric[i][j] = typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber
		}
	}
	return g, nil
}

// fillMerged copies each merged range's top-left value into every cell it
// covers. Ranges starting above row from (0-based) are left alone so title
// banners do not change header detection or column names.
func (g *sheetGrid) fillMerged(f *excelize.File, sheet string, from int) error {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}
	for _, m := range merges {
		c0, r0, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		c1, r1, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		if r0-1 < from || r0 > len(g.cells) || c0 > len(g.cells[r0-1]) {
			continue
		}
		val, num := g.cells[r0-1][c0-1], g.numeric[r0-1][c0-1]
		for r := r0 - 1; r < r1 && r < len(g.cells); r++ {
			for c := c0 - 1; c < c1 && c < len(g.cells[r]); c++ {
				g.cells[r][c], g.numeric[r][c] = val, num
			}
		}
	}
	return nil
}

// value converts numeric cells to float64 so dates arrive as Excel serials
// and amounts skip locale parsing. Text cells stay as written.
func (g *sheetGrid) value(row, col int, raw string) table.Value {
	if !g.numeric[row][col] {
		return raw
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return f
	}
	return raw
}

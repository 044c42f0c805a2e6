package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"davomat/internal/modules/report/domain"
	reportout "davomat/internal/modules/report/port/out"
)

const RosterFile = "data.xlsx"

const (
	headerHeight = 22
	rowHeight    = 25
)

// ExcelWorkbook writes spreadsheets with excelize. The cumulative roster lives
// in data.xlsx under the data directory.
type ExcelWorkbook struct {
	mu         sync.Mutex
	rosterPath string
}

func NewExcelWorkbook(dataDir string) *ExcelWorkbook {
	return &ExcelWorkbook{rosterPath: filepath.Join(dataDir, RosterFile)}
}

var _ reportout.Spreadsheet = (*ExcelWorkbook)(nil)

func (w *ExcelWorkbook) RosterPath() string {
	return w.rosterPath
}

func (w *ExcelWorkbook) WriteTable(_ context.Context, path string, table domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	defaultSheet := f.GetSheetName(0)
	index, err := f.NewSheet(table.Sheet)
	if err != nil {
		return fmt.Errorf("create sheet %q: %w", table.Sheet, err)
	}
	f.SetActiveSheet(index)
	if defaultSheet != table.Sheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}
	if err := writeHeader(f, table.Sheet, table.Columns, table.HeaderFill, table.WhiteFont); err != nil {
		return err
	}
	style, err := bodyStyle(f, table.Sheet == domain.ExportSheet)
	if err != nil {
		return err
	}
	for n, cells := range table.Rows {
		if err := writeRow(f, table.Sheet, n+2, cells, len(table.Columns), style); err != nil {
			return err
		}
	}
	return save(f, path)
}

func (w *ExcelWorkbook) AppendRoster(_ context.Context, row domain.Row) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.openRoster()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := f.GetRows(domain.RosterSheet)
	if err != nil {
		return 0, fmt.Errorf("read roster rows: %w", err)
	}
	row.Number = maxRowNumber(rows) + 1
	style, err := bodyStyle(f, true)
	if err != nil {
		return 0, err
	}
	target := len(rows) + 1
	if target < 2 {
		target = 2
	}
	if err := writeRow(f, domain.RosterSheet, target, row.Cells(), len(domain.SessionColumns), style); err != nil {
		return 0, err
	}
	if err := save(f, w.rosterPath); err != nil {
		return 0, err
	}
	return row.Number, nil
}

// openRoster opens data.xlsx, creating the file or the roster sheet with a
// styled header when missing.
func (w *ExcelWorkbook) openRoster() (*excelize.File, error) {
	if _, err := os.Stat(w.rosterPath); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		defaultSheet := f.GetSheetName(0)
		index, err := f.NewSheet(domain.RosterSheet)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create roster sheet: %w", err)
		}
		f.SetActiveSheet(index)
		if err := f.DeleteSheet(defaultSheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("drop default sheet: %w", err)
		}
		if err := writeHeader(f, domain.RosterSheet, domain.SessionColumns, domain.HeaderFill, true); err != nil {
			_ = f.Close()
			return nil, err
		}
		return f, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat roster: %w", err)
	}

	f, err := excelize.OpenFile(w.rosterPath)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	index, err := f.GetSheetIndex(domain.RosterSheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("find roster sheet: %w", err)
	}
	if index == -1 {
		if _, err := f.NewSheet(domain.RosterSheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create roster sheet: %w", err)
		}
		if err := writeHeader(f, domain.RosterSheet, domain.SessionColumns, domain.HeaderFill, true); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// maxRowNumber scans column A below the header; non-numeric cells are ignored.
func maxRowNumber(rows [][]string) int {
	highest := 0
	for n, cells := range rows {
		if n == 0 || len(cells) == 0 {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(cells[0]), 64)
		if err != nil {
			continue
		}
		if int(value) > highest {
			highest = int(value)
		}
	}
	return highest
}

func writeHeader(f *excelize.File, sheet string, columns []domain.Column, fill string, whiteFont bool) error {
	headers := make([]any, 0, len(columns))
	for n, c := range columns {
		headers = append(headers, c.Header)
		name, err := excelize.ColumnNumberToName(n + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, c.Width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	font := &excelize.Font{Bold: true, Size: 11}
	if whiteFont {
		font.Color = "FFFFFF"
	}
	style, err := f.NewStyle(&excelize.Style{
		Font:      font,
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetRowHeight(sheet, 1, headerHeight); err != nil {
		return fmt.Errorf("header height: %w", err)
	}
	return nil
}

func bodyStyle(f *excelize.File, wrap bool) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: wrap},
	})
	if err != nil {
		return 0, fmt.Errorf("row style: %w", err)
	}
	return style, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []any, width, style int) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	end, err := excelize.CoordinatesToCellName(width, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return fmt.Errorf("style row %d: %w", rowNum, err)
	}
	if err := f.SetRowHeight(sheet, rowNum, rowHeight); err != nil {
		return fmt.Errorf("row %d height: %w", rowNum, err)
	}
	return nil
}

func save(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", filepath.Base(path), err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

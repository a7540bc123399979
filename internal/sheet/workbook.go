// Package sheet fills the two fixed spreadsheet templates of the fuel
// logbook: the dispatch/mileage sheet and the monthly fuel-consumption log.
//
// Mappers write to literal cell addresses that match the templates in use.
// They never insert rows, resize ranges or touch styling; any change to the
// templates requires updating the addresses in dispatch.go and fuellog.go.
package sheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CellWriter is the only capability the mappers need from a worksheet.
type CellWriter interface {
	SetCellValue(cell string, value any) error
}

// Workbook is an in-memory copy of a template, addressed on its first sheet.
// One Workbook is opened per output document and is not safe for concurrent use.
type Workbook struct {
	f     *excelize.File
	sheet string
}

// compile-time check: Workbook must satisfy CellWriter.
var _ CellWriter = (*Workbook)(nil)

// Open loads template bytes into a fresh workbook. The bytes are not retained
// or modified, so the same template can be opened any number of times.
func Open(template []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("sheet.Open: %w", err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, errors.New("sheet.Open: template has no worksheets")
	}
	return &Workbook{f: f, sheet: sheets[0]}, nil
}

// SetCellValue writes v into cell (e.g. "B9") on the first worksheet.
func (w *Workbook) SetCellValue(cell string, v any) error {
	if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
		return fmt.Errorf("sheet.Workbook.SetCellValue %s: %w", cell, err)
	}
	return nil
}

// Bytes serializes the workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("sheet.Workbook.Bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the workbook's temporary resources.
func (w *Workbook) Close() error {
	return w.f.Close()
}

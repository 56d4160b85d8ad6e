package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/provdir/internal/directory"
)

// WriteXLSX writes records to a single "Providers" worksheet.
func WriteXLSX(w io.Writer, records []directory.Record) error {
	f := excelize.NewFile()
	const sheet = "Providers"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	// Drop the default sheet so the workbook only has ours.
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range directory.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, r := range records {
		for colIdx, v := range r.Row() {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen the columns that carry names and addresses.
	_ = f.SetColWidth(sheet, "B", "B", 28) // full_name
	_ = f.SetColWidth(sheet, "C", "D", 28) // specialty, practice_name
	_ = f.SetColWidth(sheet, "E", "F", 32) // address lines
	_ = f.SetColWidth(sheet, "K", "K", 16) // phone
	_ = f.SetColWidth(sheet, "L", "L", 24) // languages

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

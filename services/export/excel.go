// Package exportsvc renders tabular payloads into downloadable XLSX workbooks.
package exportsvc

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/praveshhq/pravesh/core"
)

// sheet name length is capped by the XLSX format
const maxSheetNameLen = 31

type excelExporter struct{}

var _ core.TabularExporter = (*excelExporter)(nil)

func NewExcelExporter() *excelExporter {
	return &excelExporter{}
}

func (e *excelExporter) Render(cols []core.Column, rows []map[string]interface{}, title, author string) (*bytes.Buffer, error) {
	f := excelize.NewFile()

	sheet := title
	if len(sheet) > maxSheetNameLen {
		sheet = sheet[:maxSheetNameLen]
	}
	if sheet == "" {
		sheet = "Sheet1"
	}
	f.SetSheetName("Sheet1", sheet)

	now := time.Now().Format(time.RFC3339)
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:        author,
		LastModifiedBy: author,
		Title:          title,
		Created:        now,
		Modified:       now,
	}); err != nil {
		return nil, errors.Wrap(err, "setting workbook properties")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "top", Style: 1},
			{Type: "left", Style: 1},
			{Type: "bottom", Style: 1},
			{Type: "right", Style: 1},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}

	for i, col := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, errors.Wrap(err, "resolving column name")
		}
		if err = f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return nil, errors.Wrap(err, "setting column width")
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, errors.Wrap(err, "resolving header cell")
		}
		if err = f.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, errors.Wrap(err, "writing header cell")
		}
		if err = f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, errors.Wrap(err, "styling header cell")
		}
	}

	for r, row := range rows {
		for c, col := range cols {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, errors.Wrap(err, "resolving data cell")
			}
			if err = f.SetCellValue(sheet, cell, row[col.Key]); err != nil {
				return nil, errors.Wrap(err, "writing data cell")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serializing workbook")
	}
	return buf, nil
}

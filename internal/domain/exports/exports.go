// Package exports writes tabular data as BOM-prefixed CSV or XLSX.
package exports

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// utf8BOM makes spreadsheet apps detect UTF-8 so Arabic names render.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", value)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return ContentTypeXLSX
	}
	return ContentTypeCSV
}

func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Write dispatches to WriteCSV or WriteXLSX.
func Write(w io.Writer, format Format, sheet string, header []string, rows [][]string) error {
	if format == FormatXLSX {
		return WriteXLSX(w, sheet, header, rows)
	}
	return WriteCSV(w, header, rows)
}

func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]string) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := file.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}
	if err := writeRow(file, sheet, 1, header); err != nil {
		return err
	}
	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil && len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = file.SetCellStyle(sheet, "A1", last, style)
	}
	for i, row := range rows {
		if err := writeRow(file, sheet, i+2, row); err != nil {
			return err
		}
	}
	_, err = file.WriteTo(w)
	return err
}

func writeRow(file *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return file.SetSheetRow(sheet, cell, &row)
}

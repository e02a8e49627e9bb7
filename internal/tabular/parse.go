package tabular

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// FileExt returns the lowercased extension of an uploaded file name.
func FileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// ReadRows parses an uploaded spreadsheet into raw rows. The first worksheet
// is used for workbook formats. Supported: .xlsx, .xls, .csv.
func ReadRows(file io.Reader, filename string) ([][]string, error) {
	switch FileExt(filename) {
	case ".csv":
		r := csv.NewReader(file)
		r.FieldsPerRecord = -1
		return r.ReadAll()
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		return f.GetRows(sheet)
	case ".xls":
		return readLegacyXLS(file)
	}
	return nil, errors.New("unsupported file type: " + filename)
}

// readLegacyXLS reads an old-format workbook. xlsReader only works with file
// paths, so the upload is spooled to a temp file first.
func readLegacyXLS(file io.Reader) ([][]string, error) {
	tmp, err := os.CreateTemp("", "upload-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, err
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, errors.New("failed to get xls sheet")
	}
	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var vals []string
		for _, col := range xlsRow.GetCols() {
			vals = append(vals, col.GetString())
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// OpenWorkbook opens an uploaded .xlsx for multi-sheet access (the EBU
// workbook). Callers own the returned file and must Close it.
func OpenWorkbook(file io.Reader, filename string) (*excelize.File, error) {
	ext := FileExt(filename)
	if ext != ".xlsx" && ext != ".xlsm" {
		return nil, errors.New("multi-sheet source must be .xlsx: " + filename)
	}
	return excelize.OpenReader(file)
}

package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
)

// decodeRows turns a CSV or workbook payload into rows of cells. name is a
// file name or URL path used as a format hint.
func decodeRows(name string, data []byte) ([][]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty payload")
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return decodeWorkbook(data)
	case bytes.HasPrefix(data, oleMagic) || ext == ".xls":
		return nil, errors.New("legacy .xls workbooks are not supported; save as .xlsx or CSV")
	case ext == ".xlsx" || ext == ".xlsm":
		return nil, fmt.Errorf("%s payload is not a zip archive", ext)
	default:
		return decodeCSV(data)
	}
}

// decodeWorkbook reads the first sheet of an .xlsx workbook.
func decodeWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("no sheets found in workbook")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func decodeCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent of , ; and tab in the header line.
// European spreadsheet exports commonly use semicolons.
func sniffDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}

	best, bestCount := ',', bytes.Count(header, []byte{','})
	for _, c := range []rune{';', '\t'} {
		if n := bytes.Count(header, []byte{byte(c)}); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

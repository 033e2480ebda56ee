package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/camden-git/communitybackend/apperr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sheet is one decoded worksheet in declared order.
type Sheet struct {
	Name string
	Rows [][]string
}

// Format identifies how an upload was decoded.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatWorkbook Format = "workbook"
)

// Decode turns spreadsheet bytes into sheets. ext is a filename or extension
// hint; unknown hints try the workbook reader first and then CSV.
func Decode(data []byte, ext string) ([]Sheet, Format, error) {
	switch extensionOf(ext) {
	case "csv", "txt":
		sheets, err := decodeCSV(data)
		return sheets, FormatCSV, err
	case "xlsx", "xlsm", "xltx", "xltm":
		sheets, err := decodeWorkbook(data)
		return sheets, FormatWorkbook, err
	}

	sheets, wbErr := decodeWorkbook(data)
	if wbErr == nil {
		return sheets, FormatWorkbook, nil
	}
	sheets, csvErr := decodeCSV(data)
	if csvErr == nil {
		return sheets, FormatCSV, nil
	}
	return nil, "", apperr.Wrap(errors.Join(wbErr, csvErr), apperr.KindDecode, "file is neither a readable workbook nor a CSV")
}

func extensionOf(hint string) string {
	ext := filepath.Ext(hint)
	if ext == "" {
		ext = hint
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func decodeWorkbook(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindDecode, "failed to open workbook")
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, apperr.New(apperr.KindDecode, "workbook has no sheets")
	}

	dates := newDateCells(f)
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperr.Wrap(err, apperr.KindDecode, fmt.Sprintf("failed to read sheet %q", name))
		}
		for r, row := range rows {
			for c, v := range row {
				if iso, ok := dates.convert(name, c+1, r+1, v); ok {
					row[c] = iso
				}
			}
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// builtInDateFormats are the number format ids Excel renders as dates.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

var formatLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

// isDateFormat reports whether a custom number format shows a calendar date.
// Time-only formats are not dates.
func isDateFormat(format string) bool {
	f := strings.ToLower(formatLiterals.ReplaceAllString(format, ""))
	if f == "" || strings.Contains(f, "general") {
		return false
	}
	return strings.ContainsAny(f, "yd")
}

// dateCells turns raw serial numbers of date-styled cells into YYYY-MM-DD,
// so the formatted text of the workbook's locale never reaches the importer.
type dateCells struct {
	f        *excelize.File
	date1904 bool
	styles   map[int]bool
}

func newDateCells(f *excelize.File) *dateCells {
	d := &dateCells{f: f, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

func (d *dateCells) isDateStyle(styleID int) bool {
	if isDate, ok := d.styles[styleID]; ok {
		return isDate
	}
	isDate := false
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormat(*style.CustomNumFmt)
		} else {
			isDate = builtInDateFormats[style.NumFmt]
		}
	}
	d.styles[styleID] = isDate
	return isDate
}

func (d *dateCells) convert(sheet string, col, row int, raw string) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial <= 0 {
		return "", false
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false
	}
	styleID, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 || !d.isDateStyle(styleID) {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// decodeCSV reads UTF-8 (optionally with BOM) and falls back to Windows-1252.
func decodeCSV(data []byte) ([]Sheet, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	text := string(data)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.KindDecode, "CSV is neither UTF-8 nor Windows-1252")
		}
		text = string(decoded)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(err, apperr.KindDecode, "failed to parse CSV")
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, apperr.New(apperr.KindDecode, "CSV file is empty")
	}
	return []Sheet{{Name: "Sheet1", Rows: rows}}, nil
}

package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"report-assistant-be/internal/constant"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	zipSignature  = []byte("PK\x03\x04")
	ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	ErrUnknownWorkbook = errors.New("unrecognized workbook format")
)

type Sheet struct {
	Name string
	Rows [][]string
}

// WorkbookReader lists every sheet of a workbook in file order.
type WorkbookReader func(data []byte) ([]Sheet, error)

// SpreadsheetExtractor picks the reader from the content signature rather
// than the extension, so a mislabeled .xls/.xlsx still opens.
type SpreadsheetExtractor struct {
	xlsx WorkbookReader
	xls  WorkbookReader
}

func NewSpreadsheetExtractor() *SpreadsheetExtractor {
	return &SpreadsheetExtractor{xlsx: readXLSX, xls: readXLS}
}

func NewSpreadsheetExtractorWith(xlsxReader, xlsReader WorkbookReader) *SpreadsheetExtractor {
	return &SpreadsheetExtractor{xlsx: xlsxReader, xls: xlsReader}
}

func (e *SpreadsheetExtractor) Extract(data []byte) (string, error) {
	var reader WorkbookReader
	switch {
	case bytes.HasPrefix(data, zipSignature):
		reader = e.xlsx
	case bytes.HasPrefix(data, ole2Signature):
		reader = e.xls
	default:
		return "", ErrUnknownWorkbook
	}
	if reader == nil {
		return constant.SpreadsheetMissingMessage, nil
	}

	sheets, err := reader(data)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	return RenderSheets(sheets), nil
}

// RenderSheets writes one "=== Sheet: <name> ===" block per sheet.
func RenderSheets(sheets []Sheet) string {
	parts := make([]string, 0, len(sheets))
	for _, s := range sheets {
		header := fmt.Sprintf("=== Sheet: %s ===", s.Name)
		if body := RenderTable(s.Rows); body != "" {
			header += "\n" + body
		}
		parts = append(parts, header)
	}
	return strings.Join(parts, "\n\n")
}

func readXLSX(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			// unreadable sheet still gets its (empty) section
			rows = nil
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

func readXLS(data []byte) ([]Sheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	sheets := make([]Sheet, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		sheets = append(sheets, Sheet{Name: ws.Name, Rows: xlsRows(ws)})
	}
	return sheets, nil
}

func xlsRows(ws *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for r := 0; r <= int(ws.MaxRow); r++ {
		rows = append(rows, xlsRow(ws, r))
	}
	return rows
}

// xlsRow reads one row. The xls reader panics on rows absent from the file
// (and on cells it cannot decode); those come back empty and the rest of the
// sheet is kept.
func xlsRow(ws *xls.WorkSheet, r int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()
	row := ws.Row(r)
	cells = make([]string, 0, row.LastCol())
	for c := 0; c < row.LastCol(); c++ {
		cells = append(cells, row.Col(c))
	}
	return cells
}

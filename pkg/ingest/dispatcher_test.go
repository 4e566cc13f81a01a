package ingest

import (
	"errors"
	"testing"

	"report-assistant-be/internal/constant"
	"report-assistant-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestLoadReportTextDispatch(t *testing.T) {
	d := NewDispatcher(logger.NewNopLogger())

	tests := []struct {
		name     string
		filename string
		content  []byte
		want     string
	}{
		{name: "txt", filename: "notes.txt", content: []byte("line one\nline two"), want: "line one\nline two"},
		{name: "upper case extension", filename: "NOTES.TXT", content: []byte("shout"), want: "shout"},
		{name: "unknown extension decodes", filename: "log.md", content: []byte("# heading"), want: "# heading"},
		{name: "no extension decodes", filename: "README", content: []byte("plain"), want: "plain"},
		{name: "invalid bytes dropped", filename: "bad.txt", content: []byte("ab\xffcd"), want: "abcd"},
		{name: "csv", filename: "data.csv", content: []byte("a,b\n1,22\n"), want: "a   b\n1  22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.LoadReportText(tt.filename, tt.content))
		})
	}
}

func TestLoadReportTextIsTotal(t *testing.T) {
	d := NewDispatcher(logger.NewNopLogger())

	inputs := [][]byte{nil, {}, []byte("\x00\x01\x02garbage\xff\xfe"), []byte("PK\x03\x04not really a zip")}
	for _, name := range []string{"a.pdf", "a.csv", "a.xlsx", "a.xls", "a.txt", "a.bin"} {
		for _, in := range inputs {
			assert.NotPanics(t, func() {
				_ = d.LoadReportText(name, in)
			}, name)
		}
	}
}

func TestLoadReportTextPlaceholders(t *testing.T) {
	failing := ExtractorFunc(func([]byte) (string, error) { return "", errors.New("corrupt header") })
	panicking := ExtractorFunc(func([]byte) (string, error) { panic("index out of range") })

	d := NewDispatcherWithRules(logger.NewNopLogger(),
		Rule{Extensions: []string{".pdf"}, Format: "PDF", Extractor: failing},
		Rule{Extensions: []string{".xlsx"}, Format: "spreadsheet", Extractor: panicking},
	)

	assert.Equal(t, "The PDF file could not be read: corrupt header", d.LoadReportText("r.pdf", []byte("x")))
	assert.Contains(t, d.LoadReportText("r.xlsx", []byte("x")), "The spreadsheet file could not be read: extractor panic")
}

func TestLoadReportTextFallbackFailure(t *testing.T) {
	d := NewDispatcherWithRules(logger.NewNopLogger())
	d.fallback = ExtractorFunc(func([]byte) (string, error) { return "", errors.New("undecodable") })

	assert.Equal(t, constant.UnsupportedFileTypeMessage, d.LoadReportText("blob.bin", []byte{0x1}))
}

func TestLoadReportTextMissingPDFBackend(t *testing.T) {
	d := NewDispatcherWithRules(logger.NewNopLogger(),
		Rule{Extensions: []string{".pdf"}, Format: "PDF", Extractor: NewPDFExtractorWith(nil)},
	)
	assert.Equal(t, constant.PDFSupportMissingMessage, d.LoadReportText("r.pdf", []byte("%PDF-1.4")))
}

func TestFirstRuleWins(t *testing.T) {
	d := NewDispatcherWithRules(logger.NewNopLogger(),
		Rule{Extensions: []string{".txt"}, Format: "first", Extractor: ExtractorFunc(func([]byte) (string, error) { return "first", nil })},
		Rule{Extensions: []string{".txt"}, Format: "second", Extractor: ExtractorFunc(func([]byte) (string, error) { return "second", nil })},
	)
	assert.Equal(t, "first", d.LoadReportText("a.txt", nil))
}

package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"report-assistant-be/internal/constant"

	"github.com/ledongthuc/pdf"
)

// PageSource exposes a document page by page. Pages are 1-based.
type PageSource interface {
	NumPage() int
	PageText(page int) (string, error)
}

type PDFOpener func(data []byte) (PageSource, error)

type PDFExtractor struct {
	open PDFOpener
}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{open: openPDF}
}

// NewPDFExtractorWith uses a custom backend. A nil opener means no backend.
func NewPDFExtractorWith(open PDFOpener) *PDFExtractor {
	return &PDFExtractor{open: open}
}

func (e *PDFExtractor) Extract(data []byte) (string, error) {
	if e == nil || e.open == nil {
		return constant.PDFSupportMissingMessage, nil
	}
	src, err := e.open(data)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	return JoinPages(src), nil
}

// JoinPages concatenates page text with blank lines. A page that errors or
// panics is skipped; it never aborts the document.
func JoinPages(src PageSource) string {
	n := src.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		text, err := pageText(src, i)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n\n")
}

func pageText(src PageSource, page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", page, r)
		}
	}()
	return src.PageText(page)
}

type pdfSource struct {
	reader *pdf.Reader
}

func openPDF(data []byte) (PageSource, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return pdfSource{reader: reader}, nil
}

func (s pdfSource) NumPage() int {
	return s.reader.NumPage()
}

func (s pdfSource) PageText(page int) (string, error) {
	p := s.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

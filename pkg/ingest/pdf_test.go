package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"report-assistant-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePages struct {
	texts  []string
	errs   map[int]error
	panics map[int]bool
}

func (f fakePages) NumPage() int { return len(f.texts) }

func (f fakePages) PageText(page int) (string, error) {
	if f.panics[page] {
		panic("broken content stream")
	}
	if err := f.errs[page]; err != nil {
		return "", err
	}
	return f.texts[page-1], nil
}

func TestJoinPagesSkipsFailedPage(t *testing.T) {
	src := fakePages{
		texts: []string{"page one", "page two", "page three"},
		errs:  map[int]error{2: errors.New("unsupported font")},
	}
	assert.Equal(t, "page one\n\npage three", JoinPages(src))
}

func TestJoinPagesRecoversPanickingPage(t *testing.T) {
	src := fakePages{
		texts:  []string{"page one", "page two", "page three"},
		panics: map[int]bool{2: true},
	}
	assert.Equal(t, "page one\n\npage three", JoinPages(src))
}

func TestJoinPagesKeepsEmptyPages(t *testing.T) {
	src := fakePages{texts: []string{"a", "", "c"}}
	assert.Equal(t, "a\n\n\n\nc", JoinPages(src))
	assert.Equal(t, "", JoinPages(fakePages{}))
}

func TestPDFExtractor(t *testing.T) {
	e := NewPDFExtractorWith(func([]byte) (PageSource, error) {
		return fakePages{texts: []string{"first", "second"}}, nil
	})
	out, err := e.Extract([]byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond", out)

	broken := NewPDFExtractorWith(func([]byte) (PageSource, error) {
		return nil, errors.New("xref table not found")
	})
	_, err = broken.Extract([]byte("junk"))
	assert.EqualError(t, err, "open pdf: xref table not found")
}

func TestPDFExtractorRejectsGarbage(t *testing.T) {
	out, err := safeExtract(NewPDFExtractor(), []byte("definitely not a pdf"))
	assert.Error(t, err)
	assert.Empty(t, out)
}

// buildPDF writes a minimal uncompressed PDF with one Helvetica text line per
// page. count is stored as /Count verbatim so callers can declare pages that
// have no page object.
func buildPDF(count int, pageTexts ...string) []byte {
	kids := make([]string, len(pageTexts))
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, text := range pageTexts {
		pageObj := 4 + 2*i
		kids[i] = fmt.Sprintf("%d 0 R", pageObj)
		content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageObj+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), count)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestPDFExtractorReadsRealDocument(t *testing.T) {
	out, err := NewPDFExtractor().Extract(buildPDF(2, "Quarterly revenue", "Costs fell"))
	require.NoError(t, err)
	assert.Equal(t, "Quarterly revenue\n\nCosts fell", out)

	d := NewDispatcher(logger.NewNopLogger())
	assert.Equal(t, "Quarterly revenue\n\nCosts fell", d.LoadReportText("q3.PDF", buildPDF(2, "Quarterly revenue", "Costs fell")))
}

func TestPDFExtractorMissingPageObject(t *testing.T) {
	src, err := openPDF(buildPDF(3, "p1", "p2"))
	require.NoError(t, err)
	require.Equal(t, 3, src.NumPage())

	text, err := src.PageText(3)
	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.Equal(t, "p1\n\np2\n\n", JoinPages(src))
}

package ingest

import (
	"bytes"
	"encoding/binary"
	"sort"
	"testing"
	"unicode/utf16"

	"report-assistant-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	oleSector     = 512
	oleFreeSect   = uint32(0xFFFFFFFF)
	oleEndOfChain = uint32(0xFFFFFFFE)
	oleFATSect    = uint32(0xFFFFFFFD)
	// Streams below the 4096 byte cutoff live in the mini stream; keeping the
	// workbook above it lets the fixture use the regular FAT only.
	workbookSectors = 9
)

// xlsSheet holds cells keyed by row index. A cell is a string or a float64.
type xlsSheet struct {
	name string
	rows map[uint16][]interface{}
}

func le(values ...interface{}) []byte {
	var b bytes.Buffer
	for _, v := range values {
		if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	return b.Bytes()
}

func biffRecord(w *bytes.Buffer, id uint16, body []byte) {
	w.Write(le(id, uint16(len(body))))
	w.Write(body)
}

func biffBOF(w *bytes.Buffer, substream uint16) {
	biffRecord(w, 0x0809, le(uint16(0x0600), substream, uint16(0x0DBB), uint16(1997), uint32(0), uint32(0x0600)))
}

// buildXLS writes a BIFF8 workbook inside a single-FAT OLE2 container.
func buildXLS(t *testing.T, sheets ...xlsSheet) []byte {
	t.Helper()

	var sst []string
	sstIndex := map[string]uint32{}
	for _, sh := range sheets {
		for _, cells := range sh.rows {
			for _, cell := range cells {
				if s, ok := cell.(string); ok {
					if _, seen := sstIndex[s]; !seen {
						sstIndex[s] = uint32(len(sst))
						sst = append(sst, s)
					}
				}
			}
		}
	}

	var globals bytes.Buffer
	biffBOF(&globals, 0x0005)
	boundsheetAt := make([]int, len(sheets))
	for i, sh := range sheets {
		// the sheet position is patched once the globals length is known
		boundsheetAt[i] = globals.Len() + 4
		body := le(uint32(0), byte(0), byte(0), byte(len(sh.name)), byte(0))
		biffRecord(&globals, 0x0085, append(body, sh.name...))
	}
	sstBody := le(uint32(len(sst)), uint32(len(sst)))
	for _, s := range sst {
		sstBody = append(sstBody, le(uint16(len(s)), byte(0))...)
		sstBody = append(sstBody, s...)
	}
	biffRecord(&globals, 0x00FC, sstBody)
	biffRecord(&globals, 0x000A, nil)

	stream := globals.Bytes()
	for i, sh := range sheets {
		binary.LittleEndian.PutUint32(stream[boundsheetAt[i]:], uint32(len(stream)))

		var ws bytes.Buffer
		biffBOF(&ws, 0x0010)
		indexes := make([]int, 0, len(sh.rows))
		for r := range sh.rows {
			indexes = append(indexes, int(r))
		}
		sort.Ints(indexes)
		for _, r := range indexes {
			row := uint16(r)
			cells := sh.rows[row]
			biffRecord(&ws, 0x0208, le(row, uint16(0), uint16(len(cells)), uint16(0x00FF), uint16(0), uint16(0), uint32(0x0100)))
			for c, cell := range cells {
				switch v := cell.(type) {
				case string:
					biffRecord(&ws, 0x00FD, le(row, uint16(c), uint16(0), sstIndex[v]))
				case float64:
					biffRecord(&ws, 0x0203, le(row, uint16(c), uint16(0), v))
				default:
					t.Fatalf("unsupported cell %T", cell)
				}
			}
		}
		biffRecord(&ws, 0x000A, nil)
		stream = append(stream, ws.Bytes()...)
	}
	require.Less(t, len(stream), workbookSectors*oleSector)
	stream = append(stream, make([]byte, workbookSectors*oleSector-len(stream))...)

	// sector 0: FAT, sector 1: directory, sectors 2..: Workbook stream
	var file bytes.Buffer
	msat := make([]uint32, 109)
	for i := range msat {
		msat[i] = oleFreeSect
	}
	msat[0] = 0
	file.Write(le(
		uint32(0xE011CFD0), uint32(0xE11AB1A1), [16]byte{},
		uint16(0x003E), uint16(3), uint16(0xFFFE), uint16(9), uint16(6), [10]byte{},
		uint32(1), uint32(1), uint32(0), uint32(4096),
		oleEndOfChain, uint32(0), oleEndOfChain, uint32(0),
		msat,
	))

	fat := make([]uint32, oleSector/4)
	for i := range fat {
		fat[i] = oleFreeSect
	}
	fat[0] = oleFATSect
	fat[1] = oleEndOfChain
	for s := 2; s < 2+workbookSectors-1; s++ {
		fat[s] = uint32(s + 1)
	}
	fat[2+workbookSectors-1] = oleEndOfChain
	file.Write(le(fat))

	file.Write(dirEntry("Root Entry", 5, 1, oleEndOfChain, 0))
	file.Write(dirEntry("Workbook", 2, oleFreeSect, 2, uint32(len(stream))))
	file.Write(make([]byte, 2*128))

	file.Write(stream)
	return file.Bytes()
}

func dirEntry(name string, kind byte, child, start, size uint32) []byte {
	var utf [32]uint16
	copy(utf[:], utf16.Encode([]rune(name)))
	return le(
		utf, uint16((len(name)+1)*2), kind, byte(1),
		oleFreeSect, oleFreeSect, child,
		[16]byte{}, uint32(0), [16]byte{},
		start, size, uint32(0),
	)
}

func TestSpreadsheetExtractorXLS(t *testing.T) {
	data := buildXLS(t,
		xlsSheet{name: "Ops", rows: map[uint16][]interface{}{
			0: {"line", "minutes"},
			1: {"L1", 45.0},
			// row 2 is absent from the file
			3: {"L3", 12.5},
		}},
		xlsSheet{name: "Notes", rows: map[uint16][]interface{}{
			0: {"Belt replaced"},
		}},
	)

	d := NewDispatcher(logger.NewNopLogger())
	want := "=== Sheet: Ops ===\n" +
		"line  minutes\n" +
		"  L1       45\n" +
		"\n" +
		"  L3     12.5\n" +
		"\n" +
		"=== Sheet: Notes ===\n" +
		"Belt replaced"
	assert.Equal(t, want, d.LoadReportText("legacy.xls", data))
}

func TestReadXLSSparseAndEmptySheets(t *testing.T) {
	sheets, err := readXLS(buildXLS(t,
		xlsSheet{name: "Gaps", rows: map[uint16][]interface{}{
			2: {"late"},
		}},
		xlsSheet{name: "Blank", rows: map[uint16][]interface{}{}},
	))
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	assert.Equal(t, "Gaps", sheets[0].Name)
	assert.Equal(t, [][]string{nil, nil, {"late"}}, sheets[0].Rows)
	assert.Equal(t, "Blank", sheets[1].Name)
	assert.Equal(t, "=== Sheet: Gaps ===\n\n\nlate\n\n=== Sheet: Blank ===", RenderSheets(sheets))
}

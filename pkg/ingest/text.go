package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText honours UTF-8/UTF-16 byte order marks and drops invalid UTF-8.
func DecodeText(data []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return strings.ToValidUTF8(string(out), ""), nil
}

type TextExtractor struct{}

func (TextExtractor) Extract(data []byte) (string, error) {
	return DecodeText(data)
}

package ingest

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVExtractor renders a delimited table; the first record is the header.
type CSVExtractor struct{}

func (CSVExtractor) Extract(data []byte) (string, error) {
	text, err := DecodeText(data)
	if err != nil {
		return "", err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	return RenderTable(records), nil
}

// Package ingest turns uploaded report bytes into plain text.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"report-assistant-be/internal/constant"
	"report-assistant-be/internal/pkg/logger"
)

const logModule = "ingest"

// Extractor converts raw file content into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// ExtractorFunc adapts a plain function to Extractor.
type ExtractorFunc func(data []byte) (string, error)

func (f ExtractorFunc) Extract(data []byte) (string, error) {
	return f(data)
}

// Rule maps lower-case file extensions (with the dot) to an extractor.
type Rule struct {
	Extensions []string
	Format     string
	Extractor  Extractor
}

// Dispatcher routes an upload to the first rule whose extension matches.
// Unmatched names fall back to a permissive text decode.
type Dispatcher struct {
	rules    []Rule
	fallback Extractor
	logger   logger.ILogger
}

// DefaultRules is the extension table used by NewDispatcher.
func DefaultRules() []Rule {
	return []Rule{
		{Extensions: []string{".pdf"}, Format: "PDF", Extractor: NewPDFExtractor()},
		{Extensions: []string{".csv"}, Format: "CSV", Extractor: CSVExtractor{}},
		{Extensions: []string{".xlsx", ".xls"}, Format: "spreadsheet", Extractor: NewSpreadsheetExtractor()},
		{Extensions: []string{".txt"}, Format: "text", Extractor: TextExtractor{}},
	}
}

func NewDispatcher(log logger.ILogger) *Dispatcher {
	return NewDispatcherWithRules(log, DefaultRules()...)
}

func NewDispatcherWithRules(log logger.ILogger, rules ...Rule) *Dispatcher {
	return &Dispatcher{
		rules:    rules,
		fallback: TextExtractor{},
		logger:   log,
	}
}

// LoadReportText never fails: extractor errors and panics come back as a
// readable placeholder so the summary can still say what went wrong.
func (d *Dispatcher) LoadReportText(name string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(name))

	rule, ok := d.match(ext)
	if !ok {
		text, err := safeExtract(d.fallback, content)
		if err != nil {
			d.logger.Warn(logModule, "Fallback decode failed", map[string]interface{}{
				"filename": name,
				"error":    err.Error(),
			})
			return constant.UnsupportedFileTypeMessage
		}
		return text
	}

	text, err := safeExtract(rule.Extractor, content)
	if err != nil {
		d.logger.Warn(logModule, "Extraction failed", map[string]interface{}{
			"filename": name,
			"format":   rule.Format,
			"error":    err.Error(),
		})
		return fmt.Sprintf("The %s file could not be read: %v", rule.Format, err)
	}

	d.logger.Debug(logModule, "Extracted report text", map[string]interface{}{
		"filename": name,
		"format":   rule.Format,
		"chars":    len([]rune(text)),
	})
	return text
}

func (d *Dispatcher) match(ext string) (Rule, bool) {
	if ext == "" {
		return Rule{}, false
	}
	for _, r := range d.rules {
		for _, e := range r.Extensions {
			if e == ext {
				return r, true
			}
		}
	}
	return Rule{}, false
}

func safeExtract(e Extractor, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return e.Extract(data)
}

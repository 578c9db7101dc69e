// Package parser reads uploaded campaign spreadsheets (XLSX and CSV)
// into a uniform header-plus-rows shape for the import pipeline.
package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrEmptyFile is returned when a file parses cleanly but yields no
// header row.
var ErrEmptyFile = errors.New("parser: file contains no data")

// ErrUnsupportedFormat is returned for file extensions the pipeline
// does not handle.
var ErrUnsupportedFormat = errors.New("parser: unsupported file format")

// Sheet is the raw tabular content of one uploaded file. Headers come
// from the first non-blank row; Rows hold everything after it, with
// fully blank rows dropped. Cells are untyped strings; coercion happens
// downstream.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Parse dispatches on the file extension. XLSX files read the first
// sheet only; workbooks with extra tabs are common and the extra tabs
// are never campaign data.
func Parse(filename string, r io.Reader) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	case ".csv", ".txt":
		return ParseCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// buildSheet trims trailing cell whitespace, drops fully blank rows and
// splits the first surviving row off as the header.
func buildSheet(name string, raw [][]string) (*Sheet, error) {
	cleaned := make([][]string, 0, len(raw))
	for _, row := range raw {
		if rowBlank(row) {
			continue
		}
		cleaned = append(cleaned, row)
	}
	if len(cleaned) == 0 {
		return nil, ErrEmptyFile
	}
	return &Sheet{
		Name:    name,
		Headers: cleaned[0],
		Rows:    cleaned[1:],
	}, nil
}

func rowBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Package ingest turns uploaded statement files into the neutral shapes
// the extractors consume: a cell grid for tabular sources, plain text for
// documents. Format detection is by file extension with an HTML sniff for
// the fake-".xls" exports Korean ERP systems produce.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Payload is the result of ingesting one file: exactly one of Grid or
// Text is populated.
type Payload struct {
	Grid [][]string
	Text string
}

// FromFile ingests a statement file from disk.
func FromFile(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return FromReader(f, filepath.Base(path))
}

// FromReader ingests a statement from a stream, using the filename to
// pick the adapter.
func FromReader(r io.Reader, filename string) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		grid, err := ReadWorkbook(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Payload{Grid: grid}, nil
	case ".xls":
		// Korean ERP systems export ".xls" files that are really HTML
		// tables. A real legacy-BIFF .xls is not supported.
		if looksLikeHTML(data) {
			grid, err := ReadHTMLTable(bytes.NewReader(data))
			if err != nil {
				return nil, err
			}
			return &Payload{Grid: grid}, nil
		}
		return nil, fmt.Errorf("legacy binary .xls is not supported; re-save %s as .xlsx", filename)
	case ".html", ".htm":
		grid, err := ReadHTMLTable(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Payload{Grid: grid}, nil
	case ".pdf":
		text, err := ReadPDFText(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		return &Payload{Text: text}, nil
	case ".csv":
		grid, err := ReadCSV(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Payload{Grid: grid}, nil
	case ".txt":
		return &Payload{Text: string(data)}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
}

func looksLikeHTML(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	lower := strings.ToLower(string(head))
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<table") ||
		strings.Contains(lower, "<!doctype html")
}

package ingest

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// yLineTolerance is the vertical distance (PDF points) within which two
// text fragments belong to the same visual line.
const yLineTolerance = 2.0

// xSpaceTolerance is the horizontal gap (PDF points) beyond which two
// adjacent fragments on a line are separate words. The library emits one
// fragment per glyph, so characters of the same word sit closer than
// this; column gaps between an account name and its amount are far wider.
const xSpaceTolerance = 1.0

// ReadPDFText extracts the text layer of a PDF as statement lines. PDF
// text comes as positioned fragments, not lines; fragments are grouped by
// Y proximity into lines and ordered by X within each line, so a statement
// row like "현금및현금성자산   1,000,000" survives as one line.
func ReadPDFText(ra io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(ra, size)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		for _, line := range pageLines(page.Content().Text) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("pdf has no extractable text layer")
	}
	return text, nil
}

// pageLines groups positioned fragments into visual lines, top to bottom.
func pageLines(fragments []pdf.Text) []string {
	if len(fragments) == 0 {
		return nil
	}

	// Sort top-down (PDF Y grows upward), then left-right.
	sorted := make([]pdf.Text, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > yLineTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []string
	var current strings.Builder
	currentY := sorted[0].Y

	flush := func() {
		line := strings.TrimSpace(current.String())
		if line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	// Fragments arrive one glyph at a time, so they are concatenated
	// as-is; a space is inserted only across a real horizontal gap.
	var prev *pdf.Text
	for i := range sorted {
		frag := &sorted[i]
		if math.Abs(frag.Y-currentY) > yLineTolerance {
			flush()
			currentY = frag.Y
			prev = nil
		}
		if prev != nil && frag.X-(prev.X+prev.W) > xSpaceTolerance {
			current.WriteByte(' ')
		}
		current.WriteString(frag.S)
		prev = frag
	}
	flush()

	return lines
}

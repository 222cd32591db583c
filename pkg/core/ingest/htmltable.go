package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ReadHTMLTable extracts the largest <table> in an HTML document as a cell
// grid. ERP exports wrap one statement table in boilerplate markup; picking
// the table with the most rows skips navigation and header chrome.
func ReadHTMLTable(r io.Reader) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var best [][]string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var grid [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, strings.TrimSpace(cell.Text()))
			})
			if len(row) > 0 {
				grid = append(grid, row)
			}
		})
		if len(grid) > len(best) {
			best = grid
		}
	})

	if len(best) == 0 {
		return nil, fmt.Errorf("no table found in html document")
	}
	return best, nil
}

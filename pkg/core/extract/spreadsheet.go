package extract

import (
	"fmt"
	"strings"

	"gaap_bridge/pkg/core/accounting"
)

// headerScanRows bounds the search for the header row.
const headerScanRows = 10

// headerKeywords identify a header row: a row is the header when at least
// two of these appear somewhere in it.
var headerKeywords = []string{"계정", "account", "과목", "코드", "code"}

// Column synonym lists, matched by substring against header cells.
var (
	codeSynonyms   = []string{"계정코드", "코드", "code", "account code"}
	nameSynonyms   = []string{"계정과목", "계정명", "account", "account name", "과목"}
	amountSynonyms = []string{"금액", "amount", "잔액", "balance"}
	debitSynonyms  = []string{"차변", "debit", "dr"}
	creditSynonyms = []string{"대변", "credit", "cr"}
)

// SpreadsheetExtractor parses a 2-D cell grid (rows x columns of string
// cells, as produced by the ingest adapters) into RawAccounts.
type SpreadsheetExtractor struct{}

// NewSpreadsheetExtractor creates a new extractor.
func NewSpreadsheetExtractor() *SpreadsheetExtractor {
	return &SpreadsheetExtractor{}
}

// Extract scans the grid for a header row, resolves the account columns,
// and emits one RawAccount per surviving data row in source order.
// Subtotal/total rows and blank-name rows are skipped. Returns an
// InputFormatError when no header or no name column can be found.
func (e *SpreadsheetExtractor) Extract(grid [][]string) (*Result, error) {
	headerIdx := findHeaderRow(grid)
	if headerIdx == -1 {
		return nil, &InputFormatError{
			Err:    ErrHeaderNotFound,
			Detail: fmt.Sprintf("no row with 2+ header keywords in the first %d rows", headerScanRows),
		}
	}

	headers := make([]string, len(grid[headerIdx]))
	for i, cell := range grid[headerIdx] {
		headers[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	codeIdx := findColumnIndex(headers, codeSynonyms)
	nameIdx := findColumnIndex(headers, nameSynonyms)
	amountIdx := findColumnIndex(headers, amountSynonyms)
	debitIdx := findColumnIndex(headers, debitSynonyms)
	creditIdx := findColumnIndex(headers, creditSynonyms)

	if nameIdx == -1 {
		return nil, &InputFormatError{
			Err:    ErrNameColumnNotFound,
			Detail: fmt.Sprintf("header row %d has no account-name column", headerIdx+1),
		}
	}

	result := &Result{}
	for rowNum := headerIdx + 1; rowNum < len(grid); rowNum++ {
		row := grid[rowNum]
		if len(row) == 0 {
			continue
		}

		name := strings.TrimSpace(cellAt(row, nameIdx))
		if name == "" || IsSubtotalName(name) {
			continue
		}

		acc := accounting.RawAccount{Name: name}
		if codeIdx != -1 {
			acc.Code = strings.TrimSpace(cellAt(row, codeIdx))
		}

		switch {
		case amountIdx != -1:
			raw := cellAt(row, amountIdx)
			acc.Amount = ParseAmount(raw)
			if acc.Amount == 0 && !ZeroLiteral(raw) {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("row %d (%s): amount %q is not numeric, coerced to 0", rowNum+1, name, strings.TrimSpace(raw)))
			}
		case debitIdx != -1 && creditIdx != -1:
			acc.Debit = ParseAmount(cellAt(row, debitIdx))
			acc.Credit = ParseAmount(cellAt(row, creditIdx))
			acc.Amount = acc.Debit - acc.Credit
		}

		result.Accounts = append(result.Accounts, acc)
	}

	result.Warnings = append(result.Warnings, Validate(result.Accounts)...)
	return result, nil
}

// findHeaderRow returns the index of the first row within the scan window
// containing at least two header keywords, or -1.
func findHeaderRow(grid [][]string) int {
	limit := headerScanRows
	if len(grid) < limit {
		limit = len(grid)
	}
	for i := 0; i < limit; i++ {
		joined := strings.ToLower(strings.Join(grid[i], " "))
		matches := 0
		for _, kw := range headerKeywords {
			if strings.Contains(joined, kw) {
				matches++
			}
		}
		if matches >= 2 {
			return i
		}
	}
	return -1
}

// findColumnIndex resolves a field's column by substring match in either
// direction against the synonym list. Returns -1 when unresolved.
func findColumnIndex(headers []string, synonyms []string) int {
	for i, header := range headers {
		if header == "" {
			continue
		}
		for _, syn := range synonyms {
			if strings.Contains(header, syn) || strings.Contains(syn, header) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

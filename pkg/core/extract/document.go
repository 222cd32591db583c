package extract

import (
	"regexp"
	"strings"

	"gaap_bridge/pkg/core/accounting"
)

// DocumentExtractor parses linearized statement text (one statement line
// per text line, as reconstructed from a PDF text layer) into RawAccounts.
// This is heuristic parsing: zero matches is a valid outcome surfaced as a
// warning, never an error.
type DocumentExtractor struct{}

// NewDocumentExtractor creates a new extractor.
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Line shapes tried in order; the first match wins. Only the first amount
// column (current period) is kept, the comparative column is ignored.
var linePatterns = []*regexp.Regexp{
	// "1. 유동자산 1,234,000 1,100,000" — item-number prefix
	regexp.MustCompile(`^([IVX\d]+)\.\s*([가-힣a-zA-Z][가-힣a-zA-Z\s()]*?)\s+\(?([\d,]+)\)?(?:\s+\(?[\d,]+\)?)?$`),
	// "101 현금및현금성자산 1,000,000" — ledger code prefix
	regexp.MustCompile(`^(\d{2,6})\s+([가-힣a-zA-Z][가-힣a-zA-Z\s()]*?)\s+\(?([\d,]+)\)?(?:\s+\(?[\d,]+\)?)?$`),
	// "현금및현금성자산 1,000,000" — bare name and amount
	regexp.MustCompile(`^([가-힣a-zA-Z][가-힣a-zA-Z\s()]*?)\s+\(?([\d,]+)\)?(?:\s+\(?[\d,]+\)?)?$`),
}

// Header/title line classifiers.
var (
	titleKeywords = []string{
		"재무상태표", "대차대조표", "손익계산서", "포괄손익계산서", "현금흐름표", "자본변동표",
		"balance sheet", "income statement", "statement of cash flow", "cash flow statement",
		"금액", "당기", "전기", "amount", "period",
	}
	// "2024년 12월 31일", "2024.12.31", "제 25 기"
	dateLike      = regexp.MustCompile(`\d{4}\s*[년.\-/]\s*\d{1,2}\s*[월.\-/]?|제\s*\d+\s*기`)
	companyPrefix = regexp.MustCompile(`^\s*(\(주\)|주식회사|㈜)`)
	// "(주석 3)", "(note 3)"
	footnoteMarker = regexp.MustCompile(`\((?:주석|note)\s*\d+\)`)
	// "1. ", "IV. "
	numberingPrefix = regexp.MustCompile(`^[IVX\d]+\.\s*`)
)

// Extract scans each line of the linearized text against the ordered
// pattern list and emits one RawAccount per account-shaped line, in
// document order. Header, title, date, and subtotal lines are discarded.
func (e *DocumentExtractor) Extract(text string) (*Result, error) {
	result := &Result{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if isHeaderLine(line) {
			continue
		}

		acc, ok := parseAccountLine(line)
		if !ok {
			continue
		}
		result.Accounts = append(result.Accounts, acc)
	}

	result.Warnings = append(result.Warnings, Validate(result.Accounts)...)
	return result, nil
}

// parseAccountLine tries each line pattern in order and returns the parsed
// account from the first match.
func parseAccountLine(line string) (accounting.RawAccount, bool) {
	// Footnote markers sit between the name and the amount and would
	// otherwise split the name match.
	line = footnoteMarker.ReplaceAllString(line, "")
	line = strings.Join(strings.Fields(line), " ")

	for i, pattern := range linePatterns {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		var code, name, amountStr string
		if i < 2 {
			code, name, amountStr = m[1], m[2], m[3]
		} else {
			name, amountStr = m[1], m[2]
		}
		// Pattern 0 matched a roman/item numbering, not a ledger code.
		if i == 0 {
			code = ""
		}

		name = cleanAccountName(name)
		if name == "" || IsSubtotalName(name) {
			return accounting.RawAccount{}, false
		}

		amount := ParseAmount(amountStr)
		// A parenthesized current-period column reads as negative in the
		// source statement even though the regex strips the parens.
		if strings.Contains(line, "("+amountStr+")") {
			amount = -abs(amount)
		}

		return accounting.RawAccount{Code: code, Name: name, Amount: amount}, true
	}
	return accounting.RawAccount{}, false
}

// isHeaderLine classifies statement titles, date lines, column headers and
// company-name lines, which carry no account data.
func isHeaderLine(line string) bool {
	if len([]rune(line)) < 3 {
		return true
	}
	lower := strings.ToLower(line)
	for _, kw := range titleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if dateLike.MatchString(line) {
		return true
	}
	return companyPrefix.MatchString(line)
}

// cleanAccountName strips numbering prefixes and footnote markers and
// collapses internal whitespace.
func cleanAccountName(name string) string {
	name = numberingPrefix.ReplaceAllString(name, "")
	name = footnoteMarker.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

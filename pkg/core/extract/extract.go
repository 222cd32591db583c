// Package extract turns raw statement inputs (spreadsheet cell grids,
// linearized PDF text) into ordered RawAccount sequences. Parsing is
// best-effort: fatal errors are limited to unusable spreadsheet layouts,
// everything else degrades to warnings attached to the output.
package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gaap_bridge/pkg/core/accounting"
)

// Fatal extraction errors (spec taxonomy: InputFormatError).
var (
	// ErrHeaderNotFound means no header row was found in the first rows of
	// the spreadsheet.
	ErrHeaderNotFound = errors.New("account header row not found")
	// ErrNameColumnNotFound means a header row exists but no account-name
	// column could be resolved from it.
	ErrNameColumnNotFound = errors.New("account name column not found")
)

// InputFormatError wraps a fatal extraction failure with context for the
// caller-facing message.
type InputFormatError struct {
	Err    error
	Detail string
}

func (e *InputFormatError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

// Result is the output of one extraction: the account sequence in source
// order plus any non-fatal warnings accumulated along the way.
type Result struct {
	Accounts []accounting.RawAccount
	Warnings []string
}

// subtotalKeywords flags aggregate rows that must never surface as
// extracted accounts.
var subtotalKeywords = []string{
	"소계", "합계", "총계", "계",
	"subtotal", "total", "sum",
	"자산총계", "부채총계", "자본총계",
}

// IsSubtotalName reports whether an account name is a subtotal/total label.
func IsSubtotalName(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range subtotalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ParseAmount parses a statement amount cell. Thousands separators and
// currency punctuation are stripped; a value wrapped in parentheses is
// negative. Non-numeric input parses to 0 rather than failing: a bad cell
// is a row-level warning, not an extraction error.
func ParseAmount(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0
	}

	negative := strings.Contains(s, "(") && strings.Contains(s, ")")

	cleaned := strings.NewReplacer(",", "", "(", "", ")", "", "₩", "", "$", "", " ", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -abs(n)
	}
	return n
}

// ZeroLiteral reports a cell that legitimately means zero: blank, the dash
// placeholder Korean statements print for empty amounts, or a parseable
// zero like "0" or "0.00". Any other cell that ParseAmount coerces to zero
// deserves a warning.
func ZeroLiteral(value string) bool {
	s := strings.TrimSpace(value)
	switch s {
	case "", "-", "−", "–":
		return true
	}
	cleaned := strings.NewReplacer(",", "", "(", "", ")", "", "₩", "", "$", "", " ", "").Replace(s)
	n, err := strconv.ParseFloat(cleaned, 64)
	return err == nil && n == 0
}

// Validate runs post-extraction sanity checks and returns display warnings:
// empty result, blank names, all-zero amounts.
func Validate(accounts []accounting.RawAccount) []string {
	var warnings []string

	if len(accounts) == 0 {
		warnings = append(warnings, "no account rows were extracted from the input")
		return warnings
	}

	blank := 0
	allZero := true
	for _, acc := range accounts {
		if strings.TrimSpace(acc.Name) == "" {
			blank++
		}
		if acc.Amount != 0 || acc.Debit != 0 || acc.Credit != 0 {
			allZero = false
		}
	}
	if blank > 0 {
		warnings = append(warnings, fmt.Sprintf("%d extracted rows have a blank account name", blank))
	}
	if allZero {
		warnings = append(warnings, "every extracted account has a zero amount; check the amount column")
	}
	return warnings
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

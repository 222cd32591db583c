package extract

import (
	"errors"
	"strings"
	"testing"
)

func sampleGrid() [][]string {
	return [][]string{
		{"회사명: 테스트전자"},
		{"계정코드", "계정과목", "금액"},
		{"101", "현금및현금성자산", "1,000,000"},
		{"110", "매출채권", "2,500,000"},
		{"", "자산총계", "3,500,000"},
		{"201", "매입채무", "(800,000)"},
	}
}

func TestSpreadsheetExtract(t *testing.T) {
	result, err := NewSpreadsheetExtractor().Extract(sampleGrid())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	// 자산총계 is a subtotal line and must be dropped
	if len(result.Accounts) != 3 {
		t.Fatalf("Expected 3 accounts, got %d", len(result.Accounts))
	}

	// Row order must be preserved
	wantNames := []string{"현금및현금성자산", "매출채권", "매입채무"}
	for i, want := range wantNames {
		if result.Accounts[i].Name != want {
			t.Errorf("Account %d: expected %s, got %s", i, want, result.Accounts[i].Name)
		}
	}

	if result.Accounts[0].Code != "101" {
		t.Errorf("Expected code 101, got %s", result.Accounts[0].Code)
	}
	if result.Accounts[0].Amount != 1000000 {
		t.Errorf("Expected amount 1000000, got %f", result.Accounts[0].Amount)
	}

	// Parenthesized amounts are negative
	if result.Accounts[2].Amount != -800000 {
		t.Errorf("Expected -800000 for parenthesized amount, got %f", result.Accounts[2].Amount)
	}
}

func TestSpreadsheetHeaderNotFound(t *testing.T) {
	grid := [][]string{
		{"이것은", "재무제표가", "아님"},
		{"그냥", "자유형식", "텍스트"},
	}

	_, err := NewSpreadsheetExtractor().Extract(grid)
	if err == nil {
		t.Fatal("Expected error for grid without header row")
	}

	var formatErr *InputFormatError
	if !errors.As(err, &formatErr) {
		t.Errorf("Expected InputFormatError, got %T", err)
	}
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("Expected ErrHeaderNotFound in chain, got %v", err)
	}
}

func TestSpreadsheetDebitCreditFallback(t *testing.T) {
	grid := [][]string{
		{"계정과목", "차변", "대변"},
		{"현금", "5,000,000", "1,000,000"},
	}

	result, err := NewSpreadsheetExtractor().Extract(grid)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(result.Accounts) != 1 {
		t.Fatalf("Expected 1 account, got %d", len(result.Accounts))
	}
	// No amount column: amount = debit - credit
	if result.Accounts[0].Amount != 4000000 {
		t.Errorf("Expected 4000000 from debit-credit, got %f", result.Accounts[0].Amount)
	}
}

func TestSpreadsheetNonNumericAmountWarning(t *testing.T) {
	grid := [][]string{
		{"계정과목", "금액"},
		{"현금", "N/A"},
		{"매출채권", "1,000"},
	}

	result, err := NewSpreadsheetExtractor().Extract(grid)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.Accounts[0].Amount != 0 {
		t.Errorf("Expected 0 for non-numeric amount, got %f", result.Accounts[0].Amount)
	}
	if len(result.Warnings) == 0 {
		t.Error("Expected a warning for non-numeric amount coerced to 0")
	}
}

func TestSpreadsheetWarnsOnMixedAmountCell(t *testing.T) {
	grid := [][]string{
		{"계정과목", "금액"},
		{"현금", "주석3 1,000"}, // Digits present but unparseable as one number
		{"매출채권", "0"},
		{"미수금", "-"},
	}

	result, err := NewSpreadsheetExtractor().Extract(grid)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	var coerced []string
	for _, w := range result.Warnings {
		if strings.Contains(w, "coerced to 0") {
			coerced = append(coerced, w)
		}
	}
	if len(coerced) != 1 {
		t.Fatalf("Expected exactly 1 coercion warning, got %v", coerced)
	}
	if !strings.Contains(coerced[0], "현금") {
		t.Errorf("Expected the warning to name the mixed cell's row, got %q", coerced[0])
	}
}

func TestZeroLiteral(t *testing.T) {
	for _, in := range []string{"", "0", "0.00", "-", "−", "₩0", " 0 "} {
		if !ZeroLiteral(in) {
			t.Errorf("Expected %q to read as zero", in)
		}
	}
	for _, in := range []string{"abc123", "N/A", "주석3", "0원 미확정"} {
		if ZeroLiteral(in) {
			t.Errorf("Expected %q to be flagged, not read as zero", in)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1,234,567", 1234567},
		{"(500)", -500},
		{"₩1,000", 1000},
		{"$2,000", 2000},
		{"", 0},
		{"abc", 0},
		{"-750", -750},
	}
	for _, c := range cases {
		if got := ParseAmount(c.in); got != c.want {
			t.Errorf("ParseAmount(%q) = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestIsSubtotalName(t *testing.T) {
	for _, name := range []string{"자산총계", "부채총계", "소계", "합계", "Total Assets"} {
		if !IsSubtotalName(name) {
			t.Errorf("Expected %s to be classified as subtotal", name)
		}
	}
	if IsSubtotalName("현금및현금성자산") {
		t.Error("현금및현금성자산 must not be classified as subtotal")
	}
}

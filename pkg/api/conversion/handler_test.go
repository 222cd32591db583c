package conversion

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"gaap_bridge/pkg/core/accounting"
	"gaap_bridge/pkg/core/enrich"
	"gaap_bridge/pkg/core/store"
)

// MockProvider returns one canned response for every prompt.
type MockProvider struct {
	response string
	err      error
}

func (m *MockProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *MockProvider) AdaptInstructions(raw string) string { return raw }

func storedResult(t *testing.T) *accounting.ConversionResult {
	t.Helper()
	result := &accounting.ConversionResult{
		RunID: "run-report-test",
		Accounts: []accounting.ConvertedAccount{
			{
				RawAccount:   accounting.RawAccount{Name: "현금및현금성자산", Amount: 1000000},
				InternalCode: "1001",
				InternalName: "현금및현금성자산",
				TargetCode:   "CashAndCashEquivalentsAtCarryingValue",
				Kind:         accounting.MappingOneToOne,
			},
		},
		Summary: accounting.Summary{
			TotalAccounts:  1,
			SourceStandard: accounting.KGAAP,
			TargetStandard: accounting.IFRS,
		},
	}
	if err := repo.Save(context.Background(), result); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return result
}

func TestHandleReportIncludesReviewerNotes(t *testing.T) {
	repo = store.NewConversionRepo(nil, t.TempDir())
	annotator = enrich.NewAnalyzer(&MockProvider{response: "퇴직급여부채의 보험수리적 가정을 확인하십시오."})
	defer func() { annotator = nil }()
	storedResult(t)

	req := httptest.NewRequest("GET", "/api/report?run_id=run-report-test", nil)
	rec := httptest.NewRecorder()
	HandleReport(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "전문가 검토 의견") {
		t.Error("Expected the reviewer notes section in the report")
	}
	if !strings.Contains(body, "보험수리적 가정을 확인하십시오") {
		t.Errorf("Expected annotator text in the report, got:\n%s", body)
	}
}

func TestHandleReportSurvivesAnnotatorFailure(t *testing.T) {
	repo = store.NewConversionRepo(nil, t.TempDir())
	annotator = enrich.NewAnalyzer(&MockProvider{err: fmt.Errorf("model unavailable")})
	defer func() { annotator = nil }()
	storedResult(t)

	req := httptest.NewRequest("GET", "/api/report?run_id=run-report-test", nil)
	rec := httptest.NewRecorder()
	HandleReport(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected 200 despite annotator failure, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "현금및현금성자산") {
		t.Error("Expected the report body to render without notes")
	}
}

package e2e_test

import (
	"context"
	"strings"
	"testing"

	"gaap_bridge/pkg/core/accounting"
	"gaap_bridge/pkg/core/export"
	"gaap_bridge/pkg/core/ingest"
	"gaap_bridge/pkg/core/pipeline"
	"gaap_bridge/pkg/core/validate"
)

// statementCSV is a small K-GAAP balance sheet plus income statement the
// way an ERP CSV export looks: a header row, account rows, and subtotal
// rows that the extractor must drop.
const statementCSV = `계정과목,계정코드,당기금액
현금및현금성자산,101,50000000
매출채권,112,30000000
유형자산,201,500000000
유동자산 합계,,80000000
매입채무,311,20000000
퇴직급여충당부채,330,80000000
자본금,401,400000000
매출액,,1000000000
부채및자본총계,,500000000
`

func runConversion(t *testing.T, target accounting.Standard, details *accounting.ConversionDetails) *accounting.ConversionResult {
	t.Helper()

	payload, err := ingest.FromReader(strings.NewReader(statementCSV), "statement.csv")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	result, err := pipeline.NewOrchestrator().Run(context.Background(), pipeline.Input{
		Grid:    payload.Grid,
		Source:  accounting.KGAAP,
		Target:  target,
		Details: details,
	})
	if err != nil {
		t.Fatalf("pipeline run: %v", err)
	}
	return result
}

func TestCSVToIFRSEndToEnd(t *testing.T) {
	details := &accounting.ConversionDetails{
		RetirementBenefit: &accounting.RetirementBenefitDetails{
			CurrentObligation: 100000000,
			PlanAssets:        10000000,
		},
	}
	result := runConversion(t, accounting.IFRS, details)

	// Subtotal rows are dropped during extraction.
	if result.Summary.TotalAccounts != 7 {
		t.Errorf("accounts = %d, want 7", result.Summary.TotalAccounts)
	}
	for _, acc := range result.Accounts {
		if strings.Contains(acc.Name, "합계") || strings.Contains(acc.Name, "총계") {
			t.Errorf("subtotal row %q survived extraction", acc.Name)
		}
	}

	// The retirement benefit details produce a netting adjustment:
	// 100M obligation - 10M plan assets = 90M against the 80M book value.
	if len(result.Adjustments) != 1 {
		t.Fatalf("adjustments = %d, want 1", len(result.Adjustments))
	}
	adj := result.Adjustments[0]
	if adj.TargetName != "퇴직급여충당부채" || adj.Amount != 10000000 {
		t.Errorf("unexpected adjustment %+v", adj)
	}

	// The adjusted account carries the new amount and its trail.
	for _, acc := range result.Accounts {
		if acc.InternalName == "퇴직급여충당부채" {
			if acc.Amount != 90000000 {
				t.Errorf("adjusted amount = %v, want 90000000", acc.Amount)
			}
			if len(acc.Adjustments) != 1 {
				t.Errorf("adjustment trail = %d entries, want 1", len(acc.Adjustments))
			}
		}
	}

	if issues := validate.CheckArticulation(result.Accounts, validate.DefaultTolerance); len(issues) != 0 {
		t.Errorf("articulation issues: %v", issues)
	}

	// Retirement accounts trigger topic detection.
	found := false
	for _, det := range result.Detections {
		if det.TopicID == "retirement" {
			found = true
		}
	}
	if !found {
		t.Error("retirement topic not detected")
	}
}

func TestCSVToUSGAAPComposesBothRuleSets(t *testing.T) {
	details := &accounting.ConversionDetails{
		RetirementBenefit: &accounting.RetirementBenefitDetails{
			CurrentObligation: 100000000,
			PlanAssets:        10000000,
		},
		Revenue: &accounting.RevenueDetails{Method: accounting.RecognizeOverTime},
	}
	result := runConversion(t, accounting.USGAAP, details)

	// K-GAAP to US-GAAP runs the K-GAAP->IFRS rules and then the
	// IFRS->US-GAAP rules, both against the original amounts.
	var targets []string
	for _, adj := range result.Adjustments {
		targets = append(targets, adj.TargetName)
	}
	if len(result.Adjustments) != 2 {
		t.Fatalf("adjustments = %d (%v), want 2", len(result.Adjustments), targets)
	}
	if result.Adjustments[0].TargetName != "퇴직급여충당부채" {
		t.Errorf("first adjustment hit %q", result.Adjustments[0].TargetName)
	}
	if result.Adjustments[1].TargetName != "매출액" {
		t.Errorf("second adjustment hit %q", result.Adjustments[1].TargetName)
	}
	// 20% of revenue is deferred on over-time recognition.
	if result.Adjustments[1].Amount != -200000000 {
		t.Errorf("revenue deferral = %v, want -200000000", result.Adjustments[1].Amount)
	}
}

func TestEndToEndReportRendering(t *testing.T) {
	result := runConversion(t, accounting.IFRS, nil)

	report := export.BuildMarkdownReport(result, "")
	for _, want := range []string{
		"# 회계기준 전환 보고서 (K-GAAP → IFRS)",
		"현금및현금성자산",
		"## 계정 전환 내역",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}

	html, err := export.BuildHTMLReport(result, "")
	if err != nil {
		t.Fatalf("html report: %v", err)
	}
	if !strings.Contains(html, "<table") {
		t.Error("html report missing account table")
	}
}

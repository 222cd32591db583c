package convert

import (
	"math"
	"testing"

	"gaap_bridge/pkg/core/accounting"
)

func converted(internalCode, internalName string, amount float64) accounting.ConvertedAccount {
	return accounting.ConvertedAccount{
		RawAccount:   accounting.RawAccount{Name: internalName, Amount: amount},
		InternalCode: internalCode,
		InternalName: internalName,
		Kind:         accounting.MappingOneToOne,
		Adjustments:  []accounting.AdjustmentEntry{},
	}
}

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestLeasePresentValue(t *testing.T) {
	// 12 monthly payments of 1,000 at 12% annual: PV of the annuity at 1%
	// per period is 1000 * (1 - 1.01^-12) / 0.01 = 11,255.08
	lease := accounting.LeaseDetails{
		TermMonths:   12,
		DiscountRate: 0.12,
		Payment:      1000,
		Frequency:    accounting.PayMonthly,
	}

	pv := LeasePresentValue(lease)
	if !approxEqual(pv, 11255.08, 0.01) {
		t.Errorf("Expected PV 11255.08, got %f", pv)
	}

	// Zero rate degenerates to the payment sum
	lease.DiscountRate = 0
	if pv := LeasePresentValue(lease); pv != 12000 {
		t.Errorf("Expected 12000 at zero rate, got %f", pv)
	}
}

func TestLeaseAdjustmentPair(t *testing.T) {
	details := &accounting.ConversionDetails{
		Lease: &accounting.LeaseDetails{
			TermMonths:   36,
			DiscountRate: 0.06,
			Payment:      500000,
			Frequency:    accounting.PayMonthly,
		},
	}

	entries := NewAdjustmentEngine().Generate(nil, accounting.KGAAP, accounting.IFRS, details)

	if len(entries) != 2 {
		t.Fatalf("Expected right-of-use asset and lease liability entries, got %d", len(entries))
	}
	if entries[0].TargetName != "사용권자산" || entries[1].TargetName != "리스부채" {
		t.Errorf("Unexpected targets: %s, %s", entries[0].TargetName, entries[1].TargetName)
	}
	// Asset and liability are recognized at the same present value
	if entries[0].Amount != entries[1].Amount {
		t.Errorf("Asset and liability amounts differ: %f vs %f", entries[0].Amount, entries[1].Amount)
	}
	if entries[0].BeforeAmount != 0 || entries[0].AfterAmount != entries[0].Amount {
		t.Errorf("New recognition must go from 0 to the full PV: %+v", entries[0])
	}
}

func TestDevelopmentCostCapitalization(t *testing.T) {
	allMet := accounting.CapitalizationChecklist{
		TechnicallyFeasible: true,
		IntentionToComplete: true,
		AbilityToUse:        true,
		ResourcesAvailable:  true,
		ReliableMeasurement: true,
	}
	details := &accounting.ConversionDetails{
		IntangibleAsset: &accounting.IntangibleAssetDetails{
			AssetType:    "development",
			Expenditures: 3000000,
			Checklist:    allMet,
		},
	}

	entries := NewAdjustmentEngine().Generate(nil, accounting.KGAAP, accounting.IFRS, details)

	if len(entries) != 2 {
		t.Fatalf("Expected paired asset/expense entries, got %d", len(entries))
	}
	if entries[0].TargetName != "무형자산(개발비)" || entries[0].Amount != 3000000 {
		t.Errorf("Unexpected asset entry: %+v", entries[0])
	}
	if entries[1].TargetName != "연구개발비(비용)" || entries[1].Amount != -3000000 || entries[1].AfterAmount != 0 {
		t.Errorf("Unexpected expense reversal: %+v", entries[1])
	}

	// One unmet criterion blocks capitalization entirely
	details.IntangibleAsset.Checklist.ResourcesAvailable = false
	if got := NewAdjustmentEngine().Generate(nil, accounting.KGAAP, accounting.IFRS, details); len(got) != 0 {
		t.Errorf("Expected no entries with unmet checklist, got %d", len(got))
	}
}

func TestRetirementBenefitRemeasurement(t *testing.T) {
	accounts := []accounting.ConvertedAccount{
		converted("3401", "퇴직급여충당부채", 80000000),
	}
	details := &accounting.ConversionDetails{
		RetirementBenefit: &accounting.RetirementBenefitDetails{
			CurrentObligation: 120000000,
			PlanAssets:        30000000,
		},
	}

	entries := NewAdjustmentEngine().Generate(accounts, accounting.KGAAP, accounting.IFRS, details)

	if len(entries) != 1 {
		t.Fatalf("Expected 1 remeasurement entry, got %d", len(entries))
	}
	// Net liability 90M against booked 80M
	if entries[0].Amount != 10000000 {
		t.Errorf("Expected delta 10000000, got %f", entries[0].Amount)
	}
	if entries[0].AfterAmount != 90000000 {
		t.Errorf("Expected after-amount at net liability 90000000, got %f", entries[0].AfterAmount)
	}

	// Already at the net: no entry
	details.RetirementBenefit.CurrentObligation = 110000000
	if got := NewAdjustmentEngine().Generate(accounts, accounting.KGAAP, accounting.IFRS, details); len(got) != 0 {
		t.Errorf("Expected no entry when booked equals net liability, got %d", len(got))
	}
}

func TestProvisionExpectedValue(t *testing.T) {
	details := accounting.ProvisionDetails{
		Checklist: accounting.RecognitionChecklist{PresentObligation: true, ProbableOutflow: true, ReliableEstimate: true},
		Scenarios: []accounting.ProvisionScenario{
			{Outcome: "패소", Amount: 100000000, Probability: 0.6},
			{Outcome: "화해", Amount: 40000000, Probability: 0.4},
		},
	}

	// 100M*0.6 + 40M*0.4 = 76M, no discounting within a year
	if got := ProvisionExpectedValue(details); got != 76000000 {
		t.Errorf("Expected 76000000, got %f", got)
	}

	// Discounted over 2 years at 10%: 76M / 1.1^2
	details.SettlementPeriodYears = 2
	details.DiscountRate = 0.1
	want := 76000000 / math.Pow(1.1, 2)
	if got := ProvisionExpectedValue(details); !approxEqual(got, want, 0.01) {
		t.Errorf("Expected %f, got %f", want, got)
	}

	entries := NewAdjustmentEngine().Generate(nil, accounting.KGAAP, accounting.IFRS,
		&accounting.ConversionDetails{Provision: &details})
	if len(entries) != 1 || entries[0].TargetName != "충당부채" {
		t.Fatalf("Expected one provision entry, got %+v", entries)
	}
}

func TestRevaluationRemoval(t *testing.T) {
	accounts := []accounting.ConvertedAccount{
		converted("2001", "유형자산(장부가)", 500000000),
		converted("4301", "기타포괄손익누계액", 60000000),
	}
	details := &accounting.ConversionDetails{
		AssetValuation: &accounting.AssetValuationDetails{
			Model:     accounting.ModelRevaluation,
			FairValue: 550000000,
		},
	}

	entries := NewAdjustmentEngine().Generate(accounts, accounting.IFRS, accounting.USGAAP, details)

	if len(entries) != 2 {
		t.Fatalf("Expected PP&E and OCI entries, got %d", len(entries))
	}
	// Surplus 50M backed out of both sides
	if entries[0].TargetName != "유형자산(재평가)" || entries[0].Amount != -50000000 {
		t.Errorf("Unexpected PP&E entry: %+v", entries[0])
	}
	if entries[0].AfterAmount != 450000000 {
		t.Errorf("Expected PP&E after 450000000, got %f", entries[0].AfterAmount)
	}
	if entries[1].TargetName != "기타포괄손익누계액" || entries[1].AfterAmount != 10000000 {
		t.Errorf("Unexpected OCI entry: %+v", entries[1])
	}

	// Cost model: nothing to remove
	details.AssetValuation.Model = accounting.ModelCost
	if got := NewAdjustmentEngine().Generate(accounts, accounting.IFRS, accounting.USGAAP, details); len(got) != 0 {
		t.Errorf("Expected no entries under cost model, got %d", len(got))
	}
}

func TestRevenueTiming(t *testing.T) {
	accounts := []accounting.ConvertedAccount{
		converted("5001", "매출액", 1000000000),
	}
	details := &accounting.ConversionDetails{
		Revenue: &accounting.RevenueDetails{Method: accounting.RecognizeOverTime},
	}

	entries := NewAdjustmentEngine().Generate(accounts, accounting.IFRS, accounting.USGAAP, details)

	if len(entries) != 1 {
		t.Fatalf("Expected 1 revenue entry, got %d", len(entries))
	}
	if entries[0].Amount != -200000000 || entries[0].AfterAmount != 800000000 {
		t.Errorf("Expected 20%% deferral, got %+v", entries[0])
	}

	// Point-in-time needs no re-timing
	details.Revenue.Method = accounting.RecognizePointInTime
	if got := NewAdjustmentEngine().Generate(accounts, accounting.IFRS, accounting.USGAAP, details); len(got) != 0 {
		t.Errorf("Expected no entries for point-in-time, got %d", len(got))
	}
}

func TestKGAAPToUSGAAPComposesBothRuleSets(t *testing.T) {
	accounts := []accounting.ConvertedAccount{
		converted("2001", "유형자산(장부가)", 500000000),
		converted("5001", "매출액", 1000000000),
	}
	details := &accounting.ConversionDetails{
		Lease: &accounting.LeaseDetails{
			TermMonths: 12, DiscountRate: 0.12, Payment: 1000, Frequency: accounting.PayMonthly,
		},
		AssetValuation: &accounting.AssetValuationDetails{
			Model: accounting.ModelRevaluation, FairValue: 550000000,
		},
	}

	entries := NewAdjustmentEngine().Generate(accounts, accounting.KGAAP, accounting.USGAAP, details)

	// Lease pair (K-GAAP rules) then revaluation removal (IFRS rules)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].TargetName != "사용권자산" || entries[1].TargetName != "리스부채" {
		t.Errorf("K-GAAP rules must come first: %+v", entries[:2])
	}
	// Both rule sets see the ORIGINAL amounts
	if entries[2].BeforeAmount != 500000000 {
		t.Errorf("IFRS rules must run on original amounts, got before %f", entries[2].BeforeAmount)
	}
}

func TestUnsupportedPairProducesNoEntries(t *testing.T) {
	details := &accounting.ConversionDetails{
		Lease: &accounting.LeaseDetails{TermMonths: 12, DiscountRate: 0.1, Payment: 100, Frequency: accounting.PayYearly},
	}
	if got := NewAdjustmentEngine().Generate(nil, accounting.IFRS, accounting.KGAAP, details); got != nil {
		t.Errorf("Expected no entries for IFRS to K-GAAP, got %+v", got)
	}
}

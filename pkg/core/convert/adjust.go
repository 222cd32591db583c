package convert

import (
	"math"

	"gaap_bridge/pkg/core/accounting"
)

// Internal codes the rules anchor on.
const (
	codePPE               = "2001" // 유형자산(장부가)
	codeOCI               = "4301" // 기타포괄손익누계액
	codeRetirementBenefit = "3401" // 퇴직급여충당부채
	codeRevenue           = "5001" // 매출액
)

// revenueTimingRatio is the deferred share of over-time revenue when
// restating to point-in-time recognition. A flat ratio stands in until
// per-contract progress data is collected with the revenue details.
const revenueTimingRatio = 0.2

// AdjustmentEngine derives adjustment entries from the converted accounts
// and the caller-supplied per-topic details. Rules never mutate accounts;
// applying the entries is the applier's job.
type AdjustmentEngine struct{}

// NewAdjustmentEngine creates the rule engine.
func NewAdjustmentEngine() *AdjustmentEngine {
	return &AdjustmentEngine{}
}

// Generate returns the adjustment entries for the given standard pair. A
// nil details or a nil topic pointer skips that topic's rules. For the
// K-GAAP to US-GAAP pair both rule sets run against the ORIGINAL converted
// amounts, K-GAAP rules first; the composition is entry concatenation, not
// sequential application.
func (e *AdjustmentEngine) Generate(accounts []accounting.ConvertedAccount, source, target accounting.Standard, details *accounting.ConversionDetails) []accounting.AdjustmentEntry {
	switch {
	case source == accounting.KGAAP && target == accounting.IFRS:
		return e.kgaapToIFRS(accounts, details)
	case source == accounting.IFRS && target == accounting.USGAAP:
		return e.ifrsToUSGAAP(accounts, details)
	case source == accounting.KGAAP && target == accounting.USGAAP:
		entries := e.kgaapToIFRS(accounts, details)
		return append(entries, e.ifrsToUSGAAP(accounts, details)...)
	default:
		return nil
	}
}

// kgaapToIFRS covers lease recognition, development-cost capitalization,
// defined-benefit remeasurement and provision recognition.
func (e *AdjustmentEngine) kgaapToIFRS(accounts []accounting.ConvertedAccount, details *accounting.ConversionDetails) []accounting.AdjustmentEntry {
	if details == nil {
		return nil
	}
	var entries []accounting.AdjustmentEntry

	// IFRS 16: recognize the operating lease as a right-of-use asset and a
	// lease liability, both at the present value of the payment annuity.
	if details.Lease != nil {
		pv := LeasePresentValue(*details.Lease)
		entries = append(entries,
			accounting.AdjustmentEntry{
				Reason:       "IFRS 16 리스 기준 적용",
				TargetName:   "사용권자산",
				BeforeAmount: 0,
				Amount:       pv,
				AfterAmount:  pv,
				Note:         "운용리스를 사용권자산으로 인식",
			},
			accounting.AdjustmentEntry{
				Reason:       "IFRS 16 리스 기준 적용",
				TargetName:   "리스부채",
				BeforeAmount: 0,
				Amount:       pv,
				AfterAmount:  pv,
				Note:         "리스부채 인식",
			},
		)
	}

	// IAS 38: capitalize development expenditures when every criterion is
	// met. The asset entry and the expense reversal are paired.
	if ia := details.IntangibleAsset; ia != nil && ia.AssetType == "development" && ia.Checklist.AllMet() {
		entries = append(entries,
			accounting.AdjustmentEntry{
				Reason:       "개발비 자산화 조건 충족",
				TargetName:   "무형자산(개발비)",
				BeforeAmount: 0,
				Amount:       ia.Expenditures,
				AfterAmount:  ia.Expenditures,
				Note:         "개발비를 비용에서 자산으로 재분류",
			},
			accounting.AdjustmentEntry{
				Reason:       "개발비 자산화 조건 충족",
				TargetName:   "연구개발비(비용)",
				BeforeAmount: ia.Expenditures,
				Amount:       -ia.Expenditures,
				AfterAmount:  0,
				Note:         "비용 처리된 개발비를 자산으로 이전",
			},
		)
	}

	// IAS 19: restate the booked liability to obligation net of plan
	// assets. No entry when the account is absent or already at the net.
	if rb := details.RetirementBenefit; rb != nil {
		if acc := findByInternalCode(accounts, codeRetirementBenefit); acc != nil {
			netLiability := rb.CurrentObligation - rb.PlanAssets
			delta := netLiability - acc.Amount
			if delta != 0 {
				entries = append(entries, accounting.AdjustmentEntry{
					Reason:       "확정급여부채 보험수리적 재측정",
					TargetName:   "퇴직급여충당부채",
					BeforeAmount: acc.Amount,
					Amount:       delta,
					AfterAmount:  netLiability,
					Note:         "보험수리적 가정 변경에 따른 조정",
				})
			}
		}
	}

	// IAS 37: recognize the provision at the probability-weighted expected
	// value, discounted when settlement is more than a year out.
	if p := details.Provision; p != nil && p.Checklist.AllMet() && len(p.Scenarios) > 0 {
		expected := ProvisionExpectedValue(*p)
		entries = append(entries, accounting.AdjustmentEntry{
			Reason:       "충당부채 인식",
			TargetName:   "충당부채",
			BeforeAmount: 0,
			Amount:       expected,
			AfterAmount:  expected,
			Note:         "의무 이행을 위한 충당부채 인식",
		})
	}

	return entries
}

// ifrsToUSGAAP covers revaluation-surplus removal and revenue timing.
func (e *AdjustmentEngine) ifrsToUSGAAP(accounts []accounting.ConvertedAccount, details *accounting.ConversionDetails) []accounting.AdjustmentEntry {
	if details == nil {
		return nil
	}
	var entries []accounting.AdjustmentEntry

	// US-GAAP allows the cost model only: back out the revaluation surplus
	// from PP&E and reverse it out of accumulated OCI.
	if av := details.AssetValuation; av != nil && av.Model == accounting.ModelRevaluation && av.FairValue != 0 {
		if ppe := findByInternalCode(accounts, codePPE); ppe != nil {
			surplus := av.FairValue - ppe.Amount
			entries = append(entries, accounting.AdjustmentEntry{
				Reason:       "재평가잉여금 제거",
				TargetName:   "유형자산(재평가)",
				BeforeAmount: ppe.Amount,
				Amount:       -surplus,
				AfterAmount:  ppe.Amount - surplus,
				Note:         "IFRS 재평가모형에서 US GAAP 원가모형으로 환산 시 제거 필요",
			})

			if oci := findByInternalCode(accounts, codeOCI); oci != nil {
				entries = append(entries, accounting.AdjustmentEntry{
					Reason:       "재평가잉여금 제거",
					TargetName:   "기타포괄손익누계액",
					BeforeAmount: oci.Amount,
					Amount:       -surplus,
					AfterAmount:  oci.Amount - surplus,
					Note:         "재평가잉여금을 이익잉여금으로 재분류",
				})
			}
		}
	}

	// Over-time revenue partially re-timed to point-in-time: defer a flat
	// share of recognized revenue.
	if rev := details.Revenue; rev != nil && rev.Method == accounting.RecognizeOverTime {
		if acc := findByInternalCode(accounts, codeRevenue); acc != nil {
			deferred := acc.Amount * revenueTimingRatio
			entries = append(entries, accounting.AdjustmentEntry{
				Reason:       "수익인식타이밍차이",
				TargetName:   "매출액",
				BeforeAmount: acc.Amount,
				Amount:       -deferred,
				AfterAmount:  acc.Amount - deferred,
				Note:         "US GAAP 적용 시 일부 매출을 이연 처리",
			})
		}
	}

	return entries
}

// LeasePresentValue computes the annuity present value of the lease
// payment stream.
//
//	PV = payment * (1 - (1+r)^-n) / r
//
// where r is the per-period rate and n the total payment count. A zero
// discount rate degenerates to payment * n.
func LeasePresentValue(lease accounting.LeaseDetails) float64 {
	perYear := lease.Frequency.PaymentsPerYear()
	totalPayments := (lease.TermMonths / 12) * perYear
	periodRate := lease.DiscountRate / perYear

	if periodRate == 0 {
		return lease.Payment * totalPayments
	}
	return lease.Payment * ((1 - math.Pow(1+periodRate, -totalPayments)) / periodRate)
}

// ProvisionExpectedValue computes the probability-weighted settlement
// amount, discounted to present value when the settlement period exceeds
// one year and a discount rate is given.
func ProvisionExpectedValue(p accounting.ProvisionDetails) float64 {
	expected := 0.0
	for _, s := range p.Scenarios {
		expected += s.Amount * s.Probability
	}
	if p.SettlementPeriodYears > 1 && p.DiscountRate > 0 {
		expected /= math.Pow(1+p.DiscountRate, p.SettlementPeriodYears)
	}
	return expected
}

func findByInternalCode(accounts []accounting.ConvertedAccount, code string) *accounting.ConvertedAccount {
	for i := range accounts {
		if accounts[i].InternalCode == code {
			return &accounts[i]
		}
	}
	return nil
}

// Package detect flags which conversion topics apply to an extracted
// account set. Detection is rule-based keyword matching over account
// names: deterministic, no I/O, same input always gives the same output.
package detect

import (
	"strings"

	"gaap_bridge/pkg/core/accounting"
)

// Conversion topic IDs. The adjustment rules in convert key off these.
const (
	TopicAssetValuation       = "asset-valuation"
	TopicLease                = "lease"
	TopicFinancialInstruments = "financial-instruments"
	TopicRevenue              = "revenue"
	TopicIntangible           = "intangible"
	TopicRetirement           = "retirement"
	TopicProvisions           = "provisions"
)

// topicRule matches one topic against account names.
type topicRule struct {
	id         string
	confidence float64
	keywords   []string
	reason     string
}

// Rules fire in this fixed order, so detection output order is stable.
var topicRules = []topicRule{
	{
		id:         TopicAssetValuation,
		confidence: 0.8,
		keywords:   []string{"유형자산", "투자부동산", "재평가", "건물", "토지", "기계장치"},
		reason:     "유형자산 또는 투자부동산 계정이 발견되었습니다.",
	},
	{
		id:         TopicLease,
		confidence: 0.9,
		keywords:   []string{"리스", "임차", "사용권자산", "리스부채"},
		reason:     "리스 관련 계정이 발견되었습니다.",
	},
	{
		id:         TopicFinancialInstruments,
		confidence: 0.85,
		keywords:   []string{"사채", "전환사채", "금융자산", "금융부채", "채권", "파생상품"},
		reason:     "금융상품 계정이 발견되었습니다.",
	},
	{
		id:         TopicRevenue,
		confidence: 0.7,
		keywords:   []string{"매출", "수익", "계약자산", "계약부채", "선수수익"},
		reason:     "수익 관련 계정이 발견되었습니다.",
	},
	{
		id:         TopicIntangible,
		confidence: 0.8,
		keywords:   []string{"개발비", "무형자산", "특허권", "소프트웨어", "영업권"},
		reason:     "무형자산 계정이 발견되었습니다.",
	},
	{
		id:         TopicRetirement,
		confidence: 0.9,
		keywords:   []string{"퇴직급여", "퇴직연금", "확정급여", "사외적립"},
		reason:     "퇴직급여 관련 계정이 발견되었습니다.",
	},
	{
		id:         TopicProvisions,
		confidence: 0.85,
		keywords:   []string{"충당부채", "우발부채", "소송", "제품보증"},
		reason:     "충당부채 관련 계정이 발견되었습니다.",
	},
}

// Detector runs the topic rules over account names.
type Detector struct{}

// NewDetector creates a rule-based detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns one TopicDetection per topic whose keywords appear in at
// least one account name. A topic fires at most once regardless of how
// many accounts match it.
func (d *Detector) Detect(accounts []accounting.RawAccount) []accounting.TopicDetection {
	names := make([]string, len(accounts))
	for i, acc := range accounts {
		names[i] = strings.ToLower(acc.Name)
	}

	var detected []accounting.TopicDetection
	for _, rule := range topicRules {
		if matchesAny(names, rule.keywords) {
			detected = append(detected, accounting.TopicDetection{
				TopicID:    rule.id,
				Confidence: rule.confidence,
				Reason:     rule.reason,
			})
		}
	}
	return detected
}

// Has reports whether a topic ID is present in a detection set.
func Has(detections []accounting.TopicDetection, topicID string) bool {
	for _, det := range detections {
		if det.TopicID == topicID {
			return true
		}
	}
	return false
}

func matchesAny(names []string, keywords []string) bool {
	for _, name := range names {
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}

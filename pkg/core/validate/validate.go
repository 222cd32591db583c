// Package validate provides reusable financial validation utilities.
// These functions can be called from tests, API handlers, or pipeline code
// to verify that statements and conversion output stay internally
// consistent.
package validate

import (
	"fmt"
	"math"
	"strings"

	"gaap_bridge/pkg/core/accounting"
)

// DefaultTolerance absorbs rounding drift when comparing amounts in KRW.
const DefaultTolerance = 1.0

// Section classifies an account by statement section.
type Section string

const (
	SectionAsset     Section = "asset"
	SectionLiability Section = "liability"
	SectionEquity    Section = "equity"
	SectionIncome    Section = "income"
	SectionUnknown   Section = "unknown"
)

// SectionOf maps an internal account code to its statement section.
// Internal codes are banded: 1xxx-2xxx assets, 3xxx liabilities, 4xxx
// equity, 5xxx-7xxx income statement.
func SectionOf(internalCode string) Section {
	if internalCode == "" || internalCode == accounting.CodeUnmapped || internalCode == accounting.CodeNew {
		return SectionUnknown
	}
	switch internalCode[0] {
	case '1', '2':
		return SectionAsset
	case '3':
		return SectionLiability
	case '4':
		return SectionEquity
	case '5', '6', '7':
		return SectionIncome
	}
	return SectionUnknown
}

// BalanceCheck holds the result of the accounting equation check.
type BalanceCheck struct {
	Assets      float64
	Liabilities float64
	Equity      float64
	Difference  float64 // assets - (liabilities + equity)
	Balanced    bool
	Tolerance   float64
	Skipped     int // accounts excluded because their section is unknown
}

// CheckBalanceEquation verifies assets = liabilities + equity within
// tolerance.
func CheckBalanceEquation(assets, liabilities, equity, tolerance float64) *BalanceCheck {
	diff := assets - (liabilities + equity)
	return &BalanceCheck{
		Assets:      assets,
		Liabilities: liabilities,
		Equity:      equity,
		Difference:  diff,
		Balanced:    math.Abs(diff) <= tolerance,
		Tolerance:   tolerance,
	}
}

// CheckConvertedBalance sums converted balance-sheet accounts by section
// and runs the accounting equation. Income-statement and unmapped
// accounts are excluded; callers should treat a high Skipped count as a
// sign the check is not meaningful for this statement.
func CheckConvertedBalance(accounts []accounting.ConvertedAccount, tolerance float64) *BalanceCheck {
	var assets, liabilities, equity float64
	skipped := 0
	for _, acc := range accounts {
		switch SectionOf(acc.InternalCode) {
		case SectionAsset:
			assets += acc.Amount
		case SectionLiability:
			liabilities += acc.Amount
		case SectionEquity:
			equity += acc.Amount
		case SectionIncome:
			// Not part of the balance sheet equation.
		default:
			skipped++
		}
	}
	check := CheckBalanceEquation(assets, liabilities, equity, tolerance)
	check.Skipped = skipped
	return check
}

// ArticulationIssue describes one account whose final amount disagrees
// with its adjustment trail.
type ArticulationIssue struct {
	AccountName string
	Expected    float64
	Actual      float64
	Detail      string
}

func (i *ArticulationIssue) String() string {
	return fmt.Sprintf("%s: %s (expected %.2f, got %.2f)", i.AccountName, i.Detail, i.Expected, i.Actual)
}

// CheckArticulation verifies that every adjusted account's amount equals
// the after-amount of its last applied adjustment, and that each entry's
// after amount equals its before amount plus the adjustment.
func CheckArticulation(accounts []accounting.ConvertedAccount, tolerance float64) []ArticulationIssue {
	var issues []ArticulationIssue
	for _, acc := range accounts {
		for _, adj := range acc.Adjustments {
			if math.Abs(adj.BeforeAmount+adj.Amount-adj.AfterAmount) > tolerance {
				issues = append(issues, ArticulationIssue{
					AccountName: acc.Name,
					Expected:    adj.BeforeAmount + adj.Amount,
					Actual:      adj.AfterAmount,
					Detail:      "adjustment entry does not articulate",
				})
			}
		}
		if n := len(acc.Adjustments); n > 0 {
			last := acc.Adjustments[n-1]
			if math.Abs(acc.Amount-last.AfterAmount) > tolerance {
				issues = append(issues, ArticulationIssue{
					AccountName: acc.Name,
					Expected:    last.AfterAmount,
					Actual:      acc.Amount,
					Detail:      "account amount disagrees with adjustment trail",
				})
			}
		}
	}
	return issues
}

// OutlierCheck flags an adjustment whose relative impact exceeds a
// threshold. Large swings are usually correct but deserve review.
type OutlierCheck struct {
	AccountName string
	Before      float64
	After       float64
	ChangePct   float64
	Flagged     bool
}

// CheckAdjustmentOutliers returns one check per adjustment entry whose
// relative change exceeds thresholdPct. Entries with a zero before
// amount (newly recognized accounts) are never flagged.
func CheckAdjustmentOutliers(adjustments []accounting.AdjustmentEntry, thresholdPct float64) []OutlierCheck {
	var flagged []OutlierCheck
	for _, adj := range adjustments {
		if adj.BeforeAmount == 0 {
			continue
		}
		pct := math.Abs(adj.Amount/adj.BeforeAmount) * 100
		if pct > thresholdPct {
			flagged = append(flagged, OutlierCheck{
				AccountName: adj.TargetName,
				Before:      adj.BeforeAmount,
				After:       adj.AfterAmount,
				ChangePct:   pct,
				Flagged:     true,
			})
		}
	}
	return flagged
}

// Report runs all checks on a conversion result and renders any findings
// as warning strings suitable for ConversionResult.Warnings.
func Report(result *accounting.ConversionResult) []string {
	var warnings []string

	balance := CheckConvertedBalance(result.Accounts, DefaultTolerance)
	if !balance.Balanced && balance.Skipped < len(result.Accounts)/2 {
		warnings = append(warnings, fmt.Sprintf(
			"재무상태표 등식이 성립하지 않습니다 (차이: %.0f)", balance.Difference))
	}

	for _, issue := range CheckArticulation(result.Accounts, DefaultTolerance) {
		warnings = append(warnings, fmt.Sprintf("조정 내역 불일치: %s", issue.String()))
	}

	if outliers := CheckAdjustmentOutliers(result.Adjustments, 50); len(outliers) > 0 {
		names := make([]string, len(outliers))
		for i, o := range outliers {
			names[i] = fmt.Sprintf("%s (%.0f%%)", o.AccountName, o.ChangePct)
		}
		warnings = append(warnings, fmt.Sprintf("조정폭이 큰 계정 검토 필요: %s", strings.Join(names, ", ")))
	}

	return warnings
}

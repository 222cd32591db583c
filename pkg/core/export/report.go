// Package export renders conversion results into human-readable reports.
package export

import (
	"fmt"
	"strings"

	"gaap_bridge/pkg/core/accounting"
	"gaap_bridge/pkg/core/utils"
)

// BuildMarkdownReport renders a conversion result as a Korean-language
// markdown report. notes is optional narrative text produced by the
// enricher and is appended verbatim when present.
func BuildMarkdownReport(result *accounting.ConversionResult, notes string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# 회계기준 전환 보고서 (%s → %s)\n\n",
		result.Summary.SourceStandard, result.Summary.TargetStandard))

	b.WriteString("## 요약\n\n")
	b.WriteString(fmt.Sprintf("- 전환 일시: %s\n", result.Summary.ConversionDate))
	b.WriteString(fmt.Sprintf("- 총 계정 수: %d\n", result.Summary.TotalAccounts))
	b.WriteString(fmt.Sprintf("- 조정 분개 수: %d\n", result.Summary.TotalAdjustments))
	b.WriteString(fmt.Sprintf("- 미매핑 계정 수: %d\n", result.Summary.UnmappedAccounts))
	if result.Partial {
		b.WriteString("- 상태: 부분 전환 (조정 단계 미완료)\n")
	}
	b.WriteString("\n")

	b.WriteString("## 계정 전환 내역\n\n")
	b.WriteString("| 원천 계정 | 코드 | 대상 계정코드 | 금액 | 구분 |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, acc := range result.Accounts {
		code := acc.Code
		if code == "" {
			code = "-"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			acc.Name, code, acc.TargetCode, FormatAmount(acc.Amount), string(acc.Kind)))
	}
	b.WriteString("\n")

	if len(result.Adjustments) > 0 {
		b.WriteString("## 조정 분개\n\n")
		for i, adj := range result.Adjustments {
			b.WriteString(fmt.Sprintf("%d. **%s** — %s\n", i+1, adj.TargetName, adj.Reason))
			b.WriteString(fmt.Sprintf("   - 조정 전: %s / 조정액: %s / 조정 후: %s\n",
				FormatAmount(adj.BeforeAmount), FormatAmount(adj.Amount), FormatAmount(adj.AfterAmount)))
			if adj.Note != "" {
				b.WriteString(fmt.Sprintf("   - 비고: %s\n", adj.Note))
			}
		}
		b.WriteString("\n")
	}

	if len(result.Detections) > 0 {
		b.WriteString("## 검토 항목\n\n")
		for _, det := range result.Detections {
			b.WriteString(fmt.Sprintf("- %s (확신도 %.0f%%): %s\n",
				det.TopicID, det.Confidence*100, det.Reason))
		}
		b.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		b.WriteString("## 경고\n\n")
		for _, w := range result.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
		b.WriteString("\n")
	}

	if notes != "" {
		b.WriteString("## 전문가 검토 의견\n\n")
		b.WriteString(utils.CleanMarkdown(notes))
		b.WriteString("\n")
	}

	return b.String()
}

// BuildHTMLReport renders the markdown report as HTML for embedding in
// web responses.
func BuildHTMLReport(result *accounting.ConversionResult, notes string) (string, error) {
	md := BuildMarkdownReport(result, notes)
	html, err := utils.RenderMarkdownHTML(md)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return html, nil
}

// FormatAmount renders an amount with thousands separators, using
// accounting-style parentheses for negatives.
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	var out strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	if neg {
		return "(" + out.String() + ")"
	}
	return out.String()
}

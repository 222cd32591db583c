// Package enrich is the model-backed layer over the rule pipeline. It
// extracts accounts from free-form statement text, suggests topics and
// adjustments, and writes report annotations. Everything here is
// best-effort: callers treat failures as warnings, never as run failures.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gaap_bridge/pkg/core/accounting"
	"gaap_bridge/pkg/core/extract"
	"gaap_bridge/pkg/core/llm"
	"gaap_bridge/pkg/core/prompt"
	"gaap_bridge/pkg/core/utils"
)

// maxPromptAccounts caps the account sample embedded in prompts.
const maxPromptAccounts = 50

// maxPromptText caps the raw statement text embedded in prompts.
const maxPromptText = 8000

var jsonOptions = map[string]interface{}{
	"response_format": map[string]interface{}{"type": "json_object"},
}

// Analyzer runs model-backed analysis over one provider.
type Analyzer struct {
	provider llm.Provider
}

// NewAnalyzer creates an analyzer on the given provider.
func NewAnalyzer(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

type extractedAccountJSON struct {
	AccountCode string  `json:"accountCode"`
	AccountName string  `json:"accountName"`
	Amount      float64 `json:"amount"`
}

// ExtractAccounts asks the model to pull account rows out of statement
// text the rule extractor could not parse. Subtotal rows are filtered
// again locally; the model is asked to skip them but not trusted to.
func (a *Analyzer) ExtractAccounts(ctx context.Context, text string) ([]accounting.RawAccount, error) {
	userPrompt := fmt.Sprintf(`다음은 재무제표 데이터입니다.
이 텍스트에서 계정과목과 금액을 추출하여 JSON 형식으로 반환해주세요.

각 항목은 다음 JSON 형식이어야 합니다:
{
  "accounts": [
    {
      "accountCode": "계정코드 (있는 경우)",
      "accountName": "계정과목명",
      "amount": 금액 (숫자)
    }
  ]
}

소계, 합계, 총계는 제외해주세요.

재무제표 데이터:
%s

반드시 JSON 형식으로만 반환해주세요.`, truncate(text, maxPromptText))

	systemPrompt := prompt.SystemPromptOr(prompt.PromptIDs.EnrichExtractAccounts,
		"당신은 회계 전문가입니다. 재무제표에서 계정과목을 정확하게 추출할 수 있습니다.")

	response, err := a.provider.GenerateResponse(ctx, userPrompt, systemPrompt, jsonOptions)
	if err != nil {
		return nil, fmt.Errorf("model extraction failed: %w", err)
	}

	var parsed struct {
		Accounts []extractedAccountJSON `json:"accounts"`
	}
	if _, err := utils.SmartParse(response, &parsed); err != nil {
		return nil, fmt.Errorf("model extraction returned unparseable output: %w", err)
	}

	accounts := make([]accounting.RawAccount, 0, len(parsed.Accounts))
	for _, acc := range parsed.Accounts {
		name := strings.TrimSpace(acc.AccountName)
		if name == "" || extract.IsSubtotalName(name) {
			continue
		}
		accounts = append(accounts, accounting.RawAccount{
			Code:   strings.TrimSpace(acc.AccountCode),
			Name:   name,
			Amount: acc.Amount,
		})
	}
	return accounts, nil
}

// DetectTopics asks the model which conversion topics the statement
// needs, complementing the keyword detector on unusual account naming.
// Detections under 0.5 confidence are dropped.
func (a *Analyzer) DetectTopics(ctx context.Context, accounts []accounting.RawAccount) ([]accounting.TopicDetection, error) {
	sample := accounts
	if len(sample) > maxPromptAccounts {
		sample = sample[:maxPromptAccounts]
	}
	accountsJSON, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode accounts: %w", err)
	}

	userPrompt := fmt.Sprintf(`다음 재무제표 데이터를 분석하여, 회계기준 전환 시 필요한 항목들을 식별해주세요.

계정 데이터:
%s

다음 항목들 중에서 데이터에 해당하는 항목을 찾아주세요:

1. asset-valuation: 유형자산, 투자부동산, 재평가잉여금 등이 있는 경우
2. lease: 리스, 임차, 사용권자산 등이 있는 경우
3. financial-instruments: 사채, 전환사채, 금융자산, 금융부채 등이 있는 경우
4. revenue: 매출, 수익인식, 계약자산, 계약부채 등이 있는 경우
5. intangible: 개발비, 무형자산, 특허권, 소프트웨어 등이 있는 경우
6. retirement: 퇴직급여충당부채, 확정급여채무, 사외적립자산 등이 있는 경우
7. provisions: 충당부채, 우발부채, 소송충당부채 등이 있는 경우

각 항목에 대해 다음 JSON 형식으로 반환해주세요:
{
  "items": [
    {
      "id": "항목 ID",
      "confidence": 0.0-1.0 (확신도),
      "reason": "해당 항목이 필요한 이유"
    }
  ]
}

confidence가 0.5 이상인 항목만 반환해주세요.
반드시 JSON 형식으로만 응답해주세요.`, string(accountsJSON))

	systemPrompt := prompt.SystemPromptOr(prompt.PromptIDs.EnrichDetectTopics,
		"당신은 회계 전문가입니다. 재무제표를 분석하여 필요한 회계처리 항목을 정확히 식별할 수 있습니다.")

	response, err := a.provider.GenerateResponse(ctx, userPrompt, systemPrompt, jsonOptions)
	if err != nil {
		return nil, fmt.Errorf("model topic detection failed: %w", err)
	}

	var parsed struct {
		Items []accounting.TopicDetection `json:"items"`
	}
	if _, err := utils.SmartParse(response, &parsed); err != nil {
		return nil, fmt.Errorf("model topic detection returned unparseable output: %w", err)
	}

	items := parsed.Items[:0]
	for _, item := range parsed.Items {
		if item.Confidence >= 0.5 && item.TopicID != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

// SuggestAdjustments asks the model for adjustment entries beyond the
// deterministic rule set (e.g. convertible bond liability/equity split).
// Suggestions are advisory: the caller decides whether to apply them.
func (a *Analyzer) SuggestAdjustments(ctx context.Context, accounts []accounting.ConvertedAccount, source, target accounting.Standard, details *accounting.ConversionDetails) ([]accounting.AdjustmentEntry, error) {
	sample := accounts
	if len(sample) > maxPromptAccounts {
		sample = sample[:maxPromptAccounts]
	}
	accountsJSON, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode accounts: %w", err)
	}
	detailsJSON, _ := json.MarshalIndent(details, "", "  ")

	userPrompt := fmt.Sprintf(`%s에서 %s로 회계기준을 변환할 때 필요한 조정 항목을 생성해주세요.

변환 대상 계정:
%s

세부 정보:
%s

다음 항목들을 고려하여 조정 항목을 생성해주세요:

1. 재평가잉여금 제거 (US-GAAP은 원가모형만 허용)
2. 리스자산 및 리스부채 인식 (IFRS 16)
3. 개발비 자산화 조건 검토
4. 퇴직급여충당부채 보험수리적 재측정
5. 충당부채 인식
6. 수익인식 타이밍 차이
7. 전환사채의 부채-자본 분리

각 조정 항목은 다음 JSON 형식으로 반환해주세요:
{
  "adjustments": [
    {
      "reason": "조정 발생 원인",
      "beforeAmount": 조정 전 금액,
      "targetAccountName": "조정 항목명",
      "adjustmentAmount": 조정 금액,
      "afterAmount": 조정 후 금액,
      "note": "주석"
    }
  ]
}

조정이 필요한 경우에만 항목을 생성해주세요.
반드시 JSON 형식으로만 응답해주세요.`, source, target, string(accountsJSON), string(detailsJSON))

	systemPrompt := prompt.SystemPromptOr(prompt.PromptIDs.EnrichSuggestAdjustments,
		fmt.Sprintf("당신은 %s, IFRS, US-GAAP 간의 차이를 정확히 알고 있는 회계 전문가입니다. 회계기준 변환 시 필요한 조정 항목을 정확하게 식별할 수 있습니다.", source))

	response, err := a.provider.GenerateResponse(ctx, userPrompt, systemPrompt, jsonOptions)
	if err != nil {
		return nil, fmt.Errorf("model adjustment suggestion failed: %w", err)
	}

	var parsed struct {
		Adjustments []accounting.AdjustmentEntry `json:"adjustments"`
	}
	if _, err := utils.SmartParse(response, &parsed); err != nil {
		return nil, fmt.Errorf("model adjustment suggestion returned unparseable output: %w", err)
	}

	entries := parsed.Adjustments[:0]
	for _, entry := range parsed.Adjustments {
		if entry.TargetName != "" {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// ReportNotes writes the Korean footnote section for a conversion report.
func (a *Analyzer) ReportNotes(ctx context.Context, result *accounting.ConversionResult) (string, error) {
	adjustments := result.Adjustments
	if len(adjustments) > 10 {
		adjustments = adjustments[:10]
	}
	adjustmentsJSON, err := json.MarshalIndent(adjustments, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode adjustments: %w", err)
	}

	userPrompt := fmt.Sprintf(`다음 회계기준 변환 결과에 대한 주석을 작성해주세요.

변환 요약:
- 원본 기준: %s
- 목표 기준: %s
- 변환된 계정 수: %d
- 조정 항목 수: %d

주요 조정 항목:
%s

다음 내용을 포함한 전문적인 주석을 작성해주세요:
1. 적용된 회계정책 (재평가모형/원가모형 등)
2. 주요 조정 사항 설명
3. 보험수리적 가정의 변경 (해당시)
4. 리스 기준 적용 (해당시)
5. 수익인식 방법 (해당시)

한국어로 작성하고, 회계 보고서 형식을 따라주세요.`,
		result.Summary.SourceStandard, result.Summary.TargetStandard,
		result.Summary.TotalAccounts, result.Summary.TotalAdjustments,
		string(adjustmentsJSON))

	systemPrompt := prompt.SystemPromptOr(prompt.PromptIDs.EnrichReportNotes,
		"당신은 전문 회계사이며, 재무제표 주석을 작성하는 전문가입니다.")

	response, err := a.provider.GenerateResponse(ctx, userPrompt, systemPrompt, nil)
	if err != nil {
		return "", fmt.Errorf("model note generation failed: %w", err)
	}
	return utils.CleanMarkdown(response), nil
}

// truncate cuts at a rune boundary so Korean text stays valid UTF-8.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

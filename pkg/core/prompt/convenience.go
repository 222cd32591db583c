package prompt

// Convenience functions for common prompt operations

// SystemPromptOr returns the registered system prompt for id, or
// fallback when the library has no override for it. Enrichment code
// calls this so deployments can tune prompts without a rebuild.
func SystemPromptOr(id string, fallback string) string {
	sp, err := Get().GetSystemPrompt(id)
	if err != nil || sp == "" {
		return fallback
	}
	return sp
}

// GetEnrichPrompt returns an enrichment step's system prompt by step name
func GetEnrichPrompt(step string) (string, error) {
	id := "enrich." + step
	return Get().GetSystemPrompt(id)
}

// PromptIDs contains all known prompt identifiers
var PromptIDs = struct {
	EnrichExtractAccounts    string
	EnrichDetectTopics       string
	EnrichSuggestAdjustments string
	EnrichReportNotes        string
}{
	EnrichExtractAccounts:    "enrich.extract_accounts",
	EnrichDetectTopics:       "enrich.detect_topics",
	EnrichSuggestAdjustments: "enrich.suggest_adjustments",
	EnrichReportNotes:        "enrich.report_notes",
}

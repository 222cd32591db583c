package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromDirectory(t *testing.T) {
	Get().Clear()

	dir := t.TempDir()
	enrichDir := filepath.Join(dir, "prompts", "enrich")
	if err := os.MkdirAll(enrichDir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := `{"system_prompt": "당신은 회계 전문가입니다.", "version": "1.0"}`
	if err := os.WriteFile(filepath.Join(enrichDir, "extract_accounts.json"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := LoadFromDirectory(dir); err != nil {
		t.Fatalf("LoadFromDirectory: %v", err)
	}

	// ID and category are derived from the file path.
	pt, err := Get().GetPrompt("enrich.extract_accounts")
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if pt.Category != "enrich" {
		t.Errorf("category = %q, want enrich", pt.Category)
	}
	if pt.SystemPrompt != "당신은 회계 전문가입니다." {
		t.Errorf("unexpected system prompt %q", pt.SystemPrompt)
	}
}

func TestSystemPromptOrFallback(t *testing.T) {
	Get().Clear()

	if got := SystemPromptOr("enrich.detect_topics", "기본 프롬프트"); got != "기본 프롬프트" {
		t.Errorf("fallback not used: %q", got)
	}

	Get().Register(&PromptTemplate{ID: "enrich.detect_topics", SystemPrompt: "재정의된 프롬프트"})
	if got := SystemPromptOr("enrich.detect_topics", "기본 프롬프트"); got != "재정의된 프롬프트" {
		t.Errorf("override not used: %q", got)
	}
}

func TestRenderUserPrompt(t *testing.T) {
	pt := &PromptTemplate{
		ID:             "enrich.report_notes",
		UserPromptTmpl: "{{.Source}}에서 {{.Target}}로의 전환 결과를 검토하세요.",
	}
	ctx := NewContext().Set("Source", "K-GAAP").Set("Target", "IFRS")
	out, err := RenderUserPrompt(pt, ctx)
	if err != nil {
		t.Fatalf("RenderUserPrompt: %v", err)
	}
	want := "K-GAAP에서 IFRS로의 전환 결과를 검토하세요."
	if out != want {
		t.Errorf("rendered %q, want %q", out, want)
	}
}

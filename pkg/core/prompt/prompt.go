// Package prompt provides a runtime-loadable prompt library for the
// model-backed enrichment steps. Prompts ship with hardcoded Korean
// defaults; JSON files under resources/prompts override them without a
// rebuild.
package prompt

// PromptTemplate is one reusable prompt with metadata.
type PromptTemplate struct {
	ID             string `json:"id"`                   // Unique identifier (e.g., "enrich.extract_accounts")
	Name           string `json:"name"`                 // Human-readable name
	Category       string `json:"category"`             // Category (enrich, report, etc.)
	Description    string `json:"description"`          // Description of prompt purpose
	SystemPrompt   string `json:"system_prompt"`        // The system prompt content
	UserPromptTmpl string `json:"user_prompt_template"` // Go template for user prompt
	Version        string `json:"version"`              // Version for tracking changes
}

// PromptExecutionContext holds runtime values for template rendering.
type PromptExecutionContext struct {
	Variables map[string]interface{}
}

// NewContext creates a new execution context
func NewContext() *PromptExecutionContext {
	return &PromptExecutionContext{
		Variables: make(map[string]interface{}),
	}
}

// Set adds a variable to the context
func (c *PromptExecutionContext) Set(key string, value interface{}) *PromptExecutionContext {
	c.Variables[key] = value
	return c
}

// Package pipeline wires extraction, topic detection, conversion and
// adjustment into one run and owns the run-level error policy: extraction
// failures are fatal, enrichment failures degrade to warnings.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gaap_bridge/pkg/core/accounting"
	"gaap_bridge/pkg/core/convert"
	"gaap_bridge/pkg/core/detect"
	"gaap_bridge/pkg/core/extract"
	"gaap_bridge/pkg/core/mapping"
	"gaap_bridge/pkg/core/validate"
)

// ErrInvalidStandardPair rejects unsupported conversion directions before
// any work starts. Converting a standard to itself is invalid too.
var ErrInvalidStandardPair = errors.New("unsupported accounting standard pair")

// ErrNoInput means the request carried neither a cell grid nor document
// text.
var ErrNoInput = errors.New("no spreadsheet grid or document text provided")

// enrichTimeout bounds one enrichment call. The run proceeds without
// enrichment when the model is slower than this.
const enrichTimeout = 45 * time.Second

// Enricher is the optional model-backed assistant layered over the rule
// stages: extraction when rules find nothing, topic detection and
// adjustment suggestions alongside the rule output, and report
// annotations. Implementations live in the enrich package; nil disables
// enrichment entirely.
type Enricher interface {
	ExtractAccounts(ctx context.Context, text string) ([]accounting.RawAccount, error)
	DetectTopics(ctx context.Context, accounts []accounting.RawAccount) ([]accounting.TopicDetection, error)
	SuggestAdjustments(ctx context.Context, accounts []accounting.ConvertedAccount, source, target accounting.Standard, details *accounting.ConversionDetails) ([]accounting.AdjustmentEntry, error)
	ReportNotes(ctx context.Context, result *accounting.ConversionResult) (string, error)
}

// Input is one conversion request. Exactly one of Grid or Text carries the
// statement; Details is optional per-topic data from the caller.
type Input struct {
	Grid    [][]string
	Text    string
	Source  accounting.Standard
	Target  accounting.Standard
	Details *accounting.ConversionDetails
}

// Orchestrator runs the conversion pipeline end to end.
type Orchestrator struct {
	table       *mapping.Table
	spreadsheet *extract.SpreadsheetExtractor
	document    *extract.DocumentExtractor
	detector    *detect.Detector
	engine      *convert.AdjustmentEngine
	enricher    Enricher
}

// NewOrchestrator creates an orchestrator over the default mapping table
// with enrichment disabled.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		table:       mapping.MustDefault(),
		spreadsheet: extract.NewSpreadsheetExtractor(),
		document:    extract.NewDocumentExtractor(),
		detector:    detect.NewDetector(),
		engine:      convert.NewAdjustmentEngine(),
	}
}

// SetEnricher injects the model-backed enricher.
func (o *Orchestrator) SetEnricher(e Enricher) {
	o.enricher = e
}

// SetTable allows injecting a custom mapping table (e.g., for testing).
func (o *Orchestrator) SetTable(t *mapping.Table) {
	o.table = t
}

// Run executes one conversion. The returned result is complete unless
// Partial is set, which happens only when the context is cancelled after
// extraction; in that case the accounts are converted but unadjusted.
func (o *Orchestrator) Run(ctx context.Context, input Input) (*accounting.ConversionResult, error) {
	if err := validatePair(input.Source, input.Target); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	fmt.Printf("[PIPELINE] Run %s: %s -> %s\n", runID, input.Source, input.Target)

	// 1. Extraction. The only fatal stage besides validation.
	extracted, err := o.extractStage(ctx, input)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[PIPELINE] Extracted %d accounts, %d warnings\n", len(extracted.Accounts), len(extracted.Warnings))

	result := &accounting.ConversionResult{
		RunID:    runID,
		Warnings: append([]string{}, extracted.Warnings...),
	}

	// 2. Topic detection. Keyword matching first, then model detections
	// for topics the keywords missed.
	result.Detections = o.detector.Detect(extracted.Accounts)
	if o.enricher != nil {
		modelDetections, enrichErr := o.enrichDetect(ctx, extracted.Accounts)
		if enrichErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("model topic detection unavailable: %v", enrichErr))
		} else {
			for _, d := range modelDetections {
				if !detect.Has(result.Detections, d.TopicID) {
					result.Detections = append(result.Detections, d)
				}
			}
		}
	}

	// 3. Mapping conversion in input order.
	converter := convert.NewConverter(o.table)
	result.Accounts = converter.Convert(extracted.Accounts, input.Source, input.Target)

	if ctx.Err() != nil {
		// Cancelled mid-run: ship what we have, flagged partial.
		result.Partial = true
		result.Warnings = append(result.Warnings, "run cancelled before adjustments were applied")
		result.Summary = o.summarize(result, input)
		return result, nil
	}

	// 4. Rule-based adjustments plus model suggestions for accounts the
	// rules left untouched, then fold everything into the accounts.
	result.Adjustments = o.engine.Generate(result.Accounts, input.Source, input.Target, input.Details)
	if o.enricher != nil {
		suggested, enrichErr := o.enrichSuggest(ctx, result.Accounts, input)
		if enrichErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("model adjustment suggestions unavailable: %v", enrichErr))
		} else {
			for _, entry := range suggested {
				if !hasAdjustmentFor(result.Adjustments, entry.TargetName) {
					result.Adjustments = append(result.Adjustments, entry)
				}
			}
		}
	}
	result.Accounts = convert.ApplyAdjustments(result.Accounts, result.Adjustments)

	// 5. Consistency check over the adjusted accounts.
	for _, issue := range validate.CheckArticulation(result.Accounts, validate.DefaultTolerance) {
		result.Warnings = append(result.Warnings, "조정 내역 불일치: "+issue.String())
	}

	result.Summary = o.summarize(result, input)
	fmt.Printf("[PIPELINE] Run %s complete: %d accounts, %d adjustments\n",
		runID, result.Summary.TotalAccounts, result.Summary.TotalAdjustments)
	return result, nil
}

// extractStage picks the extractor for the input shape, falling back to
// model extraction when rule extraction finds nothing in document text.
func (o *Orchestrator) extractStage(ctx context.Context, input Input) (*extract.Result, error) {
	switch {
	case len(input.Grid) > 0:
		return o.spreadsheet.Extract(input.Grid)
	case input.Text != "":
		result, err := o.document.Extract(input.Text)
		if err != nil {
			return nil, err
		}
		if len(result.Accounts) == 0 && o.enricher != nil {
			accounts, enrichErr := o.enrichExtract(ctx, input.Text)
			if enrichErr != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("model extraction unavailable: %v", enrichErr))
				return result, nil
			}
			result.Accounts = accounts
			result.Warnings = extract.Validate(accounts)
		}
		return result, nil
	default:
		return nil, ErrNoInput
	}
}

// enrichExtract calls the enricher under the enrichment deadline. One
// attempt only; enrichment is best-effort and never retried.
func (o *Orchestrator) enrichExtract(ctx context.Context, text string) ([]accounting.RawAccount, error) {
	enrichCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()
	return o.enricher.ExtractAccounts(enrichCtx, text)
}

func (o *Orchestrator) enrichDetect(ctx context.Context, accounts []accounting.RawAccount) ([]accounting.TopicDetection, error) {
	enrichCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()
	return o.enricher.DetectTopics(enrichCtx, accounts)
}

func (o *Orchestrator) enrichSuggest(ctx context.Context, accounts []accounting.ConvertedAccount, input Input) ([]accounting.AdjustmentEntry, error) {
	enrichCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()
	return o.enricher.SuggestAdjustments(enrichCtx, accounts, input.Source, input.Target, input.Details)
}

// hasAdjustmentFor reports whether an adjustment already targets the named
// account. Rule entries win over model suggestions for the same account.
func hasAdjustmentFor(entries []accounting.AdjustmentEntry, targetName string) bool {
	for _, e := range entries {
		if e.TargetName == targetName {
			return true
		}
	}
	return false
}

func (o *Orchestrator) summarize(result *accounting.ConversionResult, input Input) accounting.Summary {
	unmapped := 0
	for _, acc := range result.Accounts {
		if acc.InternalCode == accounting.CodeUnmapped {
			unmapped++
		}
	}
	return accounting.Summary{
		TotalAccounts:    len(result.Accounts),
		TotalAdjustments: len(result.Adjustments),
		UnmappedAccounts: unmapped,
		ConversionDate:   time.Now().UTC().Format(time.RFC3339),
		SourceStandard:   input.Source,
		TargetStandard:   input.Target,
	}
}

// validatePair admits the three supported directions: K-GAAP to IFRS,
// K-GAAP to US-GAAP, IFRS to US-GAAP.
func validatePair(source, target accounting.Standard) error {
	if source == target {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStandardPair, source, target)
	}
	switch {
	case source == accounting.KGAAP && target == accounting.IFRS,
		source == accounting.KGAAP && target == accounting.USGAAP,
		source == accounting.IFRS && target == accounting.USGAAP:
		return nil
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStandardPair, source, target)
	}
}

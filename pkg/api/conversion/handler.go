package conversion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gaap_bridge/pkg/core/accounting"
	"gaap_bridge/pkg/core/agent"
	"gaap_bridge/pkg/core/enrich"
	"gaap_bridge/pkg/core/export"
	"gaap_bridge/pkg/core/ingest"
	"gaap_bridge/pkg/core/pipeline"
	"gaap_bridge/pkg/core/store"
)

// maxUploadBytes caps statement uploads.
const maxUploadBytes = 20 << 20

// notesTimeout bounds the reviewer-note call when rendering a report.
const notesTimeout = 30 * time.Second

var orchestrator *pipeline.Orchestrator
var annotator *enrich.Analyzer
var repo *store.ConversionRepo

func InitHandler(mgr *agent.Manager) {
	orchestrator = pipeline.NewOrchestrator()
	if mgr != nil {
		orchestrator.SetEnricher(enrich.NewAnalyzer(mgr.GetProvider("analyzer")))
		annotator = enrich.NewAnalyzer(mgr.GetProvider("annotator"))
	}
	repo = store.NewConversionRepo(store.GetPool(), "") // Defaults to .cache/conversions
}

// ConvertRequest is the JSON body for text-based conversions. File
// uploads use multipart form data instead and carry the same
// source/target/details fields as form values.
type ConvertRequest struct {
	Text    string                        `json:"text"`
	Source  string                        `json:"sourceStandard"`
	Target  string                        `json:"targetStandard"`
	Details *accounting.ConversionDetails `json:"details"`
}

func cors(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleConvert accepts either a multipart upload (field "file") or a JSON
// body with raw statement text, runs the conversion pipeline, persists the
// result, and returns it as JSON.
func HandleConvert(w http.ResponseWriter, r *http.Request) {
	cors(w, "POST, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input, err := buildInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fmt.Printf("[API] Convert request: %s -> %s\n", input.Source, input.Target)

	result, err := orchestrator.Run(r.Context(), *input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	// Persistence failure should not lose the response the caller waited for.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repo.Save(saveCtx, result); err != nil {
		fmt.Printf("[WARNING] Failed to persist conversion %s: %v\n", result.RunID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func buildInput(r *http.Request) (*pipeline.Input, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return buildUploadInput(r)
	}

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	source, err := accounting.ParseStandard(req.Source)
	if err != nil {
		return nil, err
	}
	target, err := accounting.ParseStandard(req.Target)
	if err != nil {
		return nil, err
	}
	return &pipeline.Input{
		Text:    req.Text,
		Source:  source,
		Target:  target,
		Details: req.Details,
	}, nil
}

func buildUploadInput(r *http.Request) (*pipeline.Input, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	source, err := accounting.ParseStandard(r.FormValue("sourceStandard"))
	if err != nil {
		return nil, err
	}
	target, err := accounting.ParseStandard(r.FormValue("targetStandard"))
	if err != nil {
		return nil, err
	}

	payload, err := ingest.FromReader(file, header.Filename)
	if err != nil {
		return nil, err
	}

	input := &pipeline.Input{
		Grid:   payload.Grid,
		Text:   payload.Text,
		Source: source,
		Target: target,
	}
	if raw := r.FormValue("details"); raw != "" {
		var details accounting.ConversionDetails
		if err := json.Unmarshal([]byte(raw), &details); err != nil {
			return nil, fmt.Errorf("invalid details: %w", err)
		}
		input.Details = &details
	}
	fmt.Printf("[API] Ingested upload %s (%d grid rows, %d text bytes)\n",
		header.Filename, len(payload.Grid), len(payload.Text))
	return input, nil
}

// HandleGetConversion returns a stored conversion result by run_id.
func HandleGetConversion(w http.ResponseWriter, r *http.Request) {
	cors(w, "GET, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		http.Error(w, "run_id is required", http.StatusBadRequest)
		return
	}

	result, err := repo.Load(r.Context(), runID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Conversion not found: %s", runID), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleListConversions returns summaries of recent conversions, newest
// first.
func HandleListConversions(w http.ResponseWriter, r *http.Request) {
	cors(w, "GET, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	summaries, err := repo.List(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// HandleReport renders a stored conversion as a markdown or HTML report.
func HandleReport(w http.ResponseWriter, r *http.Request) {
	cors(w, "GET, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		http.Error(w, "run_id is required", http.StatusBadRequest)
		return
	}

	result, err := repo.Load(r.Context(), runID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Conversion not found: %s", runID), http.StatusNotFound)
		return
	}

	notes := reviewerNotes(r.Context(), result)

	if r.URL.Query().Get("format") == "html" {
		html, err := export.BuildHTMLReport(result, notes)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, export.BuildMarkdownReport(result, notes))
}

// reviewerNotes asks the annotator for report commentary. The report
// renders without the section when no annotator is configured or the call
// fails.
func reviewerNotes(ctx context.Context, result *accounting.ConversionResult) string {
	if annotator == nil {
		return ""
	}
	notesCtx, cancel := context.WithTimeout(ctx, notesTimeout)
	defer cancel()
	notes, err := annotator.ReportNotes(notesCtx, result)
	if err != nil {
		fmt.Printf("[WARNING] Reviewer notes unavailable for %s: %v\n", result.RunID, err)
		return ""
	}
	return notes
}

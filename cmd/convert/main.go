package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"gaap_bridge/pkg/core/accounting"
	"gaap_bridge/pkg/core/agent"
	"gaap_bridge/pkg/core/enrich"
	"gaap_bridge/pkg/core/export"
	"gaap_bridge/pkg/core/ingest"
	"gaap_bridge/pkg/core/pipeline"
	"gaap_bridge/pkg/core/validate"
)

func main() {
	// Load environment variables
	godotenv.Load()

	var (
		inputPath   = flag.String("in", "", "statement file (.xlsx, .xls, .html, .pdf, .csv, .txt)")
		source      = flag.String("from", "K-GAAP", "source accounting standard")
		target      = flag.String("to", "IFRS", "target accounting standard")
		detailsPath = flag.String("details", "", "optional JSON file with per-topic conversion details")
		outPath     = flag.String("out", "", "write the markdown report here instead of stdout")
		asJSON      = flag.Bool("json", false, "print the raw conversion result as JSON")
		withNotes   = flag.Bool("notes", false, "append model-written reviewer notes to the report")
		configPath  = flag.String("config", "config/models.yaml", "model roles config for -notes")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		log.Fatal("Error: -in is required.")
	}

	sourceStd, err := accounting.ParseStandard(*source)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	targetStd, err := accounting.ParseStandard(*target)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	payload, err := ingest.FromFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading %s: %v", *inputPath, err)
	}

	input := pipeline.Input{
		Grid:   payload.Grid,
		Text:   payload.Text,
		Source: sourceStd,
		Target: targetStd,
	}
	if *detailsPath != "" {
		data, err := os.ReadFile(*detailsPath)
		if err != nil {
			log.Fatalf("Error reading details: %v", err)
		}
		var details accounting.ConversionDetails
		if err := json.Unmarshal(data, &details); err != nil {
			log.Fatalf("Error parsing details: %v", err)
		}
		input.Details = &details
	}

	result, err := pipeline.NewOrchestrator().Run(context.Background(), input)
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	for _, w := range validate.Report(result) {
		fmt.Fprintf(os.Stderr, "[WARNING] %s\n", w)
	}

	var output string
	if *asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Error encoding result: %v", err)
		}
		output = string(data)
	} else {
		notes := ""
		if *withNotes {
			notes = reviewerNotes(*configPath, result)
		}
		output = export.BuildMarkdownReport(result, notes)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(output), 0o644); err != nil {
			log.Fatalf("Error writing %s: %v", *outPath, err)
		}
		fmt.Printf("Report written to %s (%d accounts, %d adjustments)\n",
			*outPath, result.Summary.TotalAccounts, result.Summary.TotalAdjustments)
		for _, acc := range result.Preview(5) {
			fmt.Printf("  %s -> %s (%s)\n", acc.Name, acc.TargetCode, export.FormatAmount(acc.Amount))
		}
		return
	}
	fmt.Println(output)
}

// reviewerNotes asks the annotator role for report commentary. The report
// is printed without the section when the call fails.
func reviewerNotes(configPath string, result *accounting.ConversionResult) string {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARNING] Reviewer notes skipped, cannot read %s: %v\n", configPath, err)
		return ""
	}
	var agentCfg agent.Config
	if err := yaml.Unmarshal(configData, &agentCfg); err != nil {
		fmt.Fprintf(os.Stderr, "[WARNING] Reviewer notes skipped, invalid %s: %v\n", configPath, err)
		return ""
	}

	mgr := agent.NewManager(agentCfg)
	annotator := enrich.NewAnalyzer(mgr.GetProvider("annotator"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	notes, err := annotator.ReportNotes(ctx, result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARNING] Reviewer notes unavailable: %v\n", err)
		return ""
	}
	return notes
}

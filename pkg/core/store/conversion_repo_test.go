package store

import (
	"context"
	"testing"

	"gaap_bridge/pkg/core/accounting"
)

func sampleResult(runID string) *accounting.ConversionResult {
	return &accounting.ConversionResult{
		RunID: runID,
		Accounts: []accounting.ConvertedAccount{
			{
				RawAccount:   accounting.RawAccount{Name: "현금및현금성자산", Amount: 1000000},
				InternalCode: "1001",
				InternalName: "현금및현금성자산",
				TargetCode:   "CashAndCashEquivalentsAtCarryingValue",
				Kind:         accounting.MappingOneToOne,
			},
		},
		Summary: accounting.Summary{
			TotalAccounts:  1,
			SourceStandard: accounting.KGAAP,
			TargetStandard: accounting.IFRS,
			ConversionDate: "2026-01-15T09:00:00Z",
		},
	}
}

func TestFileBackendSaveLoad(t *testing.T) {
	repo := NewConversionRepo(nil, t.TempDir())
	ctx := context.Background()

	result := sampleResult("run-123")
	if err := repo.Save(ctx, result); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := repo.Load(ctx, "run-123")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.RunID != "run-123" {
		t.Errorf("Expected run-123, got %s", loaded.RunID)
	}
	if len(loaded.Accounts) != 1 || loaded.Accounts[0].InternalCode != "1001" {
		t.Errorf("Accounts did not round-trip: %+v", loaded.Accounts)
	}
	if loaded.Summary.SourceStandard != accounting.KGAAP {
		t.Errorf("Summary did not round-trip: %+v", loaded.Summary)
	}
}

func TestFileBackendSaveOverwrites(t *testing.T) {
	repo := NewConversionRepo(nil, t.TempDir())
	ctx := context.Background()

	result := sampleResult("run-1")
	if err := repo.Save(ctx, result); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	result.Summary.TotalAdjustments = 5
	if err := repo.Save(ctx, result); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := repo.Load(ctx, "run-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Summary.TotalAdjustments != 5 {
		t.Errorf("Expected overwrite, got %d", loaded.Summary.TotalAdjustments)
	}
}

func TestFileBackendLoadMissing(t *testing.T) {
	repo := NewConversionRepo(nil, t.TempDir())
	if _, err := repo.Load(context.Background(), "nope"); err == nil {
		t.Error("Expected error for missing run")
	}
}

func TestFileBackendList(t *testing.T) {
	repo := NewConversionRepo(nil, t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Save(ctx, sampleResult(id)); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}

	summaries, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Errorf("Expected limit of 2, got %d", len(summaries))
	}
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gaap_bridge/pkg/core/accounting"
)

// ConversionRepository stores finished conversion results keyed by run ID.
type ConversionRepository interface {
	Save(ctx context.Context, result *accounting.ConversionResult) error
	Load(ctx context.Context, runID string) (*accounting.ConversionResult, error)
	List(ctx context.Context, limit int) ([]accounting.Summary, error)
}

// ConversionRepo is the hybrid implementation: DB (primary) with a file
// fallback when no pool is configured.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS conversion_runs (
//	  run_id TEXT PRIMARY KEY,
//	  source_standard TEXT,
//	  target_standard TEXT,
//	  result_json JSONB,
//	  created_at TIMESTAMPTZ
//	);
type ConversionRepo struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewConversionRepo creates a repository. A nil pool switches to the file
// backend; an empty dir defaults to .cache/conversions.
func NewConversionRepo(pool *pgxpool.Pool, dir string) *ConversionRepo {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "conversions")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check conversion cache dir: %v\n", err)
		}
	}
	return &ConversionRepo{pool: pool, fileDir: dir}
}

// Save upserts one conversion result by run ID.
func (r *ConversionRepo) Save(ctx context.Context, result *accounting.ConversionResult) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal conversion result: %w", err)
	}

	if r.pool != nil {
		query := `
			INSERT INTO conversion_runs (run_id, source_standard, target_standard, result_json, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (run_id)
			DO UPDATE SET
				source_standard = EXCLUDED.source_standard,
				target_standard = EXCLUDED.target_standard,
				result_json = EXCLUDED.result_json,
				created_at = EXCLUDED.created_at;
		`
		_, err = r.pool.Exec(ctx, query, result.RunID,
			string(result.Summary.SourceStandard), string(result.Summary.TargetStandard),
			jsonData, time.Now())
		if err != nil {
			return fmt.Errorf("failed to save conversion run: %w", err)
		}
		return nil
	}

	path := r.filePath(result.RunID)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write conversion file: %w", err)
	}
	return nil
}

// Load retrieves one conversion result by run ID.
func (r *ConversionRepo) Load(ctx context.Context, runID string) (*accounting.ConversionResult, error) {
	var jsonData []byte

	if r.pool != nil {
		query := `SELECT result_json FROM conversion_runs WHERE run_id = $1`
		err := r.pool.QueryRow(ctx, query, runID).Scan(&jsonData)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, fmt.Errorf("no conversion found for run %s", runID)
			}
			return nil, fmt.Errorf("failed to load conversion run: %w", err)
		}
	} else {
		data, err := os.ReadFile(r.filePath(runID))
		if err != nil {
			return nil, fmt.Errorf("no conversion found for run %s: %w", runID, err)
		}
		jsonData = data
	}

	var result accounting.ConversionResult
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversion result: %w", err)
	}
	return &result, nil
}

// List returns the summaries of the most recent runs, newest first.
func (r *ConversionRepo) List(ctx context.Context, limit int) ([]accounting.Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	if r.pool != nil {
		query := `
			SELECT result_json -> 'summary'
			FROM conversion_runs
			ORDER BY created_at DESC
			LIMIT $1
		`
		rows, err := r.pool.Query(ctx, query, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list conversion runs: %w", err)
		}
		defer rows.Close()

		var summaries []accounting.Summary
		for rows.Next() {
			var jsonData []byte
			if err := rows.Scan(&jsonData); err != nil {
				return nil, fmt.Errorf("failed to scan summary: %w", err)
			}
			var s accounting.Summary
			if err := json.Unmarshal(jsonData, &s); err != nil {
				return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
			}
			summaries = append(summaries, s)
		}
		return summaries, rows.Err()
	}

	entries, err := os.ReadDir(r.fileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion cache dir: %w", err)
	}

	var summaries []accounting.Summary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.fileDir, entry.Name()))
		if err != nil {
			continue
		}
		var result accounting.ConversionResult
		if err := json.Unmarshal(data, &result); err != nil {
			continue
		}
		summaries = append(summaries, result.Summary)
		if len(summaries) >= limit {
			break
		}
	}
	return summaries, nil
}

func (r *ConversionRepo) filePath(runID string) string {
	return filepath.Join(r.fileDir, runID+".json")
}

// Package store persists conversion results. Postgres is the primary
// backend with a JSON file fallback for local runs without a database.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB opens the shared Postgres pool for the conversion store from
// DATABASE_URL and verifies the connection. Callers treat an error as
// "no database": the repo then runs on the file backend.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("conversion store: DATABASE_URL is not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("conversion store: invalid DATABASE_URL: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return
		}
		if pingErr := pool.Ping(ctx); pingErr != nil {
			pool.Close()
			pool = nil
			err = fmt.Errorf("conversion store: database unreachable: %w", pingErr)
		}
	})
	return err
}

// GetPool returns the shared pool, nil when InitDB has not run or failed.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close releases the shared pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}

package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/skyshield-sim/skyshield/pkg/config"
)

//go:embed schema.sql
var schemaSQL embed.FS

// DB wraps a database connection with helper methods.
type DB struct {
	*sql.DB
	config config.DatabaseConfig
}

// Connect establishes a connection to the PostgreSQL database.
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		DB:     sqlDB,
		config: cfg,
	}

	return db, nil
}

// InitSchema creates or updates the database schema.
// This should be called once at application startup.
func (db *DB) InitSchema(ctx context.Context) error {
	schemaBytes, err := schemaSQL.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// CleanupOldRuns removes completed engagement runs older than maxAge,
// along with their snapshots. Should be called periodically to prevent
// unbounded growth.
func (db *DB) CleanupOldRuns(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge)

	_, err := db.ExecContext(ctx,
		`DELETE FROM engagement_runs WHERE completed_at IS NOT NULL AND completed_at < $1`,
		cutoff,
	)
	if err != nil {
		return fmt.Errorf("failed to delete old runs: %w", err)
	}

	// Orphaned snapshots from runs that never completed cleanly.
	snapshotCutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)
	_, err = db.ExecContext(ctx,
		`DELETE FROM engagement_snapshots
		 WHERE run_id IN (
		     SELECT id FROM engagement_runs
		     WHERE completed_at IS NULL AND started_at < $1
		 )`,
		snapshotCutoff,
	)
	if err != nil {
		return fmt.Errorf("failed to delete stale snapshots: %w", err)
	}

	return nil
}

// GetStats returns database statistics.
func (db *DB) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var scenarioCount int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scenarios`,
	).Scan(&scenarioCount)
	if err != nil {
		return nil, err
	}
	stats["scenarios"] = scenarioCount

	var activeRuns int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM engagement_runs WHERE completed_at IS NULL`,
	).Scan(&activeRuns)
	if err != nil {
		return nil, err
	}
	stats["active_runs"] = activeRuns

	var completedRuns int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM engagement_runs WHERE completed_at IS NOT NULL`,
	).Scan(&completedRuns)
	if err != nil {
		return nil, err
	}
	stats["completed_runs"] = completedRuns

	var snapshotCount int64
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM engagement_snapshots`,
	).Scan(&snapshotCount)
	if err != nil {
		return nil, err
	}
	stats["snapshot_records"] = snapshotCount

	return stats, nil
}

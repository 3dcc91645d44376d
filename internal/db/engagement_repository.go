package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/skyshield-sim/skyshield/pkg/engagement"
)

// EngagementRun represents one stored engagement run.
type EngagementRun struct {
	ID          int                `json:"id"`
	SessionID   string             `json:"session_id"`
	ScenarioID  *int               `json:"scenario_id,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	ElapsedS    float64            `json:"elapsed_s"`
	Success     *bool              `json:"success,omitempty"`
	Result      *engagement.Result `json:"result,omitempty"`
}

var (
	// ErrRunNotFound is returned when an engagement run cannot be found
	ErrRunNotFound = errors.New("engagement run not found")
)

// EngagementRepository provides methods for engagement run persistence.
type EngagementRepository struct {
	db *sql.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *sql.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// CreateRun records the start of an engagement run.
func (r *EngagementRepository) CreateRun(ctx context.Context, run *EngagementRun) error {
	query := `
		INSERT INTO engagement_runs (session_id, scenario_id)
		VALUES ($1, $2)
		RETURNING id, started_at
	`

	err := r.db.QueryRowContext(ctx, query, run.SessionID, run.ScenarioID).
		Scan(&run.ID, &run.StartedAt)
	if err != nil {
		return err
	}

	return nil
}

// CompleteRun stores the terminal result of a run.
func (r *EngagementRepository) CompleteRun(ctx context.Context, sessionID string, result engagement.Result) error {
	res, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		UPDATE engagement_runs
		SET completed_at = NOW(), elapsed_s = $1, success = $2, result = $3
		WHERE session_id = $4
	`

	out, err := r.db.ExecContext(ctx, query, result.ElapsedS, result.Success, res, sessionID)
	if err != nil {
		return err
	}

	rows, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}

// GetBySessionID retrieves a run by its session ID.
func (r *EngagementRepository) GetBySessionID(ctx context.Context, sessionID string) (*EngagementRun, error) {
	query := `
		SELECT id, session_id, scenario_id, started_at, completed_at, elapsed_s, success, result
		FROM engagement_runs
		WHERE session_id = $1
	`

	run := &EngagementRun{}
	var res []byte

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&run.ID,
		&run.SessionID,
		&run.ScenarioID,
		&run.StartedAt,
		&run.CompletedAt,
		&run.ElapsedS,
		&run.Success,
		&res,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	if res != nil {
		run.Result = &engagement.Result{}
		if err := json.Unmarshal(res, run.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
	}

	return run, nil
}

// ListRuns retrieves recent runs, newest first.
func (r *EngagementRepository) ListRuns(ctx context.Context, limit, offset int) ([]*EngagementRun, error) {
	query := `
		SELECT id, session_id, scenario_id, started_at, completed_at, elapsed_s, success, result
		FROM engagement_runs
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*EngagementRun
	for rows.Next() {
		run := &EngagementRun{}
		var res []byte
		err := rows.Scan(
			&run.ID,
			&run.SessionID,
			&run.ScenarioID,
			&run.StartedAt,
			&run.CompletedAt,
			&run.ElapsedS,
			&run.Success,
			&res,
		)
		if err != nil {
			return nil, err
		}
		if res != nil {
			run.Result = &engagement.Result{}
			if err := json.Unmarshal(res, run.Result); err != nil {
				return nil, fmt.Errorf("failed to unmarshal result: %w", err)
			}
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// AddSnapshot appends one per-step snapshot to a run's history.
func (r *EngagementRepository) AddSnapshot(ctx context.Context, runID, step int, snap engagement.Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO engagement_snapshots (run_id, step, time_s, state)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id, step) DO UPDATE SET time_s = $3, state = $4
	`

	_, err = r.db.ExecContext(ctx, query, runID, step, snap.TimeS, state)
	return err
}

// GetSnapshots retrieves a run's snapshot history in step order.
func (r *EngagementRepository) GetSnapshots(ctx context.Context, runID, limit, offset int) ([]engagement.Snapshot, error) {
	query := `
		SELECT state
		FROM engagement_snapshots
		WHERE run_id = $1
		ORDER BY step ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, runID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []engagement.Snapshot
	for rows.Next() {
		var state []byte
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		var snap engagement.Snapshot
		if err := json.Unmarshal(state, &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return snaps, nil
}

// Package db provides database access for SkyShield.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/skyshield-sim/skyshield/pkg/config"
)

// Scenario represents a stored scenario definition.
type Scenario struct {
	ID          int                   `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Definition  config.ScenarioConfig `json:"definition"`
	CreatedBy   *int                  `json:"created_by,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

var (
	// ErrScenarioNotFound is returned when a scenario cannot be found
	ErrScenarioNotFound = errors.New("scenario not found")
	// ErrScenarioExists is returned when a scenario name is already taken
	ErrScenarioExists = errors.New("scenario already exists")
)

// ScenarioRepository provides methods for scenario database operations.
type ScenarioRepository struct {
	db *sql.DB
}

// NewScenarioRepository creates a new scenario repository
func NewScenarioRepository(db *sql.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Create stores a new scenario definition.
func (r *ScenarioRepository) Create(ctx context.Context, s *Scenario) error {
	if err := s.Definition.Validate(); err != nil {
		return err
	}

	def, err := json.Marshal(s.Definition)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario definition: %w", err)
	}

	query := `
		INSERT INTO scenarios (name, description, definition, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		s.Name,
		s.Description,
		def,
		s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrScenarioExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a scenario by its ID.
func (r *ScenarioRepository) GetByID(ctx context.Context, id int) (*Scenario, error) {
	query := `
		SELECT id, name, description, definition, created_by, created_at, updated_at
		FROM scenarios
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a scenario by its unique name.
func (r *ScenarioRepository) GetByName(ctx context.Context, name string) (*Scenario, error) {
	query := `
		SELECT id, name, description, definition, created_by, created_at, updated_at
		FROM scenarios
		WHERE name = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *ScenarioRepository) scanOne(row *sql.Row) (*Scenario, error) {
	s := &Scenario{}
	var def []byte

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&def,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrScenarioNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(def, &s.Definition); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario definition: %w", err)
	}

	return s, nil
}

// Update replaces a scenario's definition and description.
func (r *ScenarioRepository) Update(ctx context.Context, s *Scenario) error {
	if err := s.Definition.Validate(); err != nil {
		return err
	}

	def, err := json.Marshal(s.Definition)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario definition: %w", err)
	}

	query := `
		UPDATE scenarios
		SET name = $1, description = $2, definition = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.Description, def, s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrScenarioExists
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrScenarioNotFound
	}

	return nil
}

// Delete removes a scenario.
func (r *ScenarioRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrScenarioNotFound
	}

	return nil
}

// List retrieves stored scenarios, newest first.
func (r *ScenarioRepository) List(ctx context.Context, limit, offset int) ([]*Scenario, error) {
	query := `
		SELECT id, name, description, definition, created_by, created_at, updated_at
		FROM scenarios
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []*Scenario
	for rows.Next() {
		s := &Scenario{}
		var def []byte
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&def,
			&s.CreatedBy,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(def, &s.Definition); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scenario definition: %w", err)
		}
		scenarios = append(scenarios, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return scenarios, nil
}

// Package store provides storage backends for healthbot user state.
//
// This file implements a PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/leadfirst/healthbot/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")
	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	// Configure connection pool for better performance
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	// Run migrations to ensure the user_states table exists
	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

// GetUserState retrieves the state record for a user, or nil when absent.
func (s *PostgresStore) GetUserState(userID string) (*models.UserState, error) {
	query := `SELECT user_id, name, id_number, tel, step_type, step, err_count, registered, created_at, updated_at
			  FROM user_states WHERE user_id = $1`

	state, err := scanUserState(s.db.QueryRow(query, userID))
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetUserState not found", "userID", userID)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetUserState failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query user state for %s: %w", userID, err)
	}
	slog.Debug("PostgresStore GetUserState found", "userID", userID, "stepType", state.StepType, "step", state.Step)
	return state, nil
}

// SaveUserState stores or updates the state record for a user.
func (s *PostgresStore) SaveUserState(state models.UserState) error {
	query := `
		INSERT INTO user_states (user_id, name, id_number, tel, step_type, step, err_count, registered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name, id_number = EXCLUDED.id_number, tel = EXCLUDED.tel,
			step_type = EXCLUDED.step_type, step = EXCLUDED.step, err_count = EXCLUDED.err_count,
			registered = EXCLUDED.registered, updated_at = EXCLUDED.updated_at`

	_, err := s.db.Exec(query, state.UserID, nilIfEmpty(state.Name), nilIfEmpty(state.IDNumber), nilIfEmpty(state.Tel),
		string(state.StepType), state.Step, state.ErrCount, state.Registered, state.CreatedAt, state.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveUserState failed", "error", err, "userID", state.UserID)
		return fmt.Errorf("failed to save user state for %s: %w", state.UserID, err)
	}
	slog.Debug("PostgresStore SaveUserState succeeded", "userID", state.UserID, "stepType", state.StepType, "step", state.Step)
	return nil
}

// DeleteUserState removes the state record for a user.
func (s *PostgresStore) DeleteUserState(userID string) error {
	_, err := s.db.Exec(`DELETE FROM user_states WHERE user_id = $1`, userID)
	if err != nil {
		slog.Error("PostgresStore DeleteUserState failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to delete user state for %s: %w", userID, err)
	}
	slog.Debug("PostgresStore DeleteUserState succeeded", "userID", userID)
	return nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}

// Package store provides storage backends for healthbot user state.
//
// This file implements an SQLite-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/leadfirst/healthbot/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	// Ensure the directory exists
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	// Run migrations to ensure the user_states table exists
	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// GetUserState retrieves the state record for a user, or nil when absent.
func (s *SQLiteStore) GetUserState(userID string) (*models.UserState, error) {
	query := `SELECT user_id, name, id_number, tel, step_type, step, err_count, registered, created_at, updated_at
			  FROM user_states WHERE user_id = ?`

	state, err := scanUserState(s.db.QueryRow(query, userID))
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetUserState not found", "userID", userID)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetUserState failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query user state for %s: %w", userID, err)
	}
	slog.Debug("SQLiteStore GetUserState found", "userID", userID, "stepType", state.StepType, "step", state.Step)
	return state, nil
}

// SaveUserState stores or updates the state record for a user.
func (s *SQLiteStore) SaveUserState(state models.UserState) error {
	query := `
		INSERT OR REPLACE INTO user_states (user_id, name, id_number, tel, step_type, step, err_count, registered, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query, state.UserID, nilIfEmpty(state.Name), nilIfEmpty(state.IDNumber), nilIfEmpty(state.Tel),
		string(state.StepType), state.Step, state.ErrCount, state.Registered, state.CreatedAt, state.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveUserState failed", "error", err, "userID", state.UserID)
		return fmt.Errorf("failed to save user state for %s: %w", state.UserID, err)
	}
	slog.Debug("SQLiteStore SaveUserState succeeded", "userID", state.UserID, "stepType", state.StepType, "step", state.Step)
	return nil
}

// DeleteUserState removes the state record for a user.
func (s *SQLiteStore) DeleteUserState(userID string) error {
	_, err := s.db.Exec(`DELETE FROM user_states WHERE user_id = ?`, userID)
	if err != nil {
		slog.Error("SQLiteStore DeleteUserState failed", "error", err, "userID", userID)
		return fmt.Errorf("failed to delete user state for %s: %w", userID, err)
	}
	slog.Debug("SQLiteStore DeleteUserState succeeded", "userID", userID)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}

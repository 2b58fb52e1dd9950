package store

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/leadfirst/healthbot/internal/models"
)

func sampleState(userID string) models.UserState {
	now := time.Now().Truncate(time.Second)
	return models.UserState{
		UserID:     userID,
		Name:       "Alice",
		IDNumber:   "A123456789",
		Tel:        "0912345678",
		StepType:   models.StepTypeNewMember,
		Step:       4,
		ErrCount:   1,
		Registered: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// roundTrip exercises the Store contract against any backend: save, reload,
// field equality, then delete.
func roundTrip(t *testing.T, s Store) {
	t.Helper()

	state := sampleState("U123")
	if err := s.SaveUserState(state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.GetUserState("U123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected state, got nil")
	}
	if got.UserID != state.UserID || got.Name != state.Name || got.IDNumber != state.IDNumber ||
		got.Tel != state.Tel || got.StepType != state.StepType || got.Step != state.Step ||
		got.ErrCount != state.ErrCount || got.Registered != state.Registered {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, state)
	}

	// Updates must overwrite, not duplicate.
	state.Step = 0
	state.StepType = models.StepTypeNone
	if err := s.SaveUserState(state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = s.GetUserState("U123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StepType != models.StepTypeNone || got.Step != 0 {
		t.Errorf("update not applied: got %+v", got)
	}

	if err := s.DeleteUserState("U123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = s.GetUserState("U123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestInMemoryStore(t *testing.T) {
	s := NewInMemoryStore()
	defer s.Close()

	got, err := s.GetUserState("unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown user, got %+v", got)
	}

	roundTrip(t, s)
}

func TestInMemoryStoreIsolation(t *testing.T) {
	s := NewInMemoryStore()
	defer s.Close()

	state := sampleState("U1")
	if err := s.SaveUserState(state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	state.Name = "Mallory"
	got, err := s.GetUserState("U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("stored state aliased caller's copy: got name %q", got.Name)
	}
}

func TestSQLiteStore(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "healthbot.db")
	s, err := NewSQLiteStore(WithDSN(dsn))
	if err != nil {
		t.Fatalf("failed to create SQLite store: %v", err)
	}
	defer s.Close()

	roundTrip(t, s)
}

func TestPostgresStore(t *testing.T) {
	// This test requires a running PostgreSQL instance.
	// Set the DATABASE_URL environment variable for the connection string.
	connStr := getenvOrSkip(t, "DATABASE_URL")
	s, err := NewPostgresStore(WithDSN(connStr))
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	defer s.Close()
	s.db.Exec("DELETE FROM user_states")

	roundTrip(t, s)
}

func TestNewStoreSelection(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*InMemoryStore); !ok {
		t.Errorf("empty DSN should select in-memory store, got %T", s)
	}

	s, err = NewStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("file DSN should select SQLite store, got %T", s)
	}
	s.Close()
}

func getenvOrSkip(t *testing.T, key string) string {
	v := ""
	if val, ok := syscall.Getenv(key); ok {
		v = val
	}
	if v == "" {
		t.Skipf("env %s not set", key)
	}
	return v
}

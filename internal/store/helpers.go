package store

import (
	"database/sql"

	"github.com/leadfirst/healthbot/internal/models"
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scanUserState scans a UserState from a single sql.Row.
func scanUserState(row *sql.Row) (*models.UserState, error) {
	var state models.UserState
	var name, idNumber, tel sql.NullString
	var stepType string
	err := row.Scan(
		&state.UserID, &name, &idNumber, &tel, &stepType,
		&state.Step, &state.ErrCount, &state.Registered, &state.CreatedAt, &state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	state.Name = name.String
	state.IDNumber = idNumber.String
	state.Tel = tel.String
	state.StepType = models.StepType(stepType)
	return &state, nil
}

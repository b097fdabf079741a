package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/talentmatrix/internal/types"
)

// Setting keys.
const (
	KeyUserID     = "user_id"
	KeyTheme      = "theme"
	KeySignupData = "signup_data"
)

// UserID returns the persisted session user id, or "" when logged out.
func (db *DB) UserID(ctx context.Context) (types.ID, error) {
	v, _, err := db.Get(ctx, KeyUserID)
	return types.ID(v), err
}

// SetUserID persists the session user id.
func (db *DB) SetUserID(ctx context.Context, id types.ID) error {
	if id.IsZero() {
		return fmt.Errorf("refusing to persist empty user id")
	}
	return db.Set(ctx, KeyUserID, id.String())
}

// ClearUserID removes the persisted session.
func (db *DB) ClearUserID(ctx context.Context) error {
	return db.Delete(ctx, KeyUserID)
}

// Theme returns the stored theme, defaulting to light. An unrecognised stored
// value also yields light.
func (db *DB) Theme(ctx context.Context) (types.Theme, error) {
	v, ok, err := db.Get(ctx, KeyTheme)
	if err != nil || !ok {
		return types.ThemeLight, err
	}
	theme, perr := types.ParseTheme(v)
	if perr != nil {
		return types.ThemeLight, nil
	}
	return theme, nil
}

// SetTheme persists the theme as a plain string.
func (db *DB) SetTheme(ctx context.Context, theme types.Theme) error {
	if _, err := types.ParseTheme(string(theme)); err != nil {
		return err
	}
	return db.Set(ctx, KeyTheme, string(theme))
}

// SignupData returns the pending signup hand-off. ok is false when there is none.
func (db *DB) SignupData(ctx context.Context) (rec types.SignupRecord, ok bool, err error) {
	v, ok, err := db.Get(ctx, KeySignupData)
	if err != nil || !ok {
		return types.SignupRecord{}, false, err
	}
	if !json.Valid([]byte(v)) {
		return types.SignupRecord{}, false, fmt.Errorf("stored signup data is not valid JSON")
	}
	return types.SignupRecord{Raw: json.RawMessage(v)}, true, nil
}

// SetSignupData stores the signup record until the placement step completes.
func (db *DB) SetSignupData(ctx context.Context, rec types.SignupRecord) error {
	if !json.Valid(rec.Raw) {
		return fmt.Errorf("signup data is not valid JSON")
	}
	return db.Set(ctx, KeySignupData, string(rec.Raw))
}

// ClearSignupData removes the hand-off.
func (db *DB) ClearSignupData(ctx context.Context) error {
	return db.Delete(ctx, KeySignupData)
}

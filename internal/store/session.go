package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

// SessionState is the authentication slice.
type SessionState struct {
	UserID   types.ID `json:"userId"`
	LoggedIn bool     `json:"loggedIn"`
	Login    OpState  `json:"login"`
	Signup   OpState  `json:"signup"`
}

// Session owns login, logout and the two-step registration.
type Session struct {
	slice     *Slice[SessionState]
	gw        Gateway
	db        StateDB
	logger    *slog.Logger
	resetters []resetter
}

func newSession(deps Deps) *Session {
	return &Session{
		slice:  NewSlice("session", SessionState{}, nil, deps.Logger),
		gw:     deps.Gateway,
		db:     deps.DB,
		logger: deps.Logger,
	}
}

// State returns a copy of the session slice.
func (s *Session) State() SessionState {
	return s.slice.Get()
}

// Subscribe forwards to the underlying slice.
func (s *Session) Subscribe(buffer int) (<-chan Change, func()) {
	return s.slice.Subscribe(buffer)
}

// UserID returns the logged-in user's id, or "" when logged out.
func (s *Session) UserID() types.ID {
	return s.slice.Get().UserID
}

// LoggedIn reports whether a session is active.
func (s *Session) LoggedIn() bool {
	return s.slice.Get().LoggedIn
}

// Restore loads the persisted user id, if any, and reports whether a
// session is now active.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	id, err := s.db.UserID(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read persisted session: %w", err)
	}
	if id.IsZero() {
		return false, nil
	}
	s.slice.Update("restore", func(st *SessionState) {
		st.UserID = id
		st.LoggedIn = true
	})
	return true, nil
}

// Login authenticates, persists the returned user id and marks the session
// logged in.
func (s *Session) Login(ctx context.Context, req types.LoginRequest) (types.ID, error) {
	if err := req.Validate(); err != nil {
		s.slice.Update("login", func(st *SessionState) { st.Login = failed(err.Error()) })
		return "", err
	}

	t := s.slice.Begin("login", func(st *SessionState) { st.Login = loading() })
	id, err := s.gw.Login(ctx, req)
	if err != nil {
		authErr := &AuthError{Message: gateway.ServerMessage(err, "Login failed"), Cause: err}
		s.slice.Commit(t, func(st *SessionState) { st.Login = failed(authErr.Message) })
		return "", authErr
	}
	if err := s.db.SetUserID(ctx, id); err != nil {
		s.slice.Commit(t, func(st *SessionState) { st.Login = failed("Login failed") })
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	s.slice.Commit(t, func(st *SessionState) {
		st.UserID = id
		st.LoggedIn = true
		st.Login = succeeded()
	})
	s.logger.Info("logged in", "user_id", id)
	return id, nil
}

// Logout removes the persisted id and resets every store so no in-flight
// response can repopulate them.
func (s *Session) Logout(ctx context.Context) error {
	err := s.db.ClearUserID(ctx)
	s.slice.Reset(SessionState{})
	for _, r := range s.resetters {
		r.reset()
	}
	if err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// Signup creates the account and keeps the created record as the pending
// placement hand-off.
func (s *Session) Signup(ctx context.Context, req types.SignupRequest) (types.SignupRecord, error) {
	if err := req.Validate(); err != nil {
		s.slice.Update("signup", func(st *SessionState) { st.Signup = failed(err.Error()) })
		return types.SignupRecord{}, err
	}

	t := s.slice.Begin("signup", func(st *SessionState) { st.Signup = loading() })
	rec, err := s.gw.Signup(ctx, req)
	if err != nil {
		authErr := &AuthError{Message: gateway.ServerMessage(err, "Signup failed"), Cause: err}
		s.slice.Commit(t, func(st *SessionState) { st.Signup = failed(authErr.Message) })
		return types.SignupRecord{}, authErr
	}
	if err := s.db.SetSignupData(ctx, rec); err != nil {
		s.slice.Commit(t, func(st *SessionState) { st.Signup = failed("Signup failed") })
		return types.SignupRecord{}, fmt.Errorf("failed to store signup record: %w", err)
	}

	s.slice.Commit(t, func(st *SessionState) { st.Signup = succeeded() })
	return rec, nil
}

// CompletePlacement submits the academic details for the pending signup and
// clears the hand-off on success.
func (s *Session) CompletePlacement(ctx context.Context, req types.PlacementRequest) error {
	fail := func(err error) error {
		s.slice.Update("placement", func(st *SessionState) { st.Signup = failed(gateway.Message(err)) })
		return err
	}

	rec, ok, err := s.db.SignupData(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to read signup record: %w", err))
	}
	if !ok {
		return fail(&types.ValidationError{Field: "signup", Message: "no pending signup; run signup first"})
	}
	userID := rec.UserID()
	if userID.IsZero() {
		return fail(&types.ValidationError{Field: "signup", Message: "signup record carries no user id"})
	}
	if req.FullName == "" {
		req.FullName = rec.FullName()
	}
	if err := req.Validate(); err != nil {
		return fail(err)
	}
	if !slices.Contains(parsing.SemestersForYear(req.Year), req.Semester) {
		return fail(&types.ValidationError{
			Field:   "Semester",
			Message: fmt.Sprintf("semester %s is not offered in year %s", req.Semester, req.Year),
		})
	}
	grades, err := parsing.PlacementGrades(req.Semester, req.Grades)
	if err != nil {
		return fail(err)
	}

	t := s.slice.Begin("placement", func(st *SessionState) { st.Signup = loading() })
	if err := s.gw.SubmitPlacement(ctx, userID, req, grades); err != nil {
		msg := gateway.ServerMessage(err, "Placement submission failed")
		s.slice.Commit(t, func(st *SessionState) { st.Signup = failed(msg) })
		return err
	}
	if err := s.db.ClearSignupData(ctx); err != nil {
		s.logger.Warn("failed to clear signup record", "error", err)
	}
	s.slice.Commit(t, func(st *SessionState) { st.Signup = succeeded() })
	s.logger.Info("placement details submitted", "user_id", userID)
	return nil
}

package store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentmatrix/internal/types"
)

func TestSession_Login(t *testing.T) {
	h := newHarness(t)
	h.api.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "a@b.com", body["Email"])
		assert.Equal(t, "x", body["Password"])
		writeJSON(w, http.StatusOK, `{"user":{"id":"42"}}`)
	})

	id, err := h.store.Session.Login(context.Background(), types.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, types.ID("42"), id)
	assert.True(t, h.store.Session.LoggedIn())
	assert.Equal(t, StatusSucceeded, h.store.Session.State().Login.Status)

	persisted, err := h.state.UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ID("42"), persisted)
}

func TestSession_LoginNumericID(t *testing.T) {
	h := newHarness(t)
	h.api.HandleFunc("POST /api/login", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"user":{"id":7}}`)
	})

	id, err := h.store.Session.Login(context.Background(), types.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, types.ID("7"), id)
}

func TestSession_LoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"gateway message", http.StatusUnauthorized, `{"error":"Invalid credentials"}`, "Invalid credentials"},
		{"no message", http.StatusInternalServerError, ``, "Login failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.api.HandleFunc("POST /api/login", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := h.store.Session.Login(context.Background(), types.LoginRequest{Email: "a@b.com", Password: "bad"})
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantMsg, authErr.Message)
			assert.False(t, h.store.Session.LoggedIn())
			assert.Equal(t, tt.wantMsg, h.store.Session.State().Login.Error)

			persisted, err := h.state.UserID(context.Background())
			require.NoError(t, err)
			assert.True(t, persisted.IsZero())
		})
	}
}

func TestSession_LoginValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.store.Session.Login(context.Background(), types.LoginRequest{Email: "a@b.com"})
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Password", vErr.Field)
	assert.Empty(t, h.requestLog(), "validation failures must not reach the Gateway")
	assert.Equal(t, StatusFailed, h.store.Session.State().Login.Status)
}

func TestSession_LogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.api.HandleFunc("GET /api/signup/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":42,"full_name":"Asha","gpa_sem_1":"8.0"}`)
	})
	h.api.HandleFunc("GET /api/signup/42/skills", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":1,"skill_name":"Go","proficiency":"Expert"}]`)
	})
	h.api.HandleFunc("GET /api/projects/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	h.login(t, "42")
	require.NoError(t, h.store.Profile.Fetch(ctx, h.store.Session.UserID()))
	require.Equal(t, "Asha", h.store.Profile.Get().Name)
	h.store.Jobs.SetQuery("go")

	require.NoError(t, h.store.Session.Logout(ctx))

	assert.False(t, h.store.Session.LoggedIn())
	assert.Equal(t, types.EmptyProfile(), h.store.Profile.Get())
	assert.Empty(t, h.store.Jobs.State().Criteria.Query)
	persisted, err := h.state.UserID(ctx)
	require.NoError(t, err)
	assert.True(t, persisted.IsZero())

	h.resetRequests()
	err = h.store.Profile.Fetch(ctx, h.store.Session.UserID())
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Empty(t, h.requestLog(), "no profile request may be issued without a session")
}

func TestSession_LogoutDropsInFlightProfile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	arrived := make(chan struct{})
	release := make(chan struct{})
	h.api.HandleFunc("GET /api/signup/42", func(w http.ResponseWriter, _ *http.Request) {
		close(arrived)
		<-release
		writeJSON(w, http.StatusOK, `{"id":42,"full_name":"Asha"}`)
	})
	h.api.HandleFunc("GET /api/signup/42/skills", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	h.api.HandleFunc("GET /api/projects/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	h.login(t, "42")

	done := make(chan error, 1)
	go func() { done <- h.store.Profile.Fetch(ctx, "42") }()
	<-arrived
	require.NoError(t, h.store.Session.Logout(ctx))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, types.EmptyProfile(), h.store.Profile.Get())
}

func TestSession_Restore(t *testing.T) {
	h := newHarness(t)

	ok, err := h.store.Session.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	h.login(t, "9")
	assert.Equal(t, types.ID("9"), h.store.Session.UserID())
}

func TestSession_SignupAndPlacement(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.api.HandleFunc("POST /api/signup", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "Asha Rao", body["FullName"])
		writeJSON(w, http.StatusCreated, `{"newUser":{"_id":"u-1","FullName":"Asha Rao"}}`)
	})
	var gotFields map[string]string
	h.api.HandleFunc("POST /api/placement", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		f, _, err := r.FormFile("resumeUpload")
		require.NoError(t, err)
		content, _ := io.ReadAll(f)
		assert.Equal(t, "pdf-bytes", string(content))
		writeJSON(w, http.StatusOK, `{"message":"ok"}`)
	})

	_, err := h.store.Session.Signup(ctx, types.SignupRequest{FullName: "Asha Rao", Email: "asha@example.com", Password: "pw"})
	require.NoError(t, err)
	_, ok, err := h.state.SignupData(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	err = h.store.Session.CompletePlacement(ctx, types.PlacementRequest{
		RollNumber: "R1",
		Year:       "2",
		Semester:   "3",
		Grades:     map[string]string{"gpa_sem_1": "8.1", "gpa_sem_2": "", "gpa_sem_3": "7.5", "gpa_sem_4": "9.9"},
		Resume:     &types.FileUpload{Name: "cv.pdf", ContentType: "application/pdf", Body: strings.NewReader("pdf-bytes")},
	})
	require.NoError(t, err)

	assert.Equal(t, "u-1", gotFields["userId"])
	assert.Equal(t, "Asha Rao", gotFields["FullName"])
	assert.Equal(t, "8.1", gotFields["gpa_sem_1"])
	assert.Equal(t, "7.5", gotFields["gpa_sem_3"])
	assert.NotContains(t, gotFields, "gpa_sem_2")
	assert.NotContains(t, gotFields, "gpa_sem_4", "grades above the current semester are dropped")

	_, ok, err = h.state.SignupData(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "hand-off is cleared after placement")
}

func TestSession_PlacementRejectsSemesterOutsideYear(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.state.SetSignupData(ctx, types.SignupRecord{Raw: []byte(`{"id":"u-1"}`)}))

	err := h.store.Session.CompletePlacement(ctx, types.PlacementRequest{
		FullName:   "Asha",
		RollNumber: "R1",
		Year:       "1",
		Semester:   "5",
		Resume:     &types.FileUpload{Name: "cv.pdf", Body: strings.NewReader("x")},
	})
	var vErr *types.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Semester", vErr.Field)
	assert.Empty(t, h.requestLog())
}

func TestSession_PlacementWithoutSignup(t *testing.T) {
	h := newHarness(t)

	err := h.store.Session.CompletePlacement(context.Background(), types.PlacementRequest{})
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "signup", vErr.Field)
}

package server

import (
	"net/http"

	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

// ---------------------------------------------------------------------
// Profile Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Profile.State())
}

// handleRefreshProfile reloads the profile, then enriches it and loads the
// applied jobs. Enrichment failures are recorded on the slice, not returned.
func (s *Server) handleRefreshProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.Profile.Fetch(ctx, s.store.Session.UserID()); err != nil {
		s.storeError(w, err)
		return
	}
	if err := s.store.Profile.Enrich(ctx); err != nil {
		s.logger.Warn("profile enrichment failed", "error", err)
	}
	if err := s.store.Profile.LoadAppliedJobs(ctx); err != nil {
		s.logger.Warn("loading applied jobs failed", "error", err)
	}
	s.jsonResponse(w, http.StatusOK, s.store.Profile.State())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if !s.decodeJSON(w, r, &fields) {
		return
	}
	if len(fields) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if err := s.store.Profile.UpdateFields(r.Context(), fields); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Profile.Get())
}

// AddSemesterRequest is the body of POST /profile/semesters.
type AddSemesterRequest struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

func (s *Server) handleAddSemester(w http.ResponseWriter, r *http.Request) {
	var req AddSemesterRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := s.store.Profile.AddSemester(req.Name, req.Grade); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"semesters": s.store.Profile.Get().Semesters,
	})
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var draft types.SkillDraft
	if !s.decodeJSON(w, r, &draft) {
		return
	}
	if draft.Proficiency == "" {
		draft.Proficiency = types.ProficiencyBeginner
	}
	level, err := parsing.NormalizeProficiency(string(draft.Proficiency))
	if err != nil {
		s.storeError(w, err)
		return
	}
	draft.Proficiency = level
	skill, err := s.store.Profile.AddSkill(r.Context(), draft)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, skill)
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "Invalid skill ID")
	if !ok {
		return
	}
	if err := s.store.Profile.DeleteSkill(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	var draft types.ProjectDraft
	if !s.decodeJSON(w, r, &draft) {
		return
	}
	project, err := s.store.Profile.AddProject(r.Context(), draft)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "Invalid project ID")
	if !ok {
		return
	}
	if err := s.store.Profile.DeleteProject(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, invalid string) (types.ID, bool) {
	id := types.ID(r.PathValue("id"))
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, invalid)
		return "", false
	}
	return id, true
}

// ---------------------------------------------------------------------
// Session Handlers
// ---------------------------------------------------------------------

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Session.Logout(r.Context()); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"logged_in": false})
}

// ---------------------------------------------------------------------
// Settings Handlers
// ---------------------------------------------------------------------

// ThemeRequest is the body of PUT /settings/theme.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	theme, err := s.settings.Theme(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]types.Theme{"theme": theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	theme, err := types.ParseTheme(req.Theme)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if err := s.settings.SetTheme(r.Context(), theme); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]types.Theme{"theme": theme})
}

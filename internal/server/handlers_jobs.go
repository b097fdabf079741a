package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/types"
)

// ---------------------------------------------------------------------
// Job Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetJobs(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Jobs.State())
}

// handleSearchJobs runs a search with the posted criteria. With ?auto=1 the
// query is seeded from the profile's skills instead.
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("auto") == "1" {
		if err := s.store.Jobs.AutoSearch(r.Context(), s.store.Profile.Get()); err != nil {
			s.storeError(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, s.store.Jobs.State())
		return
	}

	var criteria types.SearchCriteria
	if !s.decodeJSON(w, r, &criteria) {
		return
	}
	if _, err := s.store.Jobs.Search(r.Context(), criteria); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Jobs.State())
}

// handleSaveJob saves a search result as applied. A job saved before is
// reported as 409 and stays in the local list.
func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	var job types.Job
	if !s.decodeJSON(w, r, &job) {
		return
	}
	if job.JobURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "jobUrl is required")
		return
	}

	err := s.store.Profile.SaveJob(r.Context(), job)
	var conflict *gateway.ConflictError
	switch {
	case errors.As(err, &conflict):
		s.errorResponse(w, http.StatusConflict, s.store.Profile.State().Warning)
	case err != nil:
		s.storeError(w, err)
	default:
		s.jsonResponse(w, http.StatusCreated, s.store.Profile.Get().AppliedJobs)
	}
}

func (s *Server) handleListAppliedJobs(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Profile.LoadAppliedJobs(r.Context()); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Profile.Get().AppliedJobs)
}

package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/talentmatrix/internal/store"
)

// ---------------------------------------------------------------------
// Books and Analysis Handlers
// ---------------------------------------------------------------------

// handleBooks searches ?query=, defaulting to the profile's first skill.
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		query = store.DefaultBookQuery(s.store.Profile.Get())
	}
	if _, err := s.store.Books.Search(r.Context(), query); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Books.State())
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.store.Analysis.Companies(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, companies)
}

func (s *Server) handleAnalyzeCareer(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.Analysis.AnalyzeCareer(r.Context(), s.store.Profile.Get())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// AnalyzeCompanyRequest is the body of POST /analysis/company.
type AnalyzeCompanyRequest struct {
	Company string `json:"company"`
}

func (s *Server) handleAnalyzeCompany(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeCompanyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	analysis, err := s.store.Analysis.AnalyzeCompany(r.Context(), s.store.Profile.Get(), req.Company)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

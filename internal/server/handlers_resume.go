package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/talentmatrix/internal/store"
	"github.com/jonathan/talentmatrix/internal/types"
)

// maxResumeBytes bounds multipart resume uploads.
const maxResumeBytes = 10 << 20

// ---------------------------------------------------------------------
// Resume Scan Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetResume(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Resume.State())
}

// handleScanResume scans the multipart "file" part when present, else the
// resume already stored on the profile.
func (s *Server) handleScanResume(w http.ResponseWriter, r *http.Request) {
	var src store.ScanSource

	r.Body = http.MaxBytesReader(w, r.Body, maxResumeBytes)
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/pdf"
		}
		src.File = &types.FileUpload{Name: header.Filename, ContentType: contentType, Body: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		src.StoredURL = s.store.Profile.Get().ResumeRemoteURL
	default:
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume upload")
		return
	}

	if _, err := s.store.Resume.Scan(r.Context(), src); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Resume.State())
}

func (s *Server) handleToggleRaw(w http.ResponseWriter, _ *http.Request) {
	raw := s.store.Resume.ToggleRawView()
	s.jsonResponse(w, http.StatusOK, map[string]bool{"showRaw": raw})
}

// handleApplySkills adds the scanned skills to the profile.
func (s *Server) handleApplySkills(w http.ResponseWriter, r *http.Request) {
	result := s.store.Resume.State().ParsedSkills
	if result == nil {
		s.errorResponse(w, http.StatusBadRequest, "No scanned resume to apply")
		return
	}
	added, err := store.ApplyExtractedSkills(r.Context(), result, s.store.Profile)
	resp := map[string]any{"added": added}
	if err != nil {
		if added == 0 {
			s.storeError(w, err)
			return
		}
		resp["error"] = ErrorMessage(err)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

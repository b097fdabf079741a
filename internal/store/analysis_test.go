package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentmatrix/internal/types"
)

func analysisProfile() types.UserProfile {
	p := types.EmptyProfile()
	p.Name = "Asha Rao"
	p.LeetcodeURL = "https://leetcode.com/u/asharao/"
	p.ResumeRemoteURL = "https://files/cv.pdf"
	return p
}

func TestAnalysis_Companies(t *testing.T) {
	h := newHarness(t)
	h.api.HandleFunc("GET /api/ai/companies", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"company":"Acme","role":"SDE","skills":["Go"]}]}`)
	})

	companies, err := h.store.Analysis.Companies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.TargetCompany{{Company: "Acme", Role: "SDE", Skills: []string{"Go"}}}, companies)
	assert.Equal(t, companies, h.store.Analysis.State().Companies)
}

func TestAnalysis_CompaniesFailure(t *testing.T) {
	h := newHarness(t)
	h.api.HandleFunc("GET /api/ai/companies", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false}`)
	})

	_, err := h.store.Analysis.Companies(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to load company list.", h.store.Analysis.State().CompaniesStatus.Error)
}

func TestAnalysis_CareerRequiresResume(t *testing.T) {
	h := newHarness(t)
	p := analysisProfile()
	p.ResumeRemoteURL = ""

	_, err := h.store.Analysis.AnalyzeCareer(context.Background(), p)
	require.Error(t, err)
	assert.Equal(t, MissingResumeMessage, h.store.Analysis.State().CareerStatus.Error)
	assert.Empty(t, h.requestLog())
}

func TestAnalysis_CareerRequestBody(t *testing.T) {
	h := newHarness(t)
	h.api.HandleFunc("POST /api/ai/analyze-career", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, map[string]any{
			"username":         "asharao",
			"leetcodeUsername": "asharao",
			"resumeUrl":        "https://files/cv.pdf",
		}, body)
		writeJSON(w, http.StatusOK, `{"success":true,"jobs_found_count":1,"analysis":{"job_analyses":[{"role":"SDE","company":"Acme","match_percentage":85}]}}`)
	})

	report, err := h.store.Analysis.AnalyzeCareer(context.Background(), analysisProfile())
	require.NoError(t, err)
	require.Len(t, report.Analysis.JobAnalyses, 1)
	assert.Equal(t, types.MatchHigh, report.Analysis.JobAnalyses[0].MatchPercentage.Band())
	assert.Equal(t, StatusSucceeded, h.store.Analysis.State().CareerStatus.Status)
}

func TestAnalysis_CareerFailureMessage(t *testing.T) {
	h := newHarness(t)
	h.api.HandleFunc("POST /api/ai/analyze-career", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"error":"No jobs found"}`)
	})

	_, err := h.store.Analysis.AnalyzeCareer(context.Background(), analysisProfile())
	require.Error(t, err)
	st := h.store.Analysis.State()
	assert.Nil(t, st.Career)
	assert.Equal(t, "No jobs found", st.CareerStatus.Error)
}

func TestAnalysis_CompanyUsernameFallback(t *testing.T) {
	tests := []struct {
		name     string
		github   string
		wantUser string
	}{
		{"github username", "https://github.com/asha", "asha"},
		{"no github", "", "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.api.HandleFunc("POST /api/ai/analyze-target-company", func(w http.ResponseWriter, r *http.Request) {
				body := decodeBody(t, r)
				assert.Equal(t, tt.wantUser, body["username"])
				assert.Equal(t, "Acme", body["companyName"])
				writeJSON(w, http.StatusOK, `{"success":true,"data":{"match_percentage":"55%","missing_skills":["K8s"],"advice":"ship","roadmap":[{"step":1,"action":"learn"}]}}`)
			})
			p := analysisProfile()
			p.GithubUsername = tt.github

			result, err := h.store.Analysis.AnalyzeCompany(context.Background(), p, "Acme")
			require.NoError(t, err)
			assert.Equal(t, types.MatchMedium, result.MatchPercentage.Band())
			assert.Equal(t, "Acme", h.store.Analysis.State().CompanyName)
		})
	}
}

func TestAnalysis_CompanySchemaViolation(t *testing.T) {
	h := newHarness(t)
	h.api.HandleFunc("POST /api/ai/analyze-target-company", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"roadmap":[{"step":1}]}}`)
	})

	_, err := h.store.Analysis.AnalyzeCompany(context.Background(), analysisProfile(), "Acme")
	require.Error(t, err)
	assert.Equal(t, StatusFailed, h.store.Analysis.State().CompanyStatus.Status)
}

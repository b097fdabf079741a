package store

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

// MissingResumeMessage is shown when an analysis needs a stored resume.
const MissingResumeMessage = "Please upload a resume in your Profile first."

// companyFallbackUser is sent as the username for company analysis when the
// profile has no GitHub username.
const companyFallbackUser = "user"

// AnalysisState is the AI analysis slice.
type AnalysisState struct {
	Companies       []types.TargetCompany  `json:"companies"`
	CompaniesStatus OpState                `json:"companiesStatus"`
	Career          *types.CareerReport    `json:"career"`
	CareerStatus    OpState                `json:"careerStatus"`
	CompanyName     string                 `json:"companyName"`
	Company         *types.CompanyAnalysis `json:"company"`
	CompanyStatus   OpState                `json:"companyStatus"`
}

func (s AnalysisState) clone() AnalysisState {
	out := s
	out.Companies = slices.Clone(s.Companies)
	if s.Career != nil {
		c := *s.Career
		c.Analysis.JobAnalyses = slices.Clone(s.Career.Analysis.JobAnalyses)
		out.Career = &c
	}
	if s.Company != nil {
		c := *s.Company
		c.MissingSkills = slices.Clone(s.Company.MissingSkills)
		c.Roadmap = slices.Clone(s.Company.Roadmap)
		out.Company = &c
	}
	return out
}

// Analysis owns the recommendation and analytics screens.
type Analysis struct {
	slice  *Slice[AnalysisState]
	gw     Gateway
	logger *slog.Logger
}

func newAnalysis(deps Deps) *Analysis {
	return &Analysis{
		slice:  NewSlice("analysis", AnalysisState{}, AnalysisState.clone, deps.Logger),
		gw:     deps.Gateway,
		logger: deps.Logger,
	}
}

// State returns a copy of the analysis slice.
func (a *Analysis) State() AnalysisState {
	return a.slice.Get()
}

// Subscribe forwards to the underlying slice.
func (a *Analysis) Subscribe(buffer int) (<-chan Change, func()) {
	return a.slice.Subscribe(buffer)
}

func (a *Analysis) reset() {
	a.slice.Reset(AnalysisState{})
}

// Companies loads the target company list.
func (a *Analysis) Companies(ctx context.Context) ([]types.TargetCompany, error) {
	t := a.slice.Begin("companies", func(st *AnalysisState) { st.CompaniesStatus = loading() })
	companies, err := a.gw.Companies(ctx)
	if err != nil {
		msg := gateway.ServerMessage(err, "Failed to load company list.")
		a.slice.Commit(t, func(st *AnalysisState) { st.CompaniesStatus = failed(msg) })
		return nil, err
	}
	a.slice.Commit(t, func(st *AnalysisState) {
		st.Companies = slices.Clone(companies)
		st.CompaniesStatus = succeeded()
	})
	return companies, nil
}

// AnalyzeCareer matches the profile's resume and coding activity against
// current openings.
func (a *Analysis) AnalyzeCareer(ctx context.Context, profile types.UserProfile) (*types.CareerReport, error) {
	if profile.ResumeRemoteURL == "" {
		err := &types.ValidationError{Field: "resumeUrl", Message: MissingResumeMessage}
		a.slice.Update("career", func(st *AnalysisState) { st.CareerStatus = failed(MissingResumeMessage) })
		return nil, err
	}
	req := types.CareerRequest{
		Username:         parsing.AnalysisUsername(profile),
		LeetcodeUsername: parsing.LeetCodeHandle(profile.LeetcodeURL),
		ResumeURL:        profile.ResumeRemoteURL,
	}

	t := a.slice.Begin("career", func(st *AnalysisState) {
		st.Career = nil
		st.CareerStatus = loading()
	})
	report, err := a.gw.AnalyzeCareer(ctx, req)
	if err != nil {
		msg := gateway.ServerMessage(err, "Analysis failed.")
		a.slice.Commit(t, func(st *AnalysisState) { st.CareerStatus = failed(msg) })
		return nil, err
	}
	a.slice.Commit(t, func(st *AnalysisState) {
		st.Career = report
		st.CareerStatus = succeeded()
	})
	return report, nil
}

// AnalyzeCompany compares the profile's resume with one target company.
func (a *Analysis) AnalyzeCompany(ctx context.Context, profile types.UserProfile, company string) (*types.CompanyAnalysis, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		err := &types.ValidationError{Field: "companyName", Message: "is required"}
		a.slice.Update("company", func(st *AnalysisState) { st.CompanyStatus = failed(err.Error()) })
		return nil, err
	}
	if profile.ResumeRemoteURL == "" {
		err := &types.ValidationError{Field: "resumeUrl", Message: MissingResumeMessage}
		a.slice.Update("company", func(st *AnalysisState) { st.CompanyStatus = failed(MissingResumeMessage) })
		return nil, err
	}
	username := parsing.GithubHandle(profile.GithubUsername)
	if username == "" {
		username = companyFallbackUser
	}
	req := types.CompanyRequest{Username: username, ResumeURL: profile.ResumeRemoteURL, CompanyName: company}

	t := a.slice.Begin("company", func(st *AnalysisState) {
		st.CompanyName = company
		st.Company = nil
		st.CompanyStatus = loading()
	})
	result, err := a.gw.AnalyzeCompany(ctx, req)
	if err != nil {
		msg := gateway.ServerMessage(err, "Analysis failed")
		a.slice.Commit(t, func(st *AnalysisState) { st.CompanyStatus = failed(msg) })
		return nil, err
	}
	a.slice.Commit(t, func(st *AnalysisState) {
		st.Company = result
		st.CompanyStatus = succeeded()
	})
	return result, nil
}

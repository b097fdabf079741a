package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TargetCompany is an entry in the AI company catalogue.
type TargetCompany struct {
	Company string   `json:"company"`
	Role    string   `json:"role,omitempty"`
	Skills  []string `json:"skills"`
}

// CareerRequest is the body for POST /api/ai/analyze-career.
type CareerRequest struct {
	Username         string `json:"username"`
	LeetcodeUsername string `json:"leetcodeUsername"`
	ResumeURL        string `json:"resumeUrl"`
}

// CompanyRequest is the body for POST /api/ai/analyze-target-company.
type CompanyRequest struct {
	Username    string `json:"username"`
	ResumeURL   string `json:"resumeUrl"`
	CompanyName string `json:"companyName"`
}

// UserSummary is the header of a career report.
type UserSummary struct {
	CandidateSummary string `json:"candidate_summary"`
	LeetcodeLevel    string `json:"leetcode_level"`
}

// Percentage is a match score as the AI service renders it ("82%"). Bare
// numbers are accepted too.
type Percentage string

// UnmarshalJSON accepts strings, numbers and null.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Percentage(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Percentage(n.String() + "%")
		return nil
	}
	*p = ""
	return nil
}

// Band returns the display band for the percentage.
func (p Percentage) Band() MatchBand {
	return BandFor(string(p))
}

// JobAnalysis is the skill gap analysis for one scraped job.
type JobAnalysis struct {
	Role            string     `json:"role"`
	Company         string     `json:"company"`
	MatchPercentage Percentage `json:"match_percentage"`
	MissingSkills   []string   `json:"missing_skills"`
	ActionPlan      string     `json:"action_plan"`
	JobURL          string     `json:"job_url"`
}

// CareerReport is the AI career analysis.
type CareerReport struct {
	Success        bool        `json:"success"`
	Error          string      `json:"error,omitempty"`
	UserSummary    UserSummary `json:"user_summary"`
	JobsFoundCount int         `json:"jobs_found_count"`
	Analysis       struct {
		JobAnalyses []JobAnalysis `json:"job_analyses"`
	} `json:"analysis"`
}

// RoadmapStep is one step of a company preparation roadmap.
type RoadmapStep struct {
	Step   string `json:"step,omitempty"`
	Action string `json:"action"`
}

// UnmarshalJSON accepts numeric step labels.
func (r *RoadmapStep) UnmarshalJSON(data []byte) error {
	m, err := rawFields(data)
	if err != nil {
		return err
	}
	*r = RoadmapStep{Step: firstString(m, "step"), Action: firstString(m, "action")}
	return nil
}

// CompanyAnalysis is the AI analysis against one target company.
type CompanyAnalysis struct {
	MatchPercentage Percentage    `json:"match_percentage"`
	MissingSkills   []string      `json:"missing_skills"`
	Advice          string        `json:"advice"`
	Roadmap         []RoadmapStep `json:"roadmap"`
}

// MatchBand classifies a match percentage for display.
type MatchBand string

// Match bands.
const (
	MatchUnknown MatchBand = "unknown"
	MatchHigh    MatchBand = "high"
	MatchMedium  MatchBand = "medium"
	MatchLow     MatchBand = "low"
)

// BandFor classifies strings like "82%" or "82": >=80 high, >=50 medium,
// anything else low. Empty or non-numeric input is unknown.
func BandFor(percentage string) MatchBand {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(percentage), "%"))
	if s == "" {
		return MatchUnknown
	}
	// parseInt semantics: leading digits only
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return MatchUnknown
	}
	val, err := strconv.Atoi(s[:end])
	if err != nil {
		return MatchUnknown
	}
	switch {
	case val >= 80:
		return MatchHigh
	case val >= 50:
		return MatchMedium
	default:
		return MatchLow
	}
}

package parsing

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/talentmatrix/internal/types"
)

// gatewayProfile is the flat record served by GET /api/signup/:id.
type gatewayProfile struct {
	ID              types.ID   `json:"id"`
	FullName        flexString `json:"full_name"`
	Email           flexString `json:"email"`
	RollNumber      flexString `json:"roll_number"`
	MobileNumber    flexString `json:"mobile_number"`
	ProfileImageURL flexString `json:"profile_image_url"`
	ResumeURL       flexString `json:"resume_url"`
	GithubUsername  flexString `json:"github_username"`
	LinkedinURL     flexString `json:"linkedin_url"`
	LeetcodeURL     flexString `json:"leetcode_url"`
	HackerrankURL   flexString `json:"hackerrank_url"`
	CodechefURL     flexString `json:"codechef_url"`
	CodeforcesURL   flexString `json:"codeforces_url"`
}

// ProfileFromGateway maps the flat snake_case profile onto a fresh profile
// built from EmptyProfile, so optional fields the Gateway omits stay at their
// empty defaults. Skills, projects and derived stats are left empty for the
// caller to fill.
func ProfileFromGateway(raw []byte) (types.UserProfile, error) {
	var gp gatewayProfile
	if err := json.Unmarshal(raw, &gp); err != nil {
		return types.UserProfile{}, &ParseError{Message: "invalid profile record", Cause: err}
	}
	var columns map[string]json.RawMessage
	if err := json.Unmarshal(raw, &columns); err != nil {
		return types.UserProfile{}, &ParseError{Message: "invalid profile record", Cause: err}
	}

	p := types.EmptyProfile()
	p.ID = gp.ID
	p.Name = string(gp.FullName)
	p.Email = string(gp.Email)
	p.RollNumber = string(gp.RollNumber)
	p.MobileNumber = string(gp.MobileNumber)
	p.PhotoDataURL = string(gp.ProfileImageURL)
	p.ResumeRemoteURL = string(gp.ResumeURL)
	p.GithubUsername = string(gp.GithubUsername)
	p.LinkedinURL = string(gp.LinkedinURL)
	p.LeetcodeURL = string(gp.LeetcodeURL)
	p.HackerrankURL = string(gp.HackerrankURL)
	p.CodechefURL = string(gp.CodechefURL)
	p.CodeforcesURL = string(gp.CodeforcesURL)
	p.Semesters = SemestersFromColumns(columns)
	return p, nil
}

// flexString decodes strings, numbers (roll and mobile numbers are sometimes
// stored as integers) and null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

// AnalysisUsername picks the display name sent with AI analysis requests: the
// GitHub username, else the name lower-cased with whitespace removed, else
// "guest".
func AnalysisUsername(p types.UserProfile) string {
	if p.GithubUsername != "" {
		return p.GithubUsername
	}
	if name := strings.ToLower(strings.Join(strings.Fields(p.Name), "")); name != "" {
		return name
	}
	return "guest"
}

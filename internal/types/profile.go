package types

import (
	"encoding/json"
	"maps"
	"slices"
)

// Proficiency is the self-assessed level of a skill.
type Proficiency string

// Proficiency levels accepted by the Gateway.
const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyExpert       Proficiency = "Expert"
)

// Valid reports whether p is one of the known levels.
func (p Proficiency) Valid() bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyExpert:
		return true
	}
	return false
}

// Project sources.
const (
	SourceManual = "manual"
	SourceGithub = "github"
)

// Skill is a skill record as stored by the Gateway.
type Skill struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency"`
	Tags        string      `json:"tags"`
}

// UnmarshalJSON accepts the Gateway's skill_name/skillName/name and
// proficiency/level variants.
func (s *Skill) UnmarshalJSON(data []byte) error {
	m, err := rawFields(data)
	if err != nil {
		return err
	}
	*s = Skill{
		ID:          firstID(m, "id", "skill_id", "_id"),
		Name:        firstString(m, "skill_name", "skillName", "name"),
		Proficiency: Proficiency(firstString(m, "proficiency", "level")),
		Tags:        firstString(m, "tags"),
	}
	if s.Proficiency == "" {
		s.Proficiency = ProficiencyBeginner
	}
	return nil
}

// SkillDraft is the client-side form for a new skill. It never carries an id.
type SkillDraft struct {
	Name        string      `json:"skill_name" validate:"required"`
	Proficiency Proficiency `json:"proficiency" validate:"required,oneof=Beginner Intermediate Expert"`
	Tags        string      `json:"tags"`
}

// Validate validates the SkillDraft using the validator.
func (d *SkillDraft) Validate() error {
	return check(d)
}

// Project is a manual or GitHub-derived project.
type Project struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Tags        string `json:"tags"`
	Source      string `json:"source"`
}

// UnmarshalJSON accepts link/project_link/projectLink variants.
func (p *Project) UnmarshalJSON(data []byte) error {
	m, err := rawFields(data)
	if err != nil {
		return err
	}
	*p = Project{
		ID:          firstID(m, "id", "project_id", "_id"),
		Title:       firstString(m, "title"),
		Description: firstString(m, "description"),
		Link:        firstString(m, "link", "project_link", "projectLink"),
		Tags:        firstString(m, "tags"),
		Source:      firstString(m, "source"),
	}
	return nil
}

// ProjectDraft is the client-side form for a new manual project.
type ProjectDraft struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Link        string `json:"link" validate:"omitempty,url"`
	Tags        string `json:"tags"`
}

// Validate validates the ProjectDraft using the validator.
func (d *ProjectDraft) Validate() error {
	return check(d)
}

// UserProfile is the normalized, camelCase view of one student.
type UserProfile struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	RollNumber   string `json:"rollNumber"`
	MobileNumber string `json:"mobileNumber"`

	Semesters map[string]float64 `json:"semesters"`

	Skills         []Skill   `json:"skills"`
	ManualProjects []Project `json:"manualProjects"`
	GithubProjects []Project `json:"githubProjects"`

	LeetcodeStats *LeetCodeStats `json:"leetcodeStats"`

	GithubUsername string `json:"githubUsername"`
	LinkedinURL    string `json:"linkedinUrl"`
	LeetcodeURL    string `json:"leetcodeUrl"`
	HackerrankURL  string `json:"hackerrankUrl"`
	CodechefURL    string `json:"codechefUrl"`
	CodeforcesURL  string `json:"codeforcesUrl"`

	PhotoDataURL    string `json:"photoDataUrl"`
	ResumeRemoteURL string `json:"resumeRemoteUrl"`

	AppliedJobs []AppliedJob `json:"appliedJobs"`
}

// EmptyProfile returns the default empty profile. Collections are non-nil so
// views never have to distinguish "missing" from "empty".
func EmptyProfile() UserProfile {
	return UserProfile{
		Semesters:      map[string]float64{},
		Skills:         []Skill{},
		ManualProjects: []Project{},
		GithubProjects: []Project{},
		AppliedJobs:    []AppliedJob{},
	}
}

// Clone returns a deep copy of the profile.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Semesters = maps.Clone(p.Semesters)
	if out.Semesters == nil {
		out.Semesters = map[string]float64{}
	}
	out.Skills = cloneOrEmpty(p.Skills)
	out.ManualProjects = cloneOrEmpty(p.ManualProjects)
	out.GithubProjects = cloneOrEmpty(p.GithubProjects)
	out.AppliedJobs = cloneOrEmpty(p.AppliedJobs)
	if p.LeetcodeStats != nil {
		stats := *p.LeetcodeStats
		stats.Topics = cloneOrEmpty(p.LeetcodeStats.Topics)
		out.LeetcodeStats = &stats
	}
	return out
}

// SkillNames returns skill names in list order.
func (p UserProfile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}

// HasAppliedJob reports whether a job with the given URL is already saved.
func (p UserProfile) HasAppliedJob(jobURL string) bool {
	return slices.ContainsFunc(p.AppliedJobs, func(j AppliedJob) bool {
		return j.JobURL == jobURL
	})
}

// MarshalJSON keeps nil collections rendering as [] / {}.
func (p UserProfile) MarshalJSON() ([]byte, error) {
	type alias UserProfile
	return json.Marshal(alias(p.Clone()))
}

func cloneOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

package store

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/github"
	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

// ProfileState is the profile slice: the profile itself plus one status per
// operation.
type ProfileState struct {
	Profile types.UserProfile `json:"profile"`

	Load     OpState `json:"load"`
	Update   OpState `json:"update"`
	Skill    OpState `json:"skill"`
	Project  OpState `json:"project"`
	Github   OpState `json:"github"`
	LeetCode OpState `json:"leetcode"`
	SaveJob  OpState `json:"saveJob"`
	Upload   OpState `json:"upload"`

	// Warning is a recoverable notice, such as a job that was already saved.
	Warning string `json:"warning,omitempty"`

	githubFor string // username GithubProjects were fetched for
}

func emptyProfileState() ProfileState {
	return ProfileState{Profile: types.EmptyProfile()}
}

func (s ProfileState) clone() ProfileState {
	out := s
	out.Profile = s.Profile.Clone()
	return out
}

// Profile owns the logged-in student's profile and its enrichments.
type Profile struct {
	slice   *Slice[ProfileState]
	gw      Gateway
	repos   Repos
	session *Session
	logger  *slog.Logger
	now     func() time.Time
}

func newProfile(deps Deps, session *Session) *Profile {
	return &Profile{
		slice:   NewSlice("profile", emptyProfileState(), ProfileState.clone, deps.Logger),
		gw:      deps.Gateway,
		repos:   deps.GitHub,
		session: session,
		logger:  deps.Logger,
		now:     deps.Now,
	}
}

// State returns a copy of the profile slice.
func (p *Profile) State() ProfileState {
	return p.slice.Get()
}

// Get returns a copy of the current profile.
func (p *Profile) Get() types.UserProfile {
	return p.slice.Get().Profile
}

// Subscribe forwards to the underlying slice.
func (p *Profile) Subscribe(buffer int) (<-chan Change, func()) {
	return p.slice.Subscribe(buffer)
}

func (p *Profile) reset() {
	p.slice.Reset(emptyProfileState())
}

func (p *Profile) userID() (types.ID, error) {
	id := p.session.UserID()
	if id.IsZero() {
		return "", ErrNotLoggedIn
	}
	return id, nil
}

// Fetch loads the profile for userID. Skills and projects are fetched
// alongside and are best-effort. Enrichments from a previous fetch are
// cleared.
func (p *Profile) Fetch(ctx context.Context, userID types.ID) error {
	if userID.IsZero() {
		return ErrNotLoggedIn
	}
	t := p.slice.Begin("fetch", func(st *ProfileState) {
		st.Load = loading()
	})

	var (
		profile  types.UserProfile
		skills   []types.Skill
		projects []types.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = p.gw.Profile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		if skills, err = p.gw.Skills(gctx, userID); err != nil {
			p.logger.Warn("failed to load skills", "user_id", userID, "error", err)
			skills = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if projects, err = p.gw.Projects(gctx, userID); err != nil {
			p.logger.Warn("failed to load projects", "user_id", userID, "error", err)
			projects = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		p.slice.Commit(t, func(st *ProfileState) {
			st.Load = failed(gateway.Message(err))
		})
		return err
	}

	fresh := profile.Clone()
	if fresh.ID.IsZero() {
		fresh.ID = userID
	}
	fresh.Skills = nonNil(skills)
	fresh.ManualProjects = nonNil(projects)
	fresh.GithubProjects = []types.Project{}
	fresh.LeetcodeStats = nil
	fresh.AppliedJobs = []types.AppliedJob{}

	p.slice.Commit(t, func(st *ProfileState) {
		st.Profile = fresh
		st.Load = succeeded()
		st.Warning = ""
		st.githubFor = ""
	})
	return nil
}

// AddSkill saves a new skill and appends the record the Gateway returns.
func (p *Profile) AddSkill(ctx context.Context, draft types.SkillDraft) (types.Skill, error) {
	userID, err := p.preflight("skill", &draft, func(st *ProfileState, msg string) { st.Skill = failed(msg) })
	if err != nil {
		return types.Skill{}, err
	}

	t := p.slice.Attach("skill", func(st *ProfileState) { st.Skill = loading() })
	skill, err := p.gw.AddSkill(ctx, userID, draft)
	if err != nil {
		p.slice.Commit(t, func(st *ProfileState) { st.Skill = failed(gateway.Message(err)) })
		return types.Skill{}, err
	}
	p.slice.Commit(t, func(st *ProfileState) {
		st.Profile.Skills = append(st.Profile.Skills, skill)
		st.Skill = succeeded()
	})
	return skill, nil
}

// DeleteSkill removes the skill with id, locally only once the Gateway
// confirms.
func (p *Profile) DeleteSkill(ctx context.Context, id types.ID) error {
	if _, err := p.userID(); err != nil {
		return err
	}
	t := p.slice.Attach("skill", func(st *ProfileState) { st.Skill = loading() })
	if err := p.gw.DeleteSkill(ctx, id); err != nil {
		p.slice.Commit(t, func(st *ProfileState) { st.Skill = failed(gateway.Message(err)) })
		return err
	}
	p.slice.Commit(t, func(st *ProfileState) {
		st.Profile.Skills = slices.DeleteFunc(st.Profile.Skills, func(s types.Skill) bool { return s.ID == id })
		st.Skill = succeeded()
	})
	return nil
}

// AddProject saves a manual project and puts the Gateway record first.
func (p *Profile) AddProject(ctx context.Context, draft types.ProjectDraft) (types.Project, error) {
	userID, err := p.preflight("project", &draft, func(st *ProfileState, msg string) { st.Project = failed(msg) })
	if err != nil {
		return types.Project{}, err
	}

	t := p.slice.Attach("project", func(st *ProfileState) { st.Project = loading() })
	project, err := p.gw.AddProject(ctx, userID, draft)
	if err != nil {
		p.slice.Commit(t, func(st *ProfileState) { st.Project = failed(gateway.Message(err)) })
		return types.Project{}, err
	}
	p.slice.Commit(t, func(st *ProfileState) {
		st.Profile.ManualProjects = append([]types.Project{project}, st.Profile.ManualProjects...)
		st.Project = succeeded()
	})
	return project, nil
}

// DeleteProject removes the manual project with id.
func (p *Profile) DeleteProject(ctx context.Context, id types.ID) error {
	if _, err := p.userID(); err != nil {
		return err
	}
	t := p.slice.Attach("project", func(st *ProfileState) { st.Project = loading() })
	if err := p.gw.DeleteProject(ctx, id); err != nil {
		p.slice.Commit(t, func(st *ProfileState) { st.Project = failed(gateway.Message(err)) })
		return err
	}
	p.slice.Commit(t, func(st *ProfileState) {
		st.Profile.ManualProjects = slices.DeleteFunc(st.Profile.ManualProjects, func(pr types.Project) bool { return pr.ID == id })
		st.Project = succeeded()
	})
	return nil
}

type validatable interface {
	Validate() error
}

// preflight checks the session and validates v, recording failures with
// record.
func (p *Profile) preflight(op string, v validatable, record func(*ProfileState, string)) (types.ID, error) {
	userID, err := p.userID()
	if err != nil {
		return "", err
	}
	if err := v.Validate(); err != nil {
		p.slice.Update(op, func(st *ProfileState) { record(st, err.Error()) })
		return "", err
	}
	return userID, nil
}

// AddSemester records a semester grade locally. The Gateway has no endpoint
// for individual semesters.
func (p *Profile) AddSemester(name, grade string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &types.ValidationError{Field: "name", Message: "is required"}
	}
	value, err := parsing.ParseGrade(grade)
	if err != nil {
		return err
	}
	p.slice.Update("semester", func(st *ProfileState) {
		st.Profile.Semesters[name] = value
	})
	return nil
}

// UpdateFields saves editable profile fields given by their camelCase names
// and merges them locally once saved.
func (p *Profile) UpdateFields(ctx context.Context, partial map[string]string) error {
	userID, err := p.userID()
	if err != nil {
		return err
	}
	wire, err := parsing.ToWireFields(partial)
	if err != nil {
		p.slice.Update("update", func(st *ProfileState) { st.Update = failed(err.Error()) })
		return err
	}

	partial = maps.Clone(partial)
	t := p.slice.Attach("update", func(st *ProfileState) { st.Update = loading() })
	if err := p.gw.UpdateProfile(ctx, userID, wire); err != nil {
		p.slice.Commit(t, func(st *ProfileState) { st.Update = failed(gateway.Message(err)) })
		return err
	}
	p.slice.Commit(t, func(st *ProfileState) {
		parsing.ApplyFields(&st.Profile, partial)
		st.Update = succeeded()
	})
	return nil
}

// UploadResume stores a new resume and records its URL. On failure the
// previous URL is kept.
func (p *Profile) UploadResume(ctx context.Context, file types.FileUpload) (string, error) {
	return p.upload(ctx, file, p.gw.UploadResume, func(pr *types.UserProfile, url string) {
		pr.ResumeRemoteURL = url
	})
}

// UploadPhoto stores a new profile image and records its URL.
func (p *Profile) UploadPhoto(ctx context.Context, file types.FileUpload) (string, error) {
	return p.upload(ctx, file, p.gw.UploadPhoto, func(pr *types.UserProfile, url string) {
		pr.PhotoDataURL = url
	})
}

func (p *Profile) upload(
	ctx context.Context,
	file types.FileUpload,
	send func(context.Context, types.ID, types.FileUpload) (string, error),
	apply func(*types.UserProfile, string),
) (string, error) {
	userID, err := p.userID()
	if err != nil {
		return "", err
	}
	t := p.slice.Attach("upload", func(st *ProfileState) { st.Upload = loading() })
	url, err := send(ctx, userID, file)
	if err != nil {
		p.slice.Commit(t, func(st *ProfileState) { st.Upload = failed(gateway.Message(err)) })
		return "", err
	}
	p.slice.Commit(t, func(st *ProfileState) {
		apply(&st.Profile, url)
		st.Upload = succeeded()
	})
	return url, nil
}

// FetchGithubProjects loads described repositories for the profile's GitHub
// username. It does nothing when no username is set or the projects for that
// username are already loaded. Failures degrade to an empty list.
func (p *Profile) FetchGithubProjects(ctx context.Context) error {
	st := p.slice.Get()
	username := parsing.GithubHandle(st.Profile.GithubUsername)
	if username == "" || p.repos == nil {
		return nil
	}
	if len(st.Profile.GithubProjects) > 0 && st.githubFor == username {
		return nil
	}

	t := p.slice.Begin("github", func(st *ProfileState) { st.Github = loading() })
	repos, err := p.repos.UserRepos(ctx, username)
	if err != nil {
		p.logger.Warn("failed to load github repositories", "username", username, "error", err)
		p.slice.Commit(t, func(st *ProfileState) {
			st.Profile.GithubProjects = []types.Project{}
			st.githubFor = ""
			st.Github = OpState{Status: StatusFailed}
		})
		return nil
	}
	projects := github.Projects(repos)
	p.slice.Commit(t, func(st *ProfileState) {
		st.Profile.GithubProjects = projects
		st.githubFor = username
		st.Github = succeeded()
	})
	return nil
}

// FetchLeetCodeStats loads stats for the profile's LeetCode handle. A
// failure is recorded on the LeetCode status only.
func (p *Profile) FetchLeetCodeStats(ctx context.Context) error {
	handle := parsing.LeetCodeHandle(p.slice.Get().Profile.LeetcodeURL)
	if handle == "" {
		return nil
	}

	t := p.slice.Begin("leetcode", func(st *ProfileState) { st.LeetCode = loading() })
	stats, err := p.gw.LeetCode(ctx, handle)
	if err != nil {
		p.slice.Commit(t, func(st *ProfileState) { st.LeetCode = failed(gateway.Message(err)) })
		return err
	}
	p.slice.Commit(t, func(st *ProfileState) {
		st.Profile.LeetcodeStats = stats
		st.LeetCode = succeeded()
	})
	return nil
}

// Enrich runs the GitHub and LeetCode fetches concurrently.
func (p *Profile) Enrich(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return p.FetchGithubProjects(ctx) })
	g.Go(func() error { return p.FetchLeetCodeStats(ctx) })
	return g.Wait()
}

// SaveJob saves a search result to the applied jobs list. A duplicate is
// returned as a *gateway.ConflictError and recorded as a warning; the local
// list then holds the job exactly once either way.
func (p *Profile) SaveJob(ctx context.Context, job types.Job) error {
	userID, err := p.userID()
	if err != nil {
		return err
	}
	applied := types.NewAppliedJob(userID, job, p.now())
	if err := applied.Validate(); err != nil {
		p.slice.Update("saveJob", func(st *ProfileState) { st.SaveJob = failed(err.Error()) })
		return err
	}

	t := p.slice.Attach("saveJob", func(st *ProfileState) {
		st.SaveJob = loading()
		st.Warning = ""
	})
	err = p.gw.SaveAppliedJob(ctx, applied)
	var conflict *gateway.ConflictError
	switch {
	case errors.As(err, &conflict):
		p.slice.Commit(t, func(st *ProfileState) {
			addApplied(&st.Profile, applied)
			st.Warning = conflict.Message
			st.SaveJob = succeeded()
		})
		return err
	case err != nil:
		p.slice.Commit(t, func(st *ProfileState) { st.SaveJob = failed(gateway.Message(err)) })
		return err
	}
	p.slice.Commit(t, func(st *ProfileState) {
		addApplied(&st.Profile, applied)
		st.SaveJob = succeeded()
	})
	return nil
}

func addApplied(pr *types.UserProfile, job types.AppliedJob) {
	if !pr.HasAppliedJob(job.JobURL) {
		pr.AppliedJobs = append(pr.AppliedJobs, job)
	}
}

// LoadAppliedJobs replaces the applied jobs list with the Gateway's.
func (p *Profile) LoadAppliedJobs(ctx context.Context) error {
	userID, err := p.userID()
	if err != nil {
		return err
	}
	t := p.slice.Begin("appliedJobs", func(st *ProfileState) { st.SaveJob = loading() })
	jobs, err := p.gw.AppliedJobs(ctx, userID)
	if err != nil {
		p.slice.Commit(t, func(st *ProfileState) { st.SaveJob = failed(gateway.Message(err)) })
		return err
	}
	p.slice.Commit(t, func(st *ProfileState) {
		st.Profile.AppliedJobs = nonNil(jobs)
		st.SaveJob = succeeded()
	})
	return nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

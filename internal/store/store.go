package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonathan/talentmatrix/internal/fetch"
	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/github"
	"github.com/jonathan/talentmatrix/internal/types"
)

// Gateway is the subset of the Gateway client the stores call.
type Gateway interface {
	Login(ctx context.Context, req types.LoginRequest) (types.ID, error)
	Signup(ctx context.Context, req types.SignupRequest) (types.SignupRecord, error)
	SubmitPlacement(ctx context.Context, userID types.ID, req types.PlacementRequest, grades map[string]string) error

	Profile(ctx context.Context, userID types.ID) (types.UserProfile, error)
	Skills(ctx context.Context, userID types.ID) ([]types.Skill, error)
	Projects(ctx context.Context, userID types.ID) ([]types.Project, error)
	AddSkill(ctx context.Context, userID types.ID, draft types.SkillDraft) (types.Skill, error)
	DeleteSkill(ctx context.Context, skillID types.ID) error
	AddProject(ctx context.Context, userID types.ID, draft types.ProjectDraft) (types.Project, error)
	DeleteProject(ctx context.Context, projectID types.ID) error
	UpdateProfile(ctx context.Context, userID types.ID, wire map[string]string) error
	UploadResume(ctx context.Context, userID types.ID, file types.FileUpload) (string, error)
	UploadPhoto(ctx context.Context, userID types.ID, file types.FileUpload) (string, error)
	LeetCode(ctx context.Context, handle string) (*types.LeetCodeStats, error)

	SearchJobs(ctx context.Context, criteria types.SearchCriteria) ([]types.Job, error)
	SaveAppliedJob(ctx context.Context, job types.AppliedJob) error
	AppliedJobs(ctx context.Context, studentID types.ID) ([]types.AppliedJob, error)

	ExtractSkills(ctx context.Context, file types.FileUpload) (*gateway.ExtractResult, error)
	SearchBooks(ctx context.Context, query string) ([]types.Book, error)

	Companies(ctx context.Context) ([]types.TargetCompany, error)
	AnalyzeCareer(ctx context.Context, req types.CareerRequest) (*types.CareerReport, error)
	AnalyzeCompany(ctx context.Context, req types.CompanyRequest) (*types.CompanyAnalysis, error)
}

// Repos lists a GitHub user's repositories.
type Repos interface {
	UserRepos(ctx context.Context, username string) ([]github.Repo, error)
}

// StateDB is the local persisted state.
type StateDB interface {
	UserID(ctx context.Context) (types.ID, error)
	SetUserID(ctx context.Context, id types.ID) error
	ClearUserID(ctx context.Context) error
	SignupData(ctx context.Context) (types.SignupRecord, bool, error)
	SetSignupData(ctx context.Context, rec types.SignupRecord) error
	ClearSignupData(ctx context.Context) error
}

// Deps are the collaborators shared by every store.
type Deps struct {
	Gateway Gateway
	GitHub  Repos
	DB      StateDB
	Logger  *slog.Logger
	// Fetch configures downloads of stored resumes. Nil uses fetch defaults.
	Fetch *fetch.Options
	// Now is the clock used for applied-job dates. Nil uses time.Now.
	Now func() time.Time
}

// Store is the full client state: one store per screen.
type Store struct {
	Session  *Session
	Profile  *Profile
	Jobs     *Jobs
	Resume   *Resume
	Books    *Books
	Analysis *Analysis
}

// New wires the stores together. Logging out resets every other store.
func New(deps Deps) *Store {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Store{}
	s.Session = newSession(deps)
	s.Profile = newProfile(deps, s.Session)
	s.Jobs = newJobs(deps)
	s.Resume = newResume(deps)
	s.Books = newBooks(deps)
	s.Analysis = newAnalysis(deps)
	s.Session.resetters = []resetter{s.Profile, s.Jobs, s.Resume, s.Books, s.Analysis}
	return s
}

// Watch subscribes to every slice and merges their changes onto one channel.
// The channel closes once ctx is done.
func (s *Store) Watch(ctx context.Context, buffer int) <-chan Change {
	type subscribable interface {
		Subscribe(buffer int) (<-chan Change, func())
	}
	sources := []subscribable{
		s.Session.slice, s.Profile.slice, s.Jobs.slice,
		s.Resume.slice, s.Books.slice, s.Analysis.slice,
	}

	out := make(chan Change, buffer)
	var wg sync.WaitGroup
	for _, src := range sources {
		ch, cancel := src.Subscribe(buffer)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return
				case c := <-ch:
					select {
					case out <- c:
					default:
					}
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// resetter is implemented by stores cleared on logout.
type resetter interface {
	reset()
}

// OpState is the status of one operation on a slice. The zero value is idle.
type OpState struct {
	Status Status `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Idle reports whether the operation has never run.
func (o OpState) Idle() bool {
	return o.Status == "" || o.Status == StatusIdle
}

func loading() OpState {
	return OpState{Status: StatusLoading}
}

func succeeded() OpState {
	return OpState{Status: StatusSucceeded}
}

func failed(msg string) OpState {
	return OpState{Status: StatusFailed, Error: msg}
}

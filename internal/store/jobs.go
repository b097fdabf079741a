package store

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/types"
)

// maxSeedSkills is how many skill names seed the automatic job search.
const maxSeedSkills = 3

// JobsState is the job search slice.
type JobsState struct {
	Criteria types.SearchCriteria `json:"criteria"`
	Results  []types.Job          `json:"results"`
	Search   OpState              `json:"search"`
}

func emptyJobsState() JobsState {
	return JobsState{Results: []types.Job{}}
}

func (s JobsState) clone() JobsState {
	out := s
	out.Results = slices.Clone(nonNil(s.Results))
	return out
}

// Jobs owns the job search screen.
type Jobs struct {
	slice  *Slice[JobsState]
	gw     Gateway
	logger *slog.Logger
}

func newJobs(deps Deps) *Jobs {
	return &Jobs{
		slice:  NewSlice("jobs", emptyJobsState(), JobsState.clone, deps.Logger),
		gw:     deps.Gateway,
		logger: deps.Logger,
	}
}

// State returns a copy of the job search slice.
func (j *Jobs) State() JobsState {
	return j.slice.Get()
}

// Subscribe forwards to the underlying slice.
func (j *Jobs) Subscribe(buffer int) (<-chan Change, func()) {
	return j.slice.Subscribe(buffer)
}

func (j *Jobs) reset() {
	j.slice.Reset(emptyJobsState())
}

// SetQuery sets the search query.
func (j *Jobs) SetQuery(q string) {
	j.slice.Update("criteria", func(st *JobsState) { st.Criteria.Query = q })
}

// SetLocation sets the search location.
func (j *Jobs) SetLocation(loc string) {
	j.slice.Update("criteria", func(st *JobsState) { st.Criteria.Location = loc })
}

// SetLevel sets the experience level.
func (j *Jobs) SetLevel(level string) {
	j.slice.Update("criteria", func(st *JobsState) { st.Criteria.Level = level })
}

// Search runs a job search. Blank criteria are replaced by the defaults in
// the request; the criteria are stored as given. Results replace the
// previous ones.
func (j *Jobs) Search(ctx context.Context, criteria types.SearchCriteria) ([]types.Job, error) {
	t := j.slice.Begin("search", func(st *JobsState) {
		st.Criteria = criteria
		st.Search = loading()
	})
	jobs, err := j.gw.SearchJobs(ctx, criteria.WithDefaults())
	if err != nil {
		j.slice.Commit(t, func(st *JobsState) { st.Search = failed(gateway.Message(err)) })
		return nil, err
	}
	jobs = nonNil(jobs)
	j.slice.Commit(t, func(st *JobsState) {
		st.Results = slices.Clone(jobs)
		st.Search = succeeded()
	})
	return jobs, nil
}

// AutoSearch searches with a query seeded from the profile's skills, but
// only when there are no results yet and no search is running.
func (j *Jobs) AutoSearch(ctx context.Context, profile types.UserProfile) error {
	st := j.slice.Get()
	if len(st.Results) > 0 || st.Search.Status == StatusLoading {
		return nil
	}
	criteria := st.Criteria
	criteria.Query = SeedQuery(profile.Skills)
	_, err := j.Search(ctx, criteria)
	return err
}

// SeedQuery joins up to three distinct skill names, falling back to the
// default query when there are none.
func SeedQuery(skills []types.Skill) string {
	seen := map[string]bool{}
	var names []string
	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
		if len(names) == maxSeedSkills {
			break
		}
	}
	if len(names) == 0 {
		return types.DefaultJobQuery
	}
	return strings.Join(names, " ")
}

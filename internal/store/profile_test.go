package store

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/types"
)

func serveProfile(h *harness, record, skills, projects string) {
	h.api.HandleFunc("GET /api/signup/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, record)
	})
	h.api.HandleFunc("GET /api/signup/42/skills", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, skills)
	})
	h.api.HandleFunc("GET /api/projects/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, projects)
	})
}

func loggedInProfile(t *testing.T, record string) *harness {
	t.Helper()
	h := newHarness(t)
	serveProfile(h, record, `[]`, `[]`)
	h.login(t, "42")
	require.NoError(t, h.store.Profile.Fetch(context.Background(), "42"))
	return h
}

func TestProfile_Fetch(t *testing.T) {
	h := newHarness(t)
	serveProfile(h,
		`{"id":42,"full_name":"Asha","email":"a@b.com","github_username":"asha","gpa_sem_1":"8.5","gpa_sem_2":null,"gpa_sem_3":"","gpa_sem_4":9}`,
		`[{"id":1,"skill_name":"Go","proficiency":"Expert"}]`,
		`[{"id":5,"title":"Site","description":"Blog","project_link":"https://x"}]`)
	h.login(t, "42")

	require.NoError(t, h.store.Profile.Fetch(context.Background(), "42"))
	st := h.store.Profile.State()
	p := st.Profile
	assert.Equal(t, StatusSucceeded, st.Load.Status)
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, map[string]float64{"Semester 1": 8.5, "Semester 4": 9}, p.Semesters)
	require.Len(t, p.Skills, 1)
	assert.Equal(t, "Go", p.Skills[0].Name)
	require.Len(t, p.ManualProjects, 1)
	assert.Equal(t, types.SourceManual, p.ManualProjects[0].Source)
	assert.Equal(t, "https://x", p.ManualProjects[0].Link)
	assert.NotNil(t, p.GithubProjects)
	assert.NotNil(t, p.AppliedJobs)
	assert.Nil(t, p.LeetcodeStats)
}

func TestProfile_FetchSecondaryFailuresDegrade(t *testing.T) {
	h := newHarness(t)
	h.api.HandleFunc("GET /api/signup/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":42,"full_name":"Asha"}`)
	})
	h.api.HandleFunc("GET /api/signup/42/skills", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, ``)
	})
	h.api.HandleFunc("GET /api/projects/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":"none"}`)
	})
	h.login(t, "42")

	require.NoError(t, h.store.Profile.Fetch(context.Background(), "42"))
	p := h.store.Profile.Get()
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, []types.Skill{}, p.Skills)
	assert.Equal(t, []types.Project{}, p.ManualProjects)
}

func TestProfile_FetchPrimaryFailure(t *testing.T) {
	h := newHarness(t)
	h.api.HandleFunc("GET /api/signup/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":"User not found"}`)
	})
	h.api.HandleFunc("GET /api/signup/42/skills", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	h.api.HandleFunc("GET /api/projects/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})

	err := h.store.Profile.Fetch(context.Background(), "42")
	require.Error(t, err)
	st := h.store.Profile.State()
	assert.Equal(t, StatusFailed, st.Load.Status)
	assert.Equal(t, "User not found", st.Load.Error)
	assert.Equal(t, types.EmptyProfile(), st.Profile)
}

func TestProfile_AddSkillUsesGatewayRecord(t *testing.T) {
	h := loggedInProfile(t, `{"id":42}`)
	h.api.HandleFunc("POST /api/signup/skills", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "42", body["student_id"])
		assert.Equal(t, "golang", body["skill_name"])
		writeJSON(w, http.StatusCreated, `{"id":77,"skill_name":"Go","proficiency":"Expert","tags":"server"}`)
	})

	skill, err := h.store.Profile.AddSkill(context.Background(), types.SkillDraft{Name: "golang", Proficiency: types.ProficiencyExpert})
	require.NoError(t, err)

	want := types.Skill{ID: "77", Name: "Go", Proficiency: types.ProficiencyExpert, Tags: "server"}
	assert.Equal(t, want, skill)
	assert.Equal(t, []types.Skill{want}, h.store.Profile.Get().Skills)
}

func TestProfile_AddSkillFailureLeavesList(t *testing.T) {
	h := newHarness(t)
	serveProfile(h, `{"id":42}`, `[{"id":1,"skill_name":"Go"}]`, `[]`)
	h.login(t, "42")
	require.NoError(t, h.store.Profile.Fetch(context.Background(), "42"))
	h.api.HandleFunc("POST /api/signup/skills", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":"Skill exists"}`)
	})

	_, err := h.store.Profile.AddSkill(context.Background(), types.SkillDraft{Name: "Go", Proficiency: types.ProficiencyBeginner})
	require.Error(t, err)
	st := h.store.Profile.State()
	assert.Len(t, st.Profile.Skills, 1)
	assert.Equal(t, "Skill exists", st.Skill.Error)
}

func TestProfile_AddSkillRequiresSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Profile.AddSkill(context.Background(), types.SkillDraft{Name: "Go", Proficiency: types.ProficiencyBeginner})
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Empty(t, h.requestLog())
}

func TestProfile_DeleteSkillRemovesOnlyMatchingID(t *testing.T) {
	h := newHarness(t)
	serveProfile(h, `{"id":42}`,
		`[{"id":1,"skill_name":"Go"},{"id":2,"skill_name":"Rust"},{"id":3,"skill_name":"SQL"}]`, `[]`)
	h.login(t, "42")
	require.NoError(t, h.store.Profile.Fetch(context.Background(), "42"))
	h.api.HandleFunc("DELETE /api/signup/skills/2", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, h.store.Profile.DeleteSkill(context.Background(), "2"))
	assert.Equal(t, []string{"Go", "SQL"}, h.store.Profile.Get().SkillNames())
}

func TestProfile_Projects(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	serveProfile(h, `{"id":42}`, `[]`, `[{"id":1,"title":"Old","description":"d"}]`)
	h.login(t, "42")
	require.NoError(t, h.store.Profile.Fetch(ctx, "42"))
	h.api.HandleFunc("POST /api/projects", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "New", body["title"])
		writeJSON(w, http.StatusCreated, `{"id":9,"title":"New","description":"fresh","link":"https://n"}`)
	})
	h.api.HandleFunc("DELETE /api/projects/1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"deleted"}`)
	})

	_, err := h.store.Profile.AddProject(ctx, types.ProjectDraft{Title: "New", Description: "fresh", Link: "https://n"})
	require.NoError(t, err)
	projects := h.store.Profile.Get().ManualProjects
	require.Len(t, projects, 2)
	assert.Equal(t, types.ID("9"), projects[0].ID, "new projects are prepended")
	assert.Equal(t, types.SourceManual, projects[0].Source)

	require.NoError(t, h.store.Profile.DeleteProject(ctx, "1"))
	projects = h.store.Profile.Get().ManualProjects
	require.Len(t, projects, 1)
	assert.Equal(t, types.ID("9"), projects[0].ID)
}

func TestProfile_AddProjectValidation(t *testing.T) {
	h := loggedInProfile(t, `{"id":42}`)
	h.resetRequests()

	_, err := h.store.Profile.AddProject(context.Background(), types.ProjectDraft{Title: "x"})
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "description", vErr.Field)
	assert.Empty(t, h.requestLog())
	assert.Equal(t, StatusFailed, h.store.Profile.State().Project.Status)
}

func TestProfile_AddSemester(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.store.Profile.AddSemester("Semester 3", "8.5"))
	assert.Equal(t, 8.5, h.store.Profile.Get().Semesters["Semester 3"])

	tests := []struct {
		name, sem, grade string
	}{
		{"blank name", " ", "8"},
		{"not a number", "Semester 4", "abc"},
		{"out of range", "Semester 4", "11"},
		{"negative", "Semester 4", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.store.Profile.AddSemester(tt.sem, tt.grade)
			var vErr *types.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.NotContains(t, h.store.Profile.Get().Semesters, "Semester 4")
		})
	}
}

func TestProfile_UpdateFields(t *testing.T) {
	h := loggedInProfile(t, `{"id":42,"full_name":"Asha"}`)
	h.api.HandleFunc("PUT /api/signup/42", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, map[string]any{"github_username": "asha-r", "full_name": "Asha R"}, body)
		writeJSON(w, http.StatusOK, `{"message":"updated"}`)
	})

	err := h.store.Profile.UpdateFields(context.Background(), map[string]string{"githubUsername": "asha-r", "name": "Asha R"})
	require.NoError(t, err)
	p := h.store.Profile.Get()
	assert.Equal(t, "asha-r", p.GithubUsername)
	assert.Equal(t, "Asha R", p.Name)
}

func TestProfile_UpdateFieldsRejectsUnknownKeys(t *testing.T) {
	h := loggedInProfile(t, `{"id":42}`)
	h.resetRequests()

	err := h.store.Profile.UpdateFields(context.Background(), map[string]string{"email": "x@y.z"})
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, h.requestLog())
}

func TestProfile_Uploads(t *testing.T) {
	ctx := context.Background()
	h := loggedInProfile(t, `{"id":42,"resume_url":"https://old/cv.pdf"}`)
	fail := atomic.Bool{}
	h.api.HandleFunc("PUT /api/signup/42/resume", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, http.StatusInternalServerError, `{"error":"storage down"}`)
			return
		}
		_, _, err := r.FormFile("resume")
		require.NoError(t, err)
		writeJSON(w, http.StatusOK, `{"resume_url":"https://new/cv.pdf"}`)
	})
	h.api.HandleFunc("PUT /api/signup/42/profile-image", func(w http.ResponseWriter, r *http.Request) {
		_, _, err := r.FormFile("profileImage")
		require.NoError(t, err)
		writeJSON(w, http.StatusOK, `{"imageUrl":"https://img/me.png"}`)
	})

	url, err := h.store.Profile.UploadResume(ctx, types.FileUpload{Name: "cv.pdf", Body: strings.NewReader("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, "https://new/cv.pdf", url)
	assert.Equal(t, url, h.store.Profile.Get().ResumeRemoteURL)

	fail.Store(true)
	_, err = h.store.Profile.UploadResume(ctx, types.FileUpload{Name: "cv.pdf", Body: strings.NewReader("%PDF")})
	require.Error(t, err)
	st := h.store.Profile.State()
	assert.Equal(t, "https://new/cv.pdf", st.Profile.ResumeRemoteURL, "failed upload keeps the previous URL")
	assert.Equal(t, "storage down", st.Upload.Error)

	_, err = h.store.Profile.UploadPhoto(ctx, types.FileUpload{Name: "me.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Equal(t, "https://img/me.png", h.store.Profile.Get().PhotoDataURL)
}

func TestProfile_GithubProjects(t *testing.T) {
	ctx := context.Background()
	h := loggedInProfile(t, `{"id":42,"github_username":"https://github.com/asha"}`)
	var calls atomic.Int32
	h.github.HandleFunc("GET /users/asha/repos", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		writeJSON(w, http.StatusOK, `[
			{"id":1,"name":"tm","description":"placement","html_url":"https://github.com/asha/tm","language":"Go"},
			{"id":2,"name":"dots","description":"  ","html_url":"https://github.com/asha/dots"}
		]`)
	})

	require.NoError(t, h.store.Profile.FetchGithubProjects(ctx))
	st := h.store.Profile.State()
	require.Len(t, st.Profile.GithubProjects, 1)
	assert.Equal(t, types.Project{ID: "1", Title: "tm", Description: "placement", Link: "https://github.com/asha/tm", Tags: "Go", Source: types.SourceGithub}, st.Profile.GithubProjects[0])
	assert.Equal(t, StatusSucceeded, st.Github.Status)

	require.NoError(t, h.store.Profile.FetchGithubProjects(ctx))
	assert.Equal(t, int32(1), calls.Load(), "loaded projects are not refetched for the same user")
}

func TestProfile_GithubNoDescribedRepos(t *testing.T) {
	h := loggedInProfile(t, `{"id":42,"github_username":"asha"}`)
	h.github.HandleFunc("GET /users/asha/repos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":1,"name":"empty","description":null}]`)
	})

	require.NoError(t, h.store.Profile.FetchGithubProjects(context.Background()))
	st := h.store.Profile.State()
	assert.Equal(t, []types.Project{}, st.Profile.GithubProjects)
	assert.Empty(t, st.Github.Error)
}

func TestProfile_GithubFailureDegrades(t *testing.T) {
	h := loggedInProfile(t, `{"id":42,"github_username":"asha"}`)
	h.github.HandleFunc("GET /users/asha/repos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"message":"rate limited"}`)
	})

	require.NoError(t, h.store.Profile.FetchGithubProjects(context.Background()))
	st := h.store.Profile.State()
	assert.Equal(t, []types.Project{}, st.Profile.GithubProjects)
	assert.Empty(t, st.Github.Error)
	assert.Equal(t, StatusSucceeded, st.Load.Status)
}

func TestProfile_GithubSkippedWithoutUsername(t *testing.T) {
	h := loggedInProfile(t, `{"id":42}`)
	h.github.HandleFunc("/", func(http.ResponseWriter, *http.Request) {
		t.Error("no GitHub request expected")
	})
	require.NoError(t, h.store.Profile.FetchGithubProjects(context.Background()))
}

func TestProfile_LeetCodeMissingTopics(t *testing.T) {
	h := loggedInProfile(t, `{"id":42,"leetcode_url":"https://leetcode.com/u/asha/"}`)
	h.api.HandleFunc("GET /api/leetcode/asha", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"totalSolved":"12","easy":10,"medium":2}`)
	})

	require.NoError(t, h.store.Profile.FetchLeetCodeStats(context.Background()))
	stats := h.store.Profile.Get().LeetcodeStats
	require.NotNil(t, stats)
	assert.Equal(t, 12, stats.Total)
	assert.NotNil(t, stats.Topics)
	assert.Empty(t, stats.Topics)
}

func TestProfile_LeetCodeFailureIsolated(t *testing.T) {
	h := loggedInProfile(t, `{"id":42,"full_name":"Asha","leetcode_url":"asha"}`)
	h.api.HandleFunc("GET /api/leetcode/asha", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadGateway, `{"error":"provider down"}`)
	})

	err := h.store.Profile.FetchLeetCodeStats(context.Background())
	require.Error(t, err)
	st := h.store.Profile.State()
	assert.Equal(t, "provider down", st.LeetCode.Error)
	assert.Equal(t, StatusSucceeded, st.Load.Status)
	assert.Equal(t, "Asha", st.Profile.Name)
}

func TestProfile_EnrichRunsBoth(t *testing.T) {
	h := loggedInProfile(t, `{"id":42,"github_username":"asha","leetcode_url":"asha"}`)
	h.github.HandleFunc("GET /users/asha/repos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":1,"name":"tm","description":"d"}]`)
	})
	h.api.HandleFunc("GET /api/leetcode/asha", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"total":3,"topics":[{"topicName":"Array","solved":3}]}`)
	})

	require.NoError(t, h.store.Profile.Enrich(context.Background()))
	p := h.store.Profile.Get()
	assert.Len(t, p.GithubProjects, 1)
	require.NotNil(t, p.LeetcodeStats)
	assert.Equal(t, []types.TopicStat{{TopicName: "Array", Solved: 3}}, p.LeetcodeStats.Topics)
}

func TestProfile_SaveJobIsIdempotent(t *testing.T) {
	h := loggedInProfile(t, `{"id":42}`)
	var saved atomic.Int32
	h.api.HandleFunc("POST /api/applied-jobs", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "42", body["student_id"])
		assert.Equal(t, "2026-03-01T09:00:00Z", body["posted_date"])
		if saved.Add(1) > 1 {
			writeJSON(w, http.StatusConflict, `{"error":"Job already applied"}`)
			return
		}
		writeJSON(w, http.StatusCreated, `{"message":"saved"}`)
	})
	job := types.Job{Position: "SWE", Company: "Acme", JobURL: "https://jobs/1"}

	require.NoError(t, h.store.Profile.SaveJob(context.Background(), job))
	err := h.store.Profile.SaveJob(context.Background(), job)

	var conflict *gateway.ConflictError
	require.ErrorAs(t, err, &conflict)
	st := h.store.Profile.State()
	assert.Len(t, st.Profile.AppliedJobs, 1)
	assert.Equal(t, "Job already applied", st.Warning)
	assert.Empty(t, st.SaveJob.Error)
}

func TestProfile_SaveJobConflictAddsMissingLocalEntry(t *testing.T) {
	h := loggedInProfile(t, `{"id":42}`)
	h.api.HandleFunc("POST /api/applied-jobs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":"You have already saved this job"}`)
	})

	err := h.store.Profile.SaveJob(context.Background(), types.Job{Position: "SWE", JobURL: "https://jobs/2"})
	var conflict *gateway.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.True(t, h.store.Profile.Get().HasAppliedJob("https://jobs/2"))
}

func TestProfile_LoadAppliedJobs(t *testing.T) {
	h := loggedInProfile(t, `{"id":42}`)
	h.api.HandleFunc("GET /api/applied-jobs/42", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":3,"jobTitle":"SWE","jobUrl":"https://jobs/3"}]`)
	})

	require.NoError(t, h.store.Profile.LoadAppliedJobs(context.Background()))
	jobs := h.store.Profile.Get().AppliedJobs
	require.Len(t, jobs, 1)
	assert.Equal(t, "https://jobs/3", jobs[0].JobURL)
}

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkill_UnmarshalVariants(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Skill
	}{
		{
			name:     "snake case",
			input:    `{"id":3,"skill_name":"Go","proficiency":"Expert","tags":"backend"}`,
			expected: Skill{ID: "3", Name: "Go", Proficiency: ProficiencyExpert, Tags: "backend"},
		},
		{
			name:     "camel case",
			input:    `{"id":"s-1","skillName":"React","proficiency":"Intermediate"}`,
			expected: Skill{ID: "s-1", Name: "React", Proficiency: ProficiencyIntermediate},
		},
		{
			name:     "plain name and level",
			input:    `{"id":9,"name":"SQL","level":"Beginner"}`,
			expected: Skill{ID: "9", Name: "SQL", Proficiency: ProficiencyBeginner},
		},
		{
			name:     "missing proficiency defaults to Beginner",
			input:    `{"id":1,"skill_name":"Rust"}`,
			expected: Skill{ID: "1", Name: "Rust", Proficiency: ProficiencyBeginner},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Skill
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestProject_UnmarshalLinkVariants(t *testing.T) {
	var p Project
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"title":"Bot","description":"d","project_link":"https://x.dev"}`), &p))
	assert.Equal(t, ID("5"), p.ID)
	assert.Equal(t, "https://x.dev", p.Link)

	require.NoError(t, json.Unmarshal([]byte(`{"id":6,"title":"B","projectLink":"https://y.dev"}`), &p))
	assert.Equal(t, "https://y.dev", p.Link)
}

func TestSkillDraft_Validation(t *testing.T) {
	d := SkillDraft{Name: "Go", Proficiency: ProficiencyExpert}
	require.NoError(t, d.Validate())

	d.Proficiency = "Guru"
	require.Error(t, d.Validate())

	d = SkillDraft{Proficiency: ProficiencyBeginner}
	require.Error(t, d.Validate())
}

func TestProjectDraft_Validation(t *testing.T) {
	d := ProjectDraft{Title: "T", Description: "D"}
	require.NoError(t, d.Validate())

	d.Link = "not a url"
	require.Error(t, d.Validate())

	d = ProjectDraft{Title: "T"}
	require.Error(t, d.Validate())
}

func TestEmptyProfile_MarshalsEmptyCollections(t *testing.T) {
	data, err := json.Marshal(EmptyProfile())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, map[string]any{}, m["semesters"])
	assert.Equal(t, []any{}, m["skills"])
	assert.Equal(t, []any{}, m["manualProjects"])
	assert.Equal(t, []any{}, m["githubProjects"])
	assert.Equal(t, []any{}, m["appliedJobs"])
	assert.Nil(t, m["leetcodeStats"])
}

func TestUserProfile_CloneIsDeep(t *testing.T) {
	p := EmptyProfile()
	p.Semesters["Semester 1"] = 8
	p.Skills = append(p.Skills, Skill{ID: "1", Name: "Go"})
	p.LeetcodeStats = &LeetCodeStats{Topics: []TopicStat{{TopicName: "Array", Solved: 3}}}

	c := p.Clone()
	c.Semesters["Semester 1"] = 1
	c.Skills[0].Name = "changed"
	c.LeetcodeStats.Topics[0].Solved = 99

	assert.Equal(t, 8.0, p.Semesters["Semester 1"])
	assert.Equal(t, "Go", p.Skills[0].Name)
	assert.Equal(t, 3, p.LeetcodeStats.Topics[0].Solved)
}

func TestUserProfile_HasAppliedJob(t *testing.T) {
	p := EmptyProfile()
	p.AppliedJobs = []AppliedJob{{JobURL: "https://jobs/1"}}
	assert.True(t, p.HasAppliedJob("https://jobs/1"))
	assert.False(t, p.HasAppliedJob("https://jobs/2"))
}

package parsing

import (
	"testing"

	"github.com/jonathan/talentmatrix/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFromGateway(t *testing.T) {
	raw := []byte(`{
		"id": 42,
		"full_name": "Asha Rao",
		"email": "asha@example.com",
		"roll_number": 2101,
		"mobile_number": null,
		"profile_image_url": "https://cdn/p.png",
		"resume_url": "https://cdn/r.pdf",
		"github_username": "asha",
		"leetcode_url": "https://leetcode.com/asha",
		"gpa_sem_1": "8.5",
		"gpa_sem_2": 9
	}`)

	p, err := ProfileFromGateway(raw)
	require.NoError(t, err)
	assert.Equal(t, types.ID("42"), p.ID)
	assert.Equal(t, "Asha Rao", p.Name)
	assert.Equal(t, "2101", p.RollNumber)
	assert.Equal(t, "", p.MobileNumber)
	assert.Equal(t, "https://cdn/p.png", p.PhotoDataURL)
	assert.Equal(t, "https://cdn/r.pdf", p.ResumeRemoteURL)
	assert.Equal(t, map[string]float64{"Semester 1": 8.5, "Semester 2": 9}, p.Semesters)
	assert.NotNil(t, p.Skills)
	assert.NotNil(t, p.AppliedJobs)
	assert.Nil(t, p.LeetcodeStats)
}

func TestProfileFromGateway_Invalid(t *testing.T) {
	_, err := ProfileFromGateway([]byte(`[1,2]`))
	var pErr *ParseError
	assert.ErrorAs(t, err, &pErr)
}

func TestAnalysisUsername(t *testing.T) {
	p := types.EmptyProfile()
	assert.Equal(t, "guest", AnalysisUsername(p))

	p.Name = "Asha  Rao"
	assert.Equal(t, "asharao", AnalysisUsername(p))

	p.GithubUsername = "asha-dev"
	assert.Equal(t, "asha-dev", AnalysisUsername(p))
}

package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillCategories(t *testing.T) {
	order, skills, err := SkillCategories([]byte(`{
		"tools": ["Docker", "Git"],
		"languages": ["Go", 7, "", "Python"],
		"soft": "Communication",
		"other": null
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"tools", "languages", "soft", "other"}, order)
	assert.Equal(t, []string{"Docker", "Git"}, skills["tools"])
	assert.Equal(t, []string{"Go", "Python"}, skills["languages"])
	assert.Equal(t, []string{"Communication"}, skills["soft"])
	assert.Empty(t, skills["other"])

	assert.Equal(t, []string{"Docker", "Git", "Go", "Python", "Communication"}, FlattenSkillCategories(order, skills))
}

func TestSkillCategories_NotObject(t *testing.T) {
	_, _, err := SkillCategories([]byte(`["Go"]`))
	var pErr *ParseError
	assert.ErrorAs(t, err, &pErr)
}

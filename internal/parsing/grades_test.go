package parsing

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/talentmatrix/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemestersFromColumns(t *testing.T) {
	var columns map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(`{
		"gpa_sem_1": 8.1,
		"gpa_sem_2": "7.5",
		"gpa_sem_3": "",
		"gpa_sem_4": null,
		"gpa_sem_5": "n/a",
		"gpa_sem_9": 9
	}`), &columns))

	got := SemestersFromColumns(columns)
	assert.Equal(t, map[string]float64{"Semester 1": 8.1, "Semester 2": 7.5}, got)
}

func TestParseGrade(t *testing.T) {
	g, err := ParseGrade("8.5")
	require.NoError(t, err)
	assert.Equal(t, 8.5, g)

	g, err = ParseGrade(" 10 ")
	require.NoError(t, err)
	assert.Equal(t, 10.0, g)

	for _, bad := range []string{"", "abc", "10.5", "-1"} {
		_, err := ParseGrade(bad)
		var vErr *types.ValidationError
		assert.ErrorAs(t, err, &vErr, "input %q", bad)
	}
}

func TestSemestersForYear(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, SemestersForYear("1"))
	assert.Equal(t, []string{"3", "4"}, SemestersForYear("2"))
	assert.Equal(t, []string{"5", "6"}, SemestersForYear("3"))
	assert.Equal(t, []string{"7", "8"}, SemestersForYear("4"))
	assert.Nil(t, SemestersForYear("5"))
}

func TestPlacementGrades_DropsLaterSemesters(t *testing.T) {
	got, err := PlacementGrades("3", map[string]string{
		"gpa_sem_1": "8",
		"gpa_sem_2": "",
		"gpa_sem_3": "7.2",
		"gpa_sem_4": "9",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"gpa_sem_1": "8", "gpa_sem_3": "7.2"}, got)

	_, err = PlacementGrades("0", nil)
	require.Error(t, err)

	_, err = PlacementGrades("2", map[string]string{"gpa_sem_1": "eleven"})
	require.Error(t, err)
}

func TestSemesterNumber(t *testing.T) {
	n, err := SemesterNumber(" 8 ")
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	for _, bad := range []string{"", "0", "9", "two"} {
		_, err := SemesterNumber(bad)
		var ve *types.ValidationError
		assert.ErrorAs(t, err, &ve, bad)
	}
}

func TestCGPA(t *testing.T) {
	_, ok := CGPA(nil)
	assert.False(t, ok)

	cgpa, ok := CGPA(map[string]float64{"Semester 1": 8, "Semester 2": 9})
	assert.True(t, ok)
	assert.InDelta(t, 8.5, cgpa, 0.0001)
}

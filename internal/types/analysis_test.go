package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		input    string
		expected MatchBand
	}{
		{"95%", MatchHigh},
		{"80", MatchHigh},
		{"79%", MatchMedium},
		{"50%", MatchMedium},
		{"49%", MatchLow},
		{"0%", MatchLow},
		{"", MatchUnknown},
		{"n/a", MatchUnknown},
		{" 85 % ", MatchHigh},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, BandFor(tt.input))
		})
	}
}

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, th)
	assert.Equal(t, ThemeLight, th.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())

	_, err = ParseTheme("sepia")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "theme", vErr.Field)
}

func TestPercentage_Unmarshal(t *testing.T) {
	var a CompanyAnalysis
	require.NoError(t, json.Unmarshal([]byte(`{"match_percentage":72,"missing_skills":["Kafka"],"roadmap":[{"step":"Week 1","action":"Learn Kafka"}]}`), &a))
	assert.Equal(t, Percentage("72%"), a.MatchPercentage)
	assert.Equal(t, MatchMedium, a.MatchPercentage.Band())
	assert.Equal(t, "Week 1", a.Roadmap[0].Step)

	var j JobAnalysis
	require.NoError(t, json.Unmarshal([]byte(`{"role":"SDE","match_percentage":"88%"}`), &j))
	assert.Equal(t, MatchHigh, j.MatchPercentage.Band())
}

func TestRoadmapStep_NumericStep(t *testing.T) {
	var steps []RoadmapStep
	require.NoError(t, json.Unmarshal([]byte(`[{"step":1,"action":"learn"},{"step":"Week 2","action":"build"}]`), &steps))
	assert.Equal(t, []RoadmapStep{{Step: "1", Action: "learn"}, {Step: "Week 2", Action: "build"}}, steps)
}

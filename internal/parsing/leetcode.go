package parsing

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/talentmatrix/internal/types"
)

// Key fallback order for the LeetCode proxy. Providers behind the Gateway have
// changed several times; the first key present (even with a zero value) wins.
var (
	leetcodeTotalKeys  = []string{"totalSolved", "total", "total_solved", "totalSolvedQuestions", "total_problems_solved", "total_solved_questions"}
	leetcodeEasyKeys   = []string{"easy", "easySolved", "easy_count", "easy_solved"}
	leetcodeMediumKeys = []string{"medium", "mediumSolved", "medium_count", "medium_solved"}
	leetcodeHardKeys   = []string{"hard", "hardSolved", "hard_count", "hard_solved"}

	topicNameKeys   = []string{"topicName", "name", "topic", "key"}
	topicSolvedKeys = []string{"solved", "solvedCount", "count", "total"}

	topicStatsNameKeys   = []string{"name", "topic"}
	topicStatsSolvedKeys = []string{"solved", "count"}

	discoveredNameKeys   = []string{"topicName", "name", "title", "key"}
	discoveredSolvedKeys = []string{"solved", "count", "total", "questionsSolved"}
)

// maxDiscoveredTopics caps topics found by scanning unknown arrays.
const maxDiscoveredTopics = 50

const unknownTopic = "Unknown"

// NormalizeLeetCode converts any known LeetCode proxy payload into the
// canonical stats shape. Topics are resolved in this order:
//
//  1. "topics" as a non-empty array of objects
//  2. "topics_map" as an object of name -> count
//  3. "topicStats" as a non-empty array of objects
//  4. "topicsSolved" as an object of name -> count
//  5. any other array of objects that carry both a name and a count
//
// The returned Topics slice is never nil. When the total is missing but the
// difficulty counts are not, the total is their sum.
func NormalizeLeetCode(raw []byte) (*types.LeetCodeStats, error) {
	fields, err := orderedObject(raw)
	if err != nil {
		return nil, &ParseError{Message: "leetcode response is not an object", Cause: err}
	}
	byKey := fields.index()

	stats := &types.LeetCodeStats{
		Total:  firstCount(byKey, leetcodeTotalKeys),
		Easy:   firstCount(byKey, leetcodeEasyKeys),
		Medium: firstCount(byKey, leetcodeMediumKeys),
		Hard:   firstCount(byKey, leetcodeHardKeys),
		Topics: resolveTopics(fields, byKey),
	}

	if stats.Total == 0 && (stats.Easy != 0 || stats.Medium != 0 || stats.Hard != 0) {
		stats.Total = stats.Easy + stats.Medium + stats.Hard
	}
	return stats, nil
}

func resolveTopics(fields objectFields, byKey map[string]json.RawMessage) []types.TopicStat {
	if items := objectArray(byKey["topics"]); len(items) > 0 {
		return topicsFromItems(items, topicNameKeys, topicSolvedKeys)
	}
	if topics, ok := topicsFromMap(byKey["topics_map"]); ok {
		return topics
	}
	if items := objectArray(byKey["topicStats"]); len(items) > 0 {
		return topicsFromItems(items, topicStatsNameKeys, topicStatsSolvedKeys)
	}
	if topics, ok := topicsFromMap(byKey["topicsSolved"]); ok {
		return topics
	}
	return discoverTopics(fields)
}

func topicsFromItems(items []map[string]json.RawMessage, nameKeys, solvedKeys []string) []types.TopicStat {
	out := make([]types.TopicStat, 0, len(items))
	for _, item := range items {
		name := firstText(item, nameKeys)
		if name == "" {
			name = unknownTopic
		}
		out = append(out, types.TopicStat{TopicName: name, Solved: firstCount(item, solvedKeys)})
	}
	return out
}

func topicsFromMap(raw json.RawMessage) ([]types.TopicStat, bool) {
	if !isObject(raw) {
		return nil, false
	}
	fields, err := orderedObject(raw)
	if err != nil {
		return nil, false
	}
	out := make([]types.TopicStat, 0, len(fields))
	for _, f := range fields {
		n, _ := toCount(f.value)
		out = append(out, types.TopicStat{TopicName: f.key, Solved: n})
	}
	return out, true
}

// discoverTopics scans every array member for topic-like objects.
func discoverTopics(fields objectFields) []types.TopicStat {
	out := []types.TopicStat{}
	for _, f := range fields {
		for _, item := range objectArray(f.value) {
			name := firstText(item, discoveredNameKeys)
			solvedRaw, ok := firstPresent(item, discoveredSolvedKeys)
			if name == "" || !ok {
				continue
			}
			n, _ := toCount(solvedRaw)
			out = append(out, types.TopicStat{TopicName: name, Solved: n})
		}
	}
	if len(out) > maxDiscoveredTopics {
		out = out[:maxDiscoveredTopics]
	}
	return out
}

// LeetCodeHandle reduces a stored LeetCode profile URL to its trailing path
// segment. Bare handles are returned trimmed.
func LeetCodeHandle(handleOrURL string) string {
	return trailingSegment(handleOrURL, "leetcode.com")
}

// GithubHandle reduces a GitHub profile URL to the username. Bare usernames are
// returned trimmed.
func GithubHandle(handleOrURL string) string {
	s := strings.TrimSpace(handleOrURL)
	if !strings.Contains(s, "github.com") {
		return strings.TrimPrefix(s, "@")
	}
	if u, err := url.Parse(ensureScheme(s)); err == nil {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) > 0 {
			return parts[0]
		}
	}
	return ""
}

func trailingSegment(s, host string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, host) {
		return s
	}
	if u, err := url.Parse(ensureScheme(s)); err == nil {
		s = u.Path
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

func ensureScheme(s string) string {
	if strings.Contains(s, "://") {
		return s
	}
	return "https://" + s
}

// --- JSON helpers ---

type objectField struct {
	key   string
	value json.RawMessage
}

type objectFields []objectField

func (f objectFields) index() map[string]json.RawMessage {
	m := make(map[string]json.RawMessage, len(f))
	for _, kv := range f {
		m[kv.key] = kv.value
	}
	return m
}

// orderedObject decodes a JSON object keeping member order, which plain map
// decoding loses.
func orderedObject(raw []byte) (objectFields, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &ParseError{Message: "expected JSON object"}
	}

	var out objectFields
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, objectField{key: key, value: value})
	}
	return out, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func objectArray(raw json.RawMessage) []map[string]json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil
	}
	out := make([]map[string]json.RawMessage, 0, len(items))
	for _, item := range items {
		if !isObject(item) {
			continue
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(item, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// firstPresent returns the first key whose value is present and not null.
func firstPresent(m map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		return raw, true
	}
	return nil, false
}

func firstCount(m map[string]json.RawMessage, keys []string) int {
	raw, ok := firstPresent(m, keys)
	if !ok {
		return 0
	}
	n, _ := toCount(raw)
	return n
}

func firstText(m map[string]json.RawMessage, keys []string) string {
	raw, ok := firstPresent(m, keys)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// toCount accepts numbers and numeric strings. Anything else is zero.
func toCount(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return clampInt(f), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return clampInt(f), true
		}
	}
	return 0, false
}

// clampInt converts a count, treating NaN and negatives as zero and capping
// values beyond the int range.
func clampInt(f float64) int {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	}
	return int(f)
}

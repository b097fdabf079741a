package parsing

import (
	"strings"

	"github.com/jonathan/talentmatrix/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"c++":        "C++",
	"cpp":        "C++",
	"c#":         "C#",
	"mongodb":    "MongoDB",
	"mysql":      "MySQL",
	"postgresql": "PostgreSQL",
	"postgres":   "PostgreSQL",
	"html":       "HTML",
	"css":        "CSS",
	"sql":        "SQL",
	"aws":        "AWS",
}

// NormalizeSkillName normalizes a skill name extracted from a resume to its
// canonical form. Mixed-case names are kept as written.
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Mixed case: trust the author
	if normalized != strings.ToUpper(normalized) && normalized != lower {
		return normalized
	}

	// Single all-lower or all-upper word: capitalize the first letter only
	if !strings.Contains(normalized, " ") {
		return strings.ToUpper(lower[:1]) + lower[1:]
	}

	return normalized
}

// NormalizeSkillNames normalizes names and drops blanks and duplicates,
// keeping first-seen order. Names in existing (compared case-insensitively)
// are dropped too.
func NormalizeSkillNames(names []string, existing []string) []string {
	seen := make(map[string]bool, len(names)+len(existing))
	for _, e := range existing {
		seen[strings.ToLower(NormalizeSkillName(e))] = true
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		canonical := NormalizeSkillName(n)
		if canonical == "" {
			continue
		}
		key := strings.ToLower(canonical)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, canonical)
	}
	return out
}

// FlattenSkillCategories flattens a category -> names mapping in the order the
// categories are given.
func FlattenSkillCategories(categories []string, skills map[string][]string) []string {
	var out []string
	for _, c := range categories {
		out = append(out, skills[c]...)
	}
	return out
}

// NormalizeProficiency maps free-text levels ("expert", "INTERMEDIATE") onto
// the Gateway's proficiency values.
func NormalizeProficiency(level string) (types.Proficiency, error) {
	// Casers are stateful; one per call.
	p := types.Proficiency(cases.Title(language.English).String(strings.TrimSpace(level)))
	if !p.Valid() {
		return "", &types.ValidationError{
			Field:   "proficiency",
			Message: "must be one of Beginner, Intermediate, Expert",
		}
	}
	return p, nil
}

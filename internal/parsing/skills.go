package parsing

import (
	"encoding/json"
	"strings"
)

// SkillCategories decodes the resume extractor's category -> names object,
// returning the categories in the order the extractor sent them. Non-string
// entries are skipped; a category whose value is a single string becomes a
// one-element list.
func SkillCategories(raw json.RawMessage) ([]string, map[string][]string, error) {
	fields, err := orderedObject(raw)
	if err != nil {
		return nil, nil, &ParseError{Message: "skills is not an object", Cause: err}
	}

	order := make([]string, 0, len(fields))
	skills := make(map[string][]string, len(fields))
	for _, f := range fields {
		names := stringList(f.value)
		if _, dup := skills[f.key]; !dup {
			order = append(order, f.key)
		}
		skills[f.key] = names
	}
	return order, skills, nil
}

func stringList(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return []string{}
		}
		return []string{single}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

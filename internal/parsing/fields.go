package parsing

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/talentmatrix/internal/types"
)

// EditableProfileFields are the camelCase profile keys a client may update.
var EditableProfileFields = []string{
	"name",
	"rollNumber",
	"mobileNumber",
	"githubUsername",
	"linkedinUrl",
	"leetcodeUrl",
	"hackerrankUrl",
	"codechefUrl",
	"codeforcesUrl",
}

// CamelToSnake converts a camelCase key to the Gateway's snake_case form:
// every upper-case letter becomes "_" plus its lower-case form.
func CamelToSnake(key string) string {
	var sb strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			sb.WriteByte('_')
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ToWireFields converts a camelCase partial update into the snake_case body.
// Keys outside EditableProfileFields are rejected before any request is made.
func ToWireFields(partial map[string]string) (map[string]string, error) {
	if len(partial) == 0 {
		return nil, &types.ValidationError{Field: "fields", Message: "no fields to update"}
	}

	var unknown []string
	out := make(map[string]string, len(partial))
	for k, v := range partial {
		if !isEditable(k) {
			unknown = append(unknown, k)
			continue
		}
		out[wireName(k)] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &types.ValidationError{
			Field:   strings.Join(unknown, ","),
			Message: fmt.Sprintf("not an editable profile field (allowed: %s)", strings.Join(EditableProfileFields, ", ")),
		}
	}
	return out, nil
}

// ApplyFields merges a camelCase partial into the profile.
func ApplyFields(p *types.UserProfile, partial map[string]string) {
	for k, v := range partial {
		switch k {
		case "name":
			p.Name = v
		case "rollNumber":
			p.RollNumber = v
		case "mobileNumber":
			p.MobileNumber = v
		case "githubUsername":
			p.GithubUsername = v
		case "linkedinUrl":
			p.LinkedinURL = v
		case "leetcodeUrl":
			p.LeetcodeURL = v
		case "hackerrankUrl":
			p.HackerrankURL = v
		case "codechefUrl":
			p.CodechefURL = v
		case "codeforcesUrl":
			p.CodeforcesURL = v
		}
	}
}

// wireName maps a client key to its column. The display name is stored as
// full_name, which the mechanical conversion cannot produce.
func wireName(key string) string {
	if key == "name" {
		return "full_name"
	}
	return CamelToSnake(key)
}

func isEditable(key string) bool {
	for _, k := range EditableProfileFields {
		if k == key {
			return true
		}
	}
	return false
}

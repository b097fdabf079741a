package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

// ExtractResult is a successful resume skill extraction.
type ExtractResult struct {
	Categories []string            `json:"categories"` // category order as sent
	Skills     map[string][]string `json:"skills"`     // category -> skill names
	RawText    string              `json:"rawText"`
}

// Clone returns a deep copy of the result.
func (r *ExtractResult) Clone() *ExtractResult {
	if r == nil {
		return nil
	}
	out := &ExtractResult{
		Categories: slices.Clone(r.Categories),
		RawText:    r.RawText,
	}
	if r.Skills != nil {
		out.Skills = make(map[string][]string, len(r.Skills))
		for k, v := range r.Skills {
			out.Skills[k] = slices.Clone(v)
		}
	}
	return out
}

type extractEnvelope struct {
	Success bool            `json:"success"`
	Skills  json.RawMessage `json:"skills"`
	RawText string          `json:"rawText"`
}

// ExtractSkills uploads a resume to the extractor. A 2xx reply that reports
// no success or carries no skills is returned as an *Error whose
// ServerMessage is the extractor's raw text, or "No skills found".
func (c *Client) ExtractSkills(ctx context.Context, file types.FileUpload) (*ExtractResult, error) {
	const op = "extract resume"
	resp, err := c.doMultipart(ctx, op, http.MethodPost, "/api/resume/extract",
		nil, []formFile{{field: "file", file: &file}}, "Parse failed")
	if err != nil {
		return nil, err
	}

	var env extractEnvelope
	if err := decode(op, resp, &env); err != nil {
		return nil, err
	}
	skills := bytes.TrimSpace(env.Skills)
	if !env.Success || len(skills) == 0 || bytes.Equal(skills, []byte("null")) {
		msg := env.RawText
		if msg == "" {
			msg = "No skills found"
		}
		return nil, &Error{Op: op, StatusCode: resp.status, Message: msg, ServerMessage: msg}
	}

	order, byCategory, err := parsing.SkillCategories(skills)
	if err != nil {
		return nil, &Error{Op: op, StatusCode: resp.status, Message: "invalid response from Gateway", Cause: err}
	}
	return &ExtractResult{Categories: order, Skills: byCategory, RawText: env.RawText}, nil
}

package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

// Profile fetches the flat profile record and normalizes it.
func (c *Client) Profile(ctx context.Context, userID types.ID) (types.UserProfile, error) {
	const op = "fetch profile"
	resp, err := c.get(ctx, op, "/api/signup/"+pathID(userID), nil, "Failed to fetch user")
	if err != nil {
		return types.UserProfile{}, err
	}
	p, err := parsing.ProfileFromGateway(resp.body)
	if err != nil {
		return types.UserProfile{}, &Error{Op: op, StatusCode: resp.status, Message: "invalid response from Gateway", Cause: err}
	}
	return p, nil
}

// Skills lists the user's skills.
func (c *Client) Skills(ctx context.Context, userID types.ID) ([]types.Skill, error) {
	const op = "fetch skills"
	resp, err := c.get(ctx, op, "/api/signup/"+pathID(userID)+"/skills", nil, "Failed to fetch skills")
	if err != nil {
		return nil, err
	}
	skills := []types.Skill{}
	if err := decode(op, resp, &skills); err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []types.Skill{}
	}
	return skills, nil
}

// Projects lists the user's manual projects.
func (c *Client) Projects(ctx context.Context, userID types.ID) ([]types.Project, error) {
	const op = "fetch projects"
	resp, err := c.get(ctx, op, "/api/projects/"+pathID(userID), nil, "Failed to fetch projects")
	if err != nil {
		return nil, err
	}
	projects := []types.Project{}
	if err := decode(op, resp, &projects); err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Source = types.SourceManual
	}
	if projects == nil {
		projects = []types.Project{}
	}
	return projects, nil
}

type skillBody struct {
	StudentID   types.ID          `json:"student_id"`
	SkillName   string            `json:"skill_name"`
	Proficiency types.Proficiency `json:"proficiency"`
	Tags        string            `json:"tags"`
}

// AddSkill creates a skill and returns the Gateway's record.
func (c *Client) AddSkill(ctx context.Context, userID types.ID, draft types.SkillDraft) (types.Skill, error) {
	const op = "save skill"
	body := skillBody{StudentID: userID, SkillName: draft.Name, Proficiency: draft.Proficiency, Tags: draft.Tags}
	resp, err := c.doJSON(ctx, op, http.MethodPost, "/api/signup/skills", body, "Failed to save skill")
	if err != nil {
		return types.Skill{}, err
	}
	var skill types.Skill
	if err := decode(op, resp, &skill); err != nil {
		return types.Skill{}, err
	}
	if skill.ID.IsZero() {
		return types.Skill{}, &Error{Op: op, StatusCode: resp.status, Message: "Gateway returned a skill without an id"}
	}
	return skill, nil
}

// DeleteSkill deletes a skill by id.
func (c *Client) DeleteSkill(ctx context.Context, skillID types.ID) error {
	_, err := c.do(ctx, call{op: "delete skill", method: http.MethodDelete, path: "/api/signup/skills/" + pathID(skillID), fallback: "Failed to delete skill"})
	return err
}

type projectBody struct {
	StudentID   types.ID `json:"student_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Tags        string   `json:"tags"`
}

// AddProject creates a manual project and returns the Gateway's record.
func (c *Client) AddProject(ctx context.Context, userID types.ID, draft types.ProjectDraft) (types.Project, error) {
	const op = "add project"
	body := projectBody{StudentID: userID, Title: draft.Title, Description: draft.Description, Link: draft.Link, Tags: draft.Tags}
	resp, err := c.doJSON(ctx, op, http.MethodPost, "/api/projects", body, "Failed to add project")
	if err != nil {
		return types.Project{}, err
	}
	var project types.Project
	if err := decode(op, resp, &project); err != nil {
		return types.Project{}, err
	}
	if project.ID.IsZero() {
		return types.Project{}, &Error{Op: op, StatusCode: resp.status, Message: "Gateway returned a project without an id"}
	}
	project.Source = types.SourceManual
	return project, nil
}

// DeleteProject deletes a manual project by id.
func (c *Client) DeleteProject(ctx context.Context, projectID types.ID) error {
	_, err := c.do(ctx, call{op: "delete project", method: http.MethodDelete, path: "/api/projects/" + pathID(projectID), fallback: "Failed to delete project"})
	return err
}

// UpdateProfile sends a snake_case partial update.
func (c *Client) UpdateProfile(ctx context.Context, userID types.ID, wire map[string]string) error {
	_, err := c.doJSON(ctx, "update profile", http.MethodPut, "/api/signup/"+pathID(userID), wire, "Update failed")
	return err
}

// UploadResume replaces the stored resume and returns its new URL.
func (c *Client) UploadResume(ctx context.Context, userID types.ID, file types.FileUpload) (string, error) {
	const op = "upload resume"
	resp, err := c.doMultipart(ctx, op, http.MethodPut, "/api/signup/"+pathID(userID)+"/resume",
		nil, []formFile{{field: "resume", file: &file}}, "Upload failed")
	if err != nil {
		return "", err
	}
	return urlField(op, resp, "resumeUrl", "resume_url")
}

// UploadPhoto replaces the profile image and returns its new URL.
func (c *Client) UploadPhoto(ctx context.Context, userID types.ID, file types.FileUpload) (string, error) {
	const op = "upload photo"
	resp, err := c.doMultipart(ctx, op, http.MethodPut, "/api/signup/"+pathID(userID)+"/profile-image",
		nil, []formFile{{field: "profileImage", file: &file}}, "Upload failed")
	if err != nil {
		return "", err
	}
	return urlField(op, resp, "imageUrl", "profile_image_url")
}

func urlField(op string, resp *response, keys ...string) (string, error) {
	var m map[string]json.RawMessage
	if err := decode(op, resp, &m); err != nil {
		return "", err
	}
	for _, k := range keys {
		var s string
		if raw, ok := m[k]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s, nil
		}
	}
	return "", &Error{Op: op, StatusCode: resp.status, Message: "upload response has no URL"}
}

// LeetCode fetches stats for a handle through the Gateway's proxy.
func (c *Client) LeetCode(ctx context.Context, handle string) (*types.LeetCodeStats, error) {
	const op = "fetch leetcode"
	resp, err := c.get(ctx, op, "/api/leetcode/"+pathID(types.ID(handle)), nil, "LeetCode fetch failed")
	if err != nil {
		return nil, err
	}
	stats, err := parsing.NormalizeLeetCode(resp.body)
	if err != nil {
		return nil, &Error{Op: op, StatusCode: resp.status, Message: "invalid response from Gateway", Cause: err}
	}
	return stats, nil
}

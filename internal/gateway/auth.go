package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/jonathan/talentmatrix/internal/types"
)

// Login posts the credentials and returns the authenticated user's id.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (types.ID, error) {
	const op = "login"
	resp, err := c.doJSON(ctx, op, http.MethodPost, "/api/login", req, "Login failed")
	if err != nil {
		return "", err
	}
	var out types.LoginResponse
	if err := decode(op, resp, &out); err != nil {
		return "", err
	}
	if out.User.ID.IsZero() {
		return "", &Error{Op: op, StatusCode: resp.status, Message: "login response has no user id"}
	}
	return out.User.ID, nil
}

// Signup creates the account and returns the created record as sent.
func (c *Client) Signup(ctx context.Context, req types.SignupRequest) (types.SignupRecord, error) {
	const op = "signup"
	resp, err := c.doJSON(ctx, op, http.MethodPost, "/api/signup", req, "Signup failed")
	if err != nil {
		return types.SignupRecord{}, err
	}
	if !json.Valid(resp.body) {
		return types.SignupRecord{}, &Error{Op: op, StatusCode: resp.status, Message: "invalid response from Gateway"}
	}
	return types.SignupRecord{Raw: json.RawMessage(resp.body)}, nil
}

// SubmitPlacement sends the academic details and files that complete a
// registration. grades holds gpa_sem_N -> value and is sent as-is.
func (c *Client) SubmitPlacement(ctx context.Context, userID types.ID, req types.PlacementRequest, grades map[string]string) error {
	fields := []formField{
		{name: "userId", value: userID.String()},
		{name: "FullName", value: req.FullName},
		{name: "RollNumber", value: req.RollNumber},
		{name: "Year", value: req.Year},
		{name: "Semester", value: req.Semester},
	}
	columns := make([]string, 0, len(grades))
	for k := range grades {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	for _, k := range columns {
		fields = append(fields, formField{name: k, value: grades[k]})
	}

	files := []formFile{
		{field: "imageUpload", file: req.Image},
		{field: "resumeUpload", file: req.Resume},
	}
	_, err := c.doMultipart(ctx, "submit placement", http.MethodPost, "/api/placement", fields, files, "Placement save failed")
	return err
}

package gateway

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonathan/talentmatrix/internal/types"
)

// SearchJobs runs a job search. Blank criteria are replaced with defaults.
func (c *Client) SearchJobs(ctx context.Context, criteria types.SearchCriteria) ([]types.Job, error) {
	const op = "search jobs"
	criteria = criteria.WithDefaults()
	q := url.Values{}
	q.Set("query", criteria.Query)
	q.Set("location", criteria.Location)
	q.Set("level", criteria.Level)

	resp, err := c.get(ctx, op, "/api/jobs", q, "Failed to fetch jobs")
	if err != nil {
		return nil, err
	}
	jobs := []types.Job{}
	if err := decode(op, resp, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []types.Job{}
	}
	return jobs, nil
}

// SaveAppliedJob records a job for the student. A duplicate is reported as
// *ConflictError.
func (c *Client) SaveAppliedJob(ctx context.Context, job types.AppliedJob) error {
	const op = "save job"
	body, err := job.RequestBody()
	if err != nil {
		return &Error{Op: op, Message: "failed to encode request", Cause: err}
	}
	_, err = c.do(ctx, call{
		op:          op,
		method:      http.MethodPost,
		path:        "/api/applied-jobs",
		body:        bytes.NewReader(body),
		contentType: "application/json",
		fallback:    "Failed to save job",
	})
	var gwErr *Error
	if errors.As(err, &gwErr) && isConflict(gwErr) {
		msg := gwErr.ServerMessage
		if msg == "" {
			msg = "Job already saved"
		}
		return &ConflictError{Op: op, Message: msg}
	}
	return err
}

func isConflict(e *Error) bool {
	return e.StatusCode == http.StatusConflict ||
		strings.Contains(strings.ToLower(e.ServerMessage), "already")
}

// AppliedJobs lists the jobs a student has saved.
func (c *Client) AppliedJobs(ctx context.Context, studentID types.ID) ([]types.AppliedJob, error) {
	const op = "load applied jobs"
	resp, err := c.get(ctx, op, "/api/applied-jobs/"+pathID(studentID), nil, "Failed to load your saved jobs")
	if err != nil {
		return nil, err
	}
	jobs := []types.AppliedJob{}
	if err := decode(op, resp, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []types.AppliedJob{}
	}
	return jobs, nil
}

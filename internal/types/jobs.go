package types

import (
	"encoding/json"
	"time"
)

// Job is a single job listing returned by the Gateway's job search.
type Job struct {
	Position string `json:"position"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Salary   string `json:"salary,omitempty"`
	JobURL   string `json:"jobUrl"`
}

// SearchCriteria holds the job search form fields.
type SearchCriteria struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	Level    string `json:"level"`
}

// Job search defaults substituted for blank criteria.
const (
	DefaultJobQuery    = "Software Engineer"
	DefaultJobLocation = "India"
	DefaultJobLevel    = "entry level"
)

// WithDefaults returns a copy with blank fields replaced by the documented defaults.
func (c SearchCriteria) WithDefaults() SearchCriteria {
	if c.Query == "" {
		c.Query = DefaultJobQuery
	}
	if c.Location == "" {
		c.Location = DefaultJobLocation
	}
	if c.Level == "" {
		c.Level = DefaultJobLevel
	}
	return c
}

// AppliedJob is a saved job posting. The wire format is snake_case.
type AppliedJob struct {
	ID          ID     `json:"id,omitempty"`
	StudentID   ID     `json:"student_id"`
	JobTitle    string `json:"job_title" validate:"required"`
	CompanyName string `json:"company_name"`
	JobURL      string `json:"job_url" validate:"required"`
	Location    string `json:"location"`
	PostedDate  string `json:"posted_date"`
}

// Validate validates the AppliedJob using the validator.
func (j *AppliedJob) Validate() error {
	return check(j)
}

// UnmarshalJSON tolerates the camelCase variant some Gateway revisions emit.
func (j *AppliedJob) UnmarshalJSON(data []byte) error {
	m, err := rawFields(data)
	if err != nil {
		return err
	}
	*j = AppliedJob{
		ID:          firstID(m, "id", "_id"),
		StudentID:   firstID(m, "student_id", "studentId"),
		JobTitle:    firstString(m, "job_title", "jobTitle"),
		CompanyName: firstString(m, "company_name", "companyName"),
		JobURL:      firstString(m, "job_url", "jobUrl"),
		Location:    firstString(m, "location"),
		PostedDate:  firstString(m, "posted_date", "postedDate"),
	}
	return nil
}

// NewAppliedJob maps a search result to the record saved for a student.
// A missing posting date defaults to now.
func NewAppliedJob(studentID ID, job Job, now time.Time) AppliedJob {
	posted := job.Date
	if posted == "" {
		posted = now.UTC().Format(time.RFC3339)
	}
	return AppliedJob{
		StudentID:   studentID,
		JobTitle:    job.Position,
		CompanyName: job.Company,
		JobURL:      job.JobURL,
		Location:    job.Location,
		PostedDate:  posted,
	}
}

// appliedJobBody is the outbound body; the id is never sent.
type appliedJobBody struct {
	StudentID   ID     `json:"student_id"`
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
	JobURL      string `json:"job_url"`
	Location    string `json:"location"`
	PostedDate  string `json:"posted_date"`
}

// RequestBody returns the JSON body for POST /api/applied-jobs.
func (j AppliedJob) RequestBody() ([]byte, error) {
	return json.Marshal(appliedJobBody{
		StudentID:   j.StudentID,
		JobTitle:    j.JobTitle,
		CompanyName: j.CompanyName,
		JobURL:      j.JobURL,
		Location:    j.Location,
		PostedDate:  j.PostedDate,
	})
}

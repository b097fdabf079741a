// Package github lists a user's public repositories from the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonathan/talentmatrix/internal/types"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// RepoPageSize is the number of most recently updated repos requested.
const RepoPageSize = 20

// Repo is the subset of repository fields the profile uses.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Language    string `json:"language"`
}

// Error represents a failed GitHub call.
type Error struct {
	Username   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("github repos for %s: %s: %v", e.Username, e.Message, e.Cause)
	}
	return fmt.Sprintf("github repos for %s: %s", e.Username, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	Token      string // optional; raises the rate limit
	UserAgent  string
	Timeout    time.Duration // zero means no timeout
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *slog.Logger
}

// DefaultOptions returns sensible defaults. Unauthenticated callers get 60
// requests an hour, so requests are spaced client-side.
func DefaultOptions() *Options {
	return &Options{
		UserAgent: "TalentMatrix/1.0",
		Timeout:   15 * time.Second,
		Limiter:   rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// Client is a minimal GitHub REST client. It is safe for concurrent use.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// New creates a client for baseURL (usually DefaultBaseURL).
func New(baseURL string, opts *Options) *Client {
	defaults := DefaultOptions()
	if opts == nil {
		opts = defaults
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = defaults.Limiter
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaults.UserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     opts.Token,
		userAgent: ua,
		http:      hc,
		limiter:   limiter,
		logger:    logger,
	}
}

// UserRepos lists the user's most recently updated public repositories.
func (c *Client) UserRepos(ctx context.Context, username string) ([]Repo, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &Error{Message: "username is empty"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Username: username, Message: "rate limiter", Cause: err}
	}

	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", strconv.Itoa(RepoPageSize))
	u := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Username: username, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Username: username, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("github repos request rejected",
			"username", username,
			"status", resp.StatusCode,
			"ratelimit_remaining", resp.Header.Get("X-RateLimit-Remaining"))
		return nil, &Error{Username: username, StatusCode: resp.StatusCode, Message: fmt.Sprintf("github API status %d", resp.StatusCode)}
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, &Error{Username: username, StatusCode: resp.StatusCode, Message: "invalid response", Cause: err}
	}
	return repos, nil
}

// Projects maps repos to read-only profile projects, keeping only repos with a
// non-blank description.
func Projects(repos []Repo) []types.Project {
	out := make([]types.Project, 0, len(repos))
	for _, r := range repos {
		if r.Name == "" || strings.TrimSpace(r.Description) == "" {
			continue
		}
		out = append(out, types.Project{
			ID:          types.ID(strconv.FormatInt(r.ID, 10)),
			Title:       r.Name,
			Description: r.Description,
			Link:        r.HTMLURL,
			Tags:        r.Language,
			Source:      types.SourceGithub,
		})
	}
	return out
}

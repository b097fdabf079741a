// Package gateway is a typed HTTP client for the TalentMatrix Gateway, the
// remote JSON API that owns all persistence, scraping and AI analysis.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/talentmatrix/internal/types"
)

// DefaultUserAgent is the user agent string for Gateway requests.
const DefaultUserAgent = "TalentMatrix/1.0"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxResponseBytes caps Gateway response bodies.
const maxResponseBytes = 10 << 20

// Options configures the client.
type Options struct {
	Timeout    time.Duration // zero means no timeout
	UserAgent  string
	HTTPClient *http.Client
	Logger     *slog.Logger
	RequestID  func() string
}

// DefaultOptions returns sensible defaults for the client.
func DefaultOptions() *Options {
	return &Options{
		UserAgent: DefaultUserAgent,
		Logger:    slog.Default(),
		RequestID: uuid.NewString,
	}
}

// Client talks to one Gateway base URL. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	logger    *slog.Logger
	requestID func() string
}

// New creates a client for baseURL.
func New(baseURL string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rid := opts.RequestID
	if rid == nil {
		rid = uuid.NewString
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      hc,
		userAgent: ua,
		logger:    logger,
		requestID: rid,
	}
}

// BaseURL returns the Gateway base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one Gateway request.
type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// fallback is the message used when the Gateway sends no error text.
	fallback string
}

// response is a completed 2xx exchange.
type response struct {
	status int
	body   []byte
}

func (c *Client) do(ctx context.Context, cl call) (*response, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, cl.body)
	if err != nil {
		return nil, &Error{Op: cl.op, Message: "failed to create request", Cause: err}
	}
	reqID := c.requestID()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("gateway request failed",
			"op", cl.op, "method", cl.method, "path", cl.path, "request_id", reqID, "error", err)
		return nil, &Error{Op: cl.op, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Op: cl.op, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	c.logger.Debug("gateway request",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverMsg := errorText(body)
		msg := serverMsg
		if msg == "" {
			msg = fmt.Sprintf("%s (%d)", cl.fallback, resp.StatusCode)
		}
		return nil, &Error{Op: cl.op, StatusCode: resp.StatusCode, Message: msg, ServerMessage: serverMsg}
	}
	return &response{status: resp.StatusCode, body: body}, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in any, fallback string) (*response, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, &Error{Op: op, Message: "failed to encode request", Cause: err}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, call{op: op, method: method, path: path, body: body, contentType: contentType, fallback: fallback})
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, fallback string) (*response, error) {
	return c.do(ctx, call{op: op, method: http.MethodGet, path: path, query: query, fallback: fallback})
}

// formField is a plain multipart field.
type formField struct {
	name  string
	value string
}

// formFile is a multipart file part.
type formFile struct {
	field string
	file  *types.FileUpload
}

func (c *Client) doMultipart(ctx context.Context, op, method, path string, fields []formField, files []formFile, fallback string) (*response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, &Error{Op: op, Message: "failed to encode form", Cause: err}
		}
	}
	for _, f := range files {
		if f.file == nil {
			continue
		}
		if err := writeFile(w, f.field, f.file); err != nil {
			return nil, &Error{Op: op, Message: "failed to encode file " + f.field, Cause: err}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &Error{Op: op, Message: "failed to encode form", Cause: err}
	}
	return c.do(ctx, call{op: op, method: method, path: path, body: &buf, contentType: w.FormDataContentType(), fallback: fallback})
}

func writeFile(w *multipart.Writer, field string, file *types.FileUpload) error {
	name := file.Name
	if name == "" {
		name = field
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if file.Body == nil {
		return nil
	}
	_, err = io.Copy(part, file.Body)
	return err
}

// decode unmarshals a 2xx body, mapping failures to *Error.
func decode(op string, resp *response, out any) error {
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &Error{Op: op, StatusCode: resp.status, Message: "invalid response from Gateway", Cause: err}
	}
	return nil
}

// errorText extracts "error" or "message" from a JSON error body.
func errorText(body []byte) string {
	var envelope struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	switch v := envelope.Error.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if m, ok := v["message"].(string); ok && m != "" {
			return m
		}
	}
	return envelope.Message
}

func pathID(id types.ID) string {
	return url.PathEscape(id.String())
}

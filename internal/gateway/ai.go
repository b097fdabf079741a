package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/talentmatrix/internal/schemas"
	"github.com/jonathan/talentmatrix/internal/types"
)

type aiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Companies lists the target company catalogue.
func (c *Client) Companies(ctx context.Context) ([]types.TargetCompany, error) {
	const op = "list companies"
	resp, err := c.get(ctx, op, "/api/ai/companies", nil, "Failed to load company list.")
	if err != nil {
		return nil, err
	}
	var env aiEnvelope
	if err := decode(op, resp, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure(op, resp, env.Error, "Failed to load company list.")
	}
	if err := schemas.Validate(schemas.Companies, env.Data); err != nil {
		return nil, &Error{Op: op, StatusCode: resp.status, Message: "invalid company list", Cause: err}
	}
	companies := []types.TargetCompany{}
	if err := json.Unmarshal(env.Data, &companies); err != nil {
		return nil, &Error{Op: op, StatusCode: resp.status, Message: "invalid company list", Cause: err}
	}
	return companies, nil
}

// AnalyzeCareer requests the AI career report.
func (c *Client) AnalyzeCareer(ctx context.Context, req types.CareerRequest) (*types.CareerReport, error) {
	const op = "analyze career"
	resp, err := c.doJSON(ctx, op, http.MethodPost, "/api/ai/analyze-career", req, "Analysis failed.")
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.CareerReport, resp.body); err != nil {
		return nil, &Error{Op: op, StatusCode: resp.status, Message: "invalid career report", Cause: err}
	}
	var report types.CareerReport
	if err := decode(op, resp, &report); err != nil {
		return nil, err
	}
	if !report.Success {
		return nil, failure(op, resp, report.Error, "Analysis failed.")
	}
	return &report, nil
}

// AnalyzeCompany requests the AI analysis against one target company.
func (c *Client) AnalyzeCompany(ctx context.Context, req types.CompanyRequest) (*types.CompanyAnalysis, error) {
	const op = "analyze company"
	resp, err := c.doJSON(ctx, op, http.MethodPost, "/api/ai/analyze-target-company", req, "Analysis failed")
	if err != nil {
		return nil, err
	}
	var env aiEnvelope
	if err := decode(op, resp, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure(op, resp, env.Error, "Analysis failed")
	}
	if err := schemas.Validate(schemas.CompanyAnalysis, env.Data); err != nil {
		return nil, &Error{Op: op, StatusCode: resp.status, Message: "invalid company analysis", Cause: err}
	}
	var analysis types.CompanyAnalysis
	if err := json.Unmarshal(env.Data, &analysis); err != nil {
		return nil, &Error{Op: op, StatusCode: resp.status, Message: "invalid company analysis", Cause: err}
	}
	return &analysis, nil
}

// failure reports a 2xx reply with success=false.
func failure(op string, resp *response, serverMsg, fallback string) *Error {
	msg := serverMsg
	if msg == "" {
		msg = fallback
	}
	return &Error{Op: op, StatusCode: resp.status, Message: msg, ServerMessage: serverMsg}
}

package models

import "fmt"

// LambdaEvent is the input event for Lambda invocation.
type LambdaEvent struct {
	DryRun     *bool  `json:"dry_run,omitempty"`
	Source     string `json:"source,omitempty"`
	DetailType string `json:"detail-type,omitempty"`
}

// IsDryRun returns the effective dry-run setting.
func (e *LambdaEvent) IsDryRun(defaultValue bool) bool {
	if e != nil && e.DryRun != nil {
		return *e.DryRun
	}
	return defaultValue
}

// LambdaResponse is the output from Lambda invocation.
type LambdaResponse struct {
	StatusCode int        `json:"status_code"`
	Message    string     `json:"message"`
	Result     *RunResult `json:"result,omitempty"`
}

// NewSuccessResponse creates a success response.
func NewSuccessResponse(result *RunResult) *LambdaResponse {
	msg := fmt.Sprintf("Integration completed: %d courses, %d participants processed",
		result.Summary.Courses, result.Counters.Processed)
	if result.DryRun {
		msg = "[DRY RUN] " + msg
	}
	return &LambdaResponse{
		StatusCode: 200,
		Message:    msg,
		Result:     result,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(err error) *LambdaResponse {
	return &LambdaResponse{
		StatusCode: 500,
		Message:    err.Error(),
	}
}

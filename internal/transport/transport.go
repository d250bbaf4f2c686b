// Package transport holds the HTTP plumbing shared by the Canvas and XNAT clients.
package transport

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/daniloc96/canvas-xnat-sync/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// maxBodyInError caps how much of a response body is kept in an APIError.
const maxBodyInError = 512

// APIError is returned when a service answers with an unexpected status.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// NewAPIError builds an APIError from a resty response.
func NewAPIError(operation string, resp *resty.Response) *APIError {
	return &APIError{Operation: operation, StatusCode: resp.StatusCode(), Body: truncateBody(resp.Body())}
}

// truncateBody caps body at maxBodyInError bytes without splitting a rune.
func truncateBody(body []byte) string {
	if len(body) <= maxBodyInError {
		return string(body)
	}
	cut := maxBodyInError
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// ErrorFields returns logging fields describing err, including status and body when known.
func ErrorFields(err error) logrus.Fields {
	fields := logrus.Fields{"error": err.Error()}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		fields["status_code"] = apiErr.StatusCode
		if apiErr.Body != "" {
			fields["body"] = apiErr.Body
		}
	}
	return fields
}

// New builds a resty client on top of httpClient with the shared retry policy.
// Resty's own diagnostics go through logrus.
func New(httpClient *http.Client, baseURL string, policy config.RetryConfig) *resty.Client {
	var client *resty.Client
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	} else {
		client = resty.New()
	}
	client.SetBaseURL(baseURL).SetLogger(logrus.StandardLogger())
	return ConfigureRetry(client, policy)
}

// ConfigureRetry applies the bounded retry policy to client.
// Network errors, 429 and 5xx answers are retried; everything else fails fast.
func ConfigureRetry(client *resty.Client, policy config.RetryConfig) *resty.Client {
	if policy.MaxAttempts <= 0 {
		return client.SetRetryCount(0)
	}
	wait := policy.Wait
	if wait <= 0 {
		wait = 500 * time.Millisecond
	}
	maxWait := policy.MaxWait
	if maxWait < wait {
		maxWait = wait
	}
	return client.
		SetRetryCount(policy.MaxAttempts).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(maxWait).
		AddRetryCondition(IsRetryable)
}

// IsRetryable reports whether a request outcome is worth another attempt.
func IsRetryable(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/daniloc96/canvas-xnat-sync/internal/config"
	"github.com/daniloc96/canvas-xnat-sync/internal/models"
	"github.com/daniloc96/canvas-xnat-sync/internal/transport"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/tomnomnom/linkheader"
	"golang.org/x/oauth2"
)

const defaultPerPage = 100

// Options tune the Canvas client.
type Options struct {
	// PerPage is the page size requested from list endpoints.
	PerPage int
	// EnrollmentType restricts course discovery to courses where the token's
	// user holds this enrollment (e.g. "teacher"). Empty lists every course.
	EnrollmentType string
	Timeout        time.Duration
	Retry          config.RetryConfig
}

// Client implements Canvas course and enrollment operations.
type Client struct {
	http           *resty.Client
	perPage        int
	enrollmentType string
}

// NewClient creates a Canvas client authenticated with a bearer token.
func NewClient(ctx context.Context, baseURL string, token string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("canvas url is required")
	}
	if token == "" {
		return nil, fmt.Errorf("canvas token is required")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = opts.Timeout

	rc := transport.New(httpClient, baseURL, opts.Retry).SetHeader("Accept", "application/json")
	return newClient(rc, opts), nil
}

func newClient(rc *resty.Client, opts Options) *Client {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Client{http: rc, perPage: perPage, enrollmentType: opts.EnrollmentType}
}

// ListCourses lists the courses visible to the token, following pagination.
// On failure it returns the courses fetched before the error alongside it.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(c.perPage))
	if c.enrollmentType != "" {
		params.Set("enrollment_type", c.enrollmentType)
	}
	courses, err := listAll[models.Course](ctx, c.http, "/courses", params)
	if err != nil {
		return courses, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

// ListParticipants lists the users enrolled in a course, following pagination.
// On failure it returns the participants fetched before the error alongside it.
func (c *Client) ListParticipants(ctx context.Context, courseID int64) ([]models.Participant, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(c.perPage))
	params.Add("include[]", "email")
	path := fmt.Sprintf("/courses/%d/users", courseID)
	participants, err := listAll[models.Participant](ctx, c.http, path, params)
	if err != nil {
		return participants, fmt.Errorf("listing participants of course %d: %w", courseID, err)
	}
	return participants, nil
}

// listAll walks a Canvas collection through its Link headers.
func listAll[T any](ctx context.Context, rc *resty.Client, path string, params url.Values) ([]T, error) {
	var result []T
	next := path
	for page := 1; next != ""; page++ {
		req := rc.R().SetContext(ctx)
		if page == 1 {
			req.SetQueryParamsFromValues(params)
		}
		resp, err := req.Get(next)
		if err != nil {
			return result, fmt.Errorf("page %d: %w", page, err)
		}
		if !resp.IsSuccess() {
			return result, transport.NewAPIError(fmt.Sprintf("GET %s page %d", path, page), resp)
		}

		var items []T
		if err := json.Unmarshal(resp.Body(), &items); err != nil {
			return result, fmt.Errorf("decoding page %d: %w", page, err)
		}
		result = append(result, items...)

		next = nextLink(resp.Header().Get("Link"))
		logrus.WithFields(logrus.Fields{
			"path":     path,
			"page":     page,
			"items":    len(items),
			"has_next": next != "",
		}).Debug("fetched Canvas page")
	}
	return result, nil
}

// nextLink extracts the rel="next" URL from a Canvas Link header.
func nextLink(header string) string {
	if header == "" {
		return ""
	}
	for _, link := range linkheader.Parse(header).FilterByRel("next") {
		if link.URL != "" {
			return link.URL
		}
	}
	return ""
}

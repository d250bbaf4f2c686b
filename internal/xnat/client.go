package xnat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daniloc96/canvas-xnat-sync/internal/config"
	"github.com/daniloc96/canvas-xnat-sync/internal/models"
	"github.com/daniloc96/canvas-xnat-sync/internal/transport"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const sessionCookie = "JSESSIONID"

// ErrNoSession is returned when a call is made without an authenticated session.
var ErrNoSession = errors.New("xnat session is required")

// Options tune the XNAT client.
type Options struct {
	Timeout time.Duration
	Retry   config.RetryConfig
}

// Client implements XNAT account and project operations.
type Client struct {
	http     *resty.Client
	username string
	password string
}

// NewClient creates an XNAT client. Credentials are only used to open a session.
func NewClient(baseURL string, username string, password string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("xnat url is required")
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("xnat username and password are required")
	}
	httpClient := &http.Client{Timeout: opts.Timeout}
	return &Client{
		http:     transport.New(httpClient, baseURL, opts.Retry),
		username: username,
		password: password,
	}, nil
}

// AcquireSession opens an authenticated session using basic auth.
func (c *Client) AcquireSession(ctx context.Context) (*models.Session, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.username, c.password).
		Post("/data/JSESSION")
	if err != nil {
		return nil, fmt.Errorf("acquiring session: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, transport.NewAPIError("acquire session", resp)
	}

	token := ""
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie {
			token = cookie.Value
		}
	}
	if token == "" {
		token = strings.TrimSpace(string(resp.Body()))
	}
	if token == "" {
		return nil, fmt.Errorf("acquiring session: no %s in response", sessionCookie)
	}

	return &models.Session{Token: token, Username: c.username, AcquiredAt: time.Now()}, nil
}

// ReleaseSession invalidates the session on the server.
func (c *Client) ReleaseSession(ctx context.Context, session *models.Session) error {
	req, err := c.request(ctx, session)
	if err != nil {
		return err
	}
	resp, err := req.Delete("/data/JSESSION")
	if err != nil {
		return fmt.Errorf("releasing session: %w", err)
	}
	if !resp.IsSuccess() {
		return transport.NewAPIError("release session", resp)
	}
	return nil
}

// ListAccounts returns the directory of XNAT logins.
func (c *Client) ListAccounts(ctx context.Context, session *models.Session) (models.AccountDirectory, error) {
	req, err := c.request(ctx, session)
	if err != nil {
		return nil, err
	}
	resp, err := req.Get("/xapi/users")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, transport.NewAPIError("list users", resp)
	}
	var logins []string
	if err := json.Unmarshal(resp.Body(), &logins); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	return models.NewAccountDirectory(logins), nil
}

type resultSet[T any] struct {
	ResultSet struct {
		Result []T `json:"Result"`
	} `json:"ResultSet"`
}

// ListProjectIDs returns the ids of every project visible to the session.
func (c *Client) ListProjectIDs(ctx context.Context, session *models.Session) ([]string, error) {
	req, err := c.request(ctx, session)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetQueryParam("format", "json").Get("/data/projects")
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, transport.NewAPIError("list projects", resp)
	}
	var projects resultSet[struct {
		ID string `json:"ID"`
	}]
	if err := json.Unmarshal(resp.Body(), &projects); err != nil {
		return nil, fmt.Errorf("decoding projects: %w", err)
	}
	ids := make([]string, 0, len(projects.ResultSet.Result))
	for _, p := range projects.ResultSet.Result {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// CreateProject submits a minimal project document.
func (c *Client) CreateProject(ctx context.Context, session *models.Session, project models.ProjectDescriptor) error {
	body, err := MarshalProject(project)
	if err != nil {
		return err
	}
	req, err := c.request(ctx, session)
	if err != nil {
		return err
	}
	resp, err := req.
		SetHeader("Content-Type", "application/xml").
		SetBody(body).
		Post("/data/projects")
	if err != nil {
		return fmt.Errorf("creating project %s: %w", project.ID, err)
	}
	if !resp.IsSuccess() {
		return transport.NewAPIError("create project "+project.ID, resp)
	}
	return nil
}

// IsVerified reports whether the account is verified.
func (c *Client) IsVerified(ctx context.Context, session *models.Session, login string) (bool, error) {
	return c.getFlag(ctx, session, login, "verified")
}

// SetVerified marks the account as verified.
func (c *Client) SetVerified(ctx context.Context, session *models.Session, login string) error {
	return c.setFlag(ctx, session, login, "verified")
}

// IsEnabled reports whether the account is enabled.
func (c *Client) IsEnabled(ctx context.Context, session *models.Session, login string) (bool, error) {
	return c.getFlag(ctx, session, login, "enabled")
}

// SetEnabled enables the account.
func (c *Client) SetEnabled(ctx context.Context, session *models.Session, login string) error {
	return c.setFlag(ctx, session, login, "enabled")
}

func (c *Client) getFlag(ctx context.Context, session *models.Session, login string, flag string) (bool, error) {
	req, err := c.request(ctx, session)
	if err != nil {
		return false, err
	}
	resp, err := req.
		SetPathParam("login", login).
		Get("/xapi/users/{login}/" + flag)
	if err != nil {
		return false, fmt.Errorf("checking %s for %s: %w", flag, login, err)
	}
	if !resp.IsSuccess() {
		return false, transport.NewAPIError(fmt.Sprintf("check %s for %s", flag, login), resp)
	}
	value, err := strconv.ParseBool(strings.TrimSpace(string(resp.Body())))
	if err != nil {
		return false, fmt.Errorf("decoding %s for %s: %w", flag, login, err)
	}
	return value, nil
}

func (c *Client) setFlag(ctx context.Context, session *models.Session, login string, flag string) error {
	req, err := c.request(ctx, session)
	if err != nil {
		return err
	}
	resp, err := req.
		SetPathParam("login", login).
		Put("/xapi/users/{login}/" + flag + "/true")
	if err != nil {
		return fmt.Errorf("setting %s for %s: %w", flag, login, err)
	}
	if !resp.IsSuccess() {
		return transport.NewAPIError(fmt.Sprintf("set %s for %s", flag, login), resp)
	}
	return nil
}

// ListProjectMembers returns the users attached to a project with their group role.
func (c *Client) ListProjectMembers(ctx context.Context, session *models.Session, projectID string) ([]models.ProjectMember, error) {
	req, err := c.request(ctx, session)
	if err != nil {
		return nil, err
	}
	resp, err := req.
		SetPathParam("project", projectID).
		SetQueryParam("format", "json").
		Get("/data/projects/{project}/users")
	if err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", projectID, err)
	}
	if !resp.IsSuccess() {
		return nil, transport.NewAPIError("list members of "+projectID, resp)
	}
	var users resultSet[struct {
		Login       string `json:"login"`
		GroupID     string `json:"GROUP_ID"`
		DisplayName string `json:"displayname"`
	}]
	if err := json.Unmarshal(resp.Body(), &users); err != nil {
		return nil, fmt.Errorf("decoding members of %s: %w", projectID, err)
	}
	members := make([]models.ProjectMember, 0, len(users.ResultSet.Result))
	for _, u := range users.ResultSet.Result {
		members = append(members, models.ProjectMember{
			Login: u.Login,
			Role:  groupRole(u.GroupID, u.DisplayName),
		})
	}
	return members, nil
}

// groupRole maps XNAT group ids such as "100_member" to a role.
func groupRole(groupID string, displayName string) models.ProjectRole {
	if i := strings.LastIndex(groupID, "_"); i >= 0 && i < len(groupID)-1 {
		return models.ProjectRole(strings.ToLower(groupID[i+1:]))
	}
	return models.ProjectRole(strings.TrimSuffix(strings.ToLower(displayName), "s"))
}

// AddMember attaches login to the project group for role.
func (c *Client) AddMember(ctx context.Context, session *models.Session, projectID string, login string, email string, role models.ProjectRole) error {
	req, err := c.request(ctx, session)
	if err != nil {
		return err
	}
	if email != "" {
		req.SetFormData(map[string]string{"email": email})
	}
	resp, err := req.
		SetPathParams(map[string]string{
			"project": projectID,
			"role":    string(role),
			"login":   login,
		}).
		Put("/data/projects/{project}/users/{role}/{login}/mail")
	if err != nil {
		return fmt.Errorf("adding %s to %s: %w", login, projectID, err)
	}
	if !resp.IsSuccess() {
		return transport.NewAPIError(fmt.Sprintf("add %s to %s", login, projectID), resp)
	}
	logrus.WithFields(logrus.Fields{
		"login":   login,
		"project": projectID,
		"role":    role,
	}).Debug("XNAT accepted project member")
	return nil
}

func (c *Client) request(ctx context.Context, session *models.Session) (*resty.Request, error) {
	if session == nil || session.Token == "" {
		return nil, ErrNoSession
	}
	return c.http.R().
		SetContext(ctx).
		SetCookie(&http.Cookie{Name: sessionCookie, Value: session.Token}), nil
}

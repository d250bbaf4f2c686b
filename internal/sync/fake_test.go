package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/daniloc96/canvas-xnat-sync/internal/canvas"
	"github.com/daniloc96/canvas-xnat-sync/internal/config"
	"github.com/daniloc96/canvas-xnat-sync/internal/models"
	"github.com/daniloc96/canvas-xnat-sync/internal/transport"
	"github.com/daniloc96/canvas-xnat-sync/internal/xnat"
)

// fakeXNAT keeps just enough server state to observe convergence across runs.
type fakeXNAT struct {
	accounts []string
	verified map[string]bool
	enabled  map[string]bool
	projects []string
	members  map[string][]models.ProjectMember

	addMemberErr  error
	createErr     error
	sessionErr    error
	releaseErr    error
	accountsErr   error
	released      int
	created       []models.ProjectDescriptor
	calls         []string
	memberLookups []string
}

func newFakeXNAT(accounts ...string) *fakeXNAT {
	return &fakeXNAT{
		accounts: accounts,
		verified: map[string]bool{},
		enabled:  map[string]bool{},
		members:  map[string][]models.ProjectMember{},
	}
}

func (f *fakeXNAT) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeXNAT) client() *xnat.MockClient {
	return &xnat.MockClient{
		AcquireSessionFunc: func(ctx context.Context) (*models.Session, error) {
			if f.sessionErr != nil {
				return nil, f.sessionErr
			}
			return &models.Session{Token: "session-token", Username: "sync-bot"}, nil
		},
		ReleaseSessionFunc: func(ctx context.Context, session *models.Session) error {
			f.released++
			return f.releaseErr
		},
		ListAccountsFunc: func(ctx context.Context, session *models.Session) (models.AccountDirectory, error) {
			if f.accountsErr != nil {
				return nil, f.accountsErr
			}
			return models.NewAccountDirectory(f.accounts), nil
		},
		ListProjectIDsFunc: func(ctx context.Context, session *models.Session) ([]string, error) {
			return append([]string(nil), f.projects...), nil
		},
		CreateProjectFunc: func(ctx context.Context, session *models.Session, project models.ProjectDescriptor) error {
			f.record("CreateProject:%s", project.ID)
			f.created = append(f.created, project)
			if f.createErr != nil {
				return f.createErr
			}
			f.projects = append(f.projects, project.ID)
			return nil
		},
		IsVerifiedFunc: func(ctx context.Context, session *models.Session, login string) (bool, error) {
			f.record("IsVerified:%s=%v", login, f.verified[login])
			return f.verified[login], nil
		},
		SetVerifiedFunc: func(ctx context.Context, session *models.Session, login string) error {
			f.record("SetVerified:%s", login)
			f.verified[login] = true
			return nil
		},
		IsEnabledFunc: func(ctx context.Context, session *models.Session, login string) (bool, error) {
			f.record("IsEnabled:%s=%v", login, f.enabled[login])
			return f.enabled[login], nil
		},
		SetEnabledFunc: func(ctx context.Context, session *models.Session, login string) error {
			f.record("SetEnabled:%s", login)
			f.enabled[login] = true
			return nil
		},
		ListProjectMembersFunc: func(ctx context.Context, session *models.Session, projectID string) ([]models.ProjectMember, error) {
			f.memberLookups = append(f.memberLookups, projectID)
			if !f.hasProject(projectID) {
				return nil, &transport.APIError{Operation: "list members of " + projectID, StatusCode: 404}
			}
			return append([]models.ProjectMember(nil), f.members[projectID]...), nil
		},
		AddMemberFunc: func(ctx context.Context, session *models.Session, projectID string, login string, email string, role models.ProjectRole) error {
			f.record("AddMember:%s:%s:%s", projectID, login, role)
			if f.addMemberErr != nil {
				return f.addMemberErr
			}
			f.members[projectID] = append(f.members[projectID], models.ProjectMember{Login: login, Role: role})
			return nil
		},
	}
}

func (f *fakeXNAT) hasProject(id string) bool {
	for _, p := range f.projects {
		if strings.TrimSpace(p) == id {
			return true
		}
	}
	return false
}

func rosterWith(courses []models.Course, participants map[int64][]models.Participant) *canvas.MockClient {
	return &canvas.MockClient{
		ListCoursesFunc: func(ctx context.Context) ([]models.Course, error) {
			return courses, nil
		},
		ListParticipantsFunc: func(ctx context.Context, courseID int64) ([]models.Participant, error) {
			return participants[courseID], nil
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{History: config.HistoryConfig{TTLDays: 30}}
}

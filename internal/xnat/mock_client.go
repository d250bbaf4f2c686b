package xnat

import (
	"context"

	"github.com/daniloc96/canvas-xnat-sync/internal/models"
)

// MockClient is a simple mock implementation of the XNAT client.
type MockClient struct {
	AcquireSessionFunc     func(ctx context.Context) (*models.Session, error)
	ReleaseSessionFunc     func(ctx context.Context, session *models.Session) error
	ListAccountsFunc       func(ctx context.Context, session *models.Session) (models.AccountDirectory, error)
	ListProjectIDsFunc     func(ctx context.Context, session *models.Session) ([]string, error)
	CreateProjectFunc      func(ctx context.Context, session *models.Session, project models.ProjectDescriptor) error
	IsVerifiedFunc         func(ctx context.Context, session *models.Session, login string) (bool, error)
	SetVerifiedFunc        func(ctx context.Context, session *models.Session, login string) error
	IsEnabledFunc          func(ctx context.Context, session *models.Session, login string) (bool, error)
	SetEnabledFunc         func(ctx context.Context, session *models.Session, login string) error
	ListProjectMembersFunc func(ctx context.Context, session *models.Session, projectID string) ([]models.ProjectMember, error)
	AddMemberFunc          func(ctx context.Context, session *models.Session, projectID string, login string, email string, role models.ProjectRole) error
}

func (m *MockClient) AcquireSession(ctx context.Context) (*models.Session, error) {
	if m.AcquireSessionFunc == nil {
		return &models.Session{Token: "mock-session"}, nil
	}
	return m.AcquireSessionFunc(ctx)
}

func (m *MockClient) ReleaseSession(ctx context.Context, session *models.Session) error {
	if m.ReleaseSessionFunc == nil {
		return nil
	}
	return m.ReleaseSessionFunc(ctx, session)
}

func (m *MockClient) ListAccounts(ctx context.Context, session *models.Session) (models.AccountDirectory, error) {
	if m.ListAccountsFunc == nil {
		return models.AccountDirectory{}, nil
	}
	return m.ListAccountsFunc(ctx, session)
}

func (m *MockClient) ListProjectIDs(ctx context.Context, session *models.Session) ([]string, error) {
	if m.ListProjectIDsFunc == nil {
		return nil, nil
	}
	return m.ListProjectIDsFunc(ctx, session)
}

func (m *MockClient) CreateProject(ctx context.Context, session *models.Session, project models.ProjectDescriptor) error {
	if m.CreateProjectFunc == nil {
		return nil
	}
	return m.CreateProjectFunc(ctx, session, project)
}

func (m *MockClient) IsVerified(ctx context.Context, session *models.Session, login string) (bool, error) {
	if m.IsVerifiedFunc == nil {
		return true, nil
	}
	return m.IsVerifiedFunc(ctx, session, login)
}

func (m *MockClient) SetVerified(ctx context.Context, session *models.Session, login string) error {
	if m.SetVerifiedFunc == nil {
		return nil
	}
	return m.SetVerifiedFunc(ctx, session, login)
}

func (m *MockClient) IsEnabled(ctx context.Context, session *models.Session, login string) (bool, error) {
	if m.IsEnabledFunc == nil {
		return true, nil
	}
	return m.IsEnabledFunc(ctx, session, login)
}

func (m *MockClient) SetEnabled(ctx context.Context, session *models.Session, login string) error {
	if m.SetEnabledFunc == nil {
		return nil
	}
	return m.SetEnabledFunc(ctx, session, login)
}

func (m *MockClient) ListProjectMembers(ctx context.Context, session *models.Session, projectID string) ([]models.ProjectMember, error) {
	if m.ListProjectMembersFunc == nil {
		return nil, nil
	}
	return m.ListProjectMembersFunc(ctx, session, projectID)
}

func (m *MockClient) AddMember(ctx context.Context, session *models.Session, projectID string, login string, email string, role models.ProjectRole) error {
	if m.AddMemberFunc == nil {
		return nil
	}
	return m.AddMemberFunc(ctx, session, projectID, login, email, role)
}

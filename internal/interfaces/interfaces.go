package interfaces

import (
	"context"
	"time"

	"github.com/daniloc96/canvas-xnat-sync/internal/models"
)

// RosterClient defines operations needed from Canvas.
type RosterClient interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListParticipants(ctx context.Context, courseID int64) ([]models.Participant, error)
}

// ArchiveClient defines operations needed from XNAT.
// Every call after AcquireSession carries the session explicitly.
type ArchiveClient interface {
	AcquireSession(ctx context.Context) (*models.Session, error)
	ReleaseSession(ctx context.Context, session *models.Session) error
	ListAccounts(ctx context.Context, session *models.Session) (models.AccountDirectory, error)
	ListProjectIDs(ctx context.Context, session *models.Session) ([]string, error)
	CreateProject(ctx context.Context, session *models.Session, project models.ProjectDescriptor) error
	IsVerified(ctx context.Context, session *models.Session, login string) (bool, error)
	SetVerified(ctx context.Context, session *models.Session, login string) error
	IsEnabled(ctx context.Context, session *models.Session, login string) (bool, error)
	SetEnabled(ctx context.Context, session *models.Session, login string) error
	ListProjectMembers(ctx context.Context, session *models.Session, projectID string) ([]models.ProjectMember, error)
	AddMember(ctx context.Context, session *models.Session, projectID string, login string, email string, role models.ProjectRole) error
}

// SyncEngine defines reconciliation orchestration.
type SyncEngine interface {
	Run(ctx context.Context) (*models.RunResult, error)
}

// RunRecorder persists an append-only record of each completed run.
// Records are never read back to drive reconciliation.
type RunRecorder interface {
	SaveRun(ctx context.Context, record models.RunRecord) error
}

// RunHistory reads back recorded runs for operators.
type RunHistory interface {
	ListRuns(ctx context.Context, t time.Time, limit int32) ([]models.RunRecord, error)
}

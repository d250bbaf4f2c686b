package canvas

import (
	"context"

	"github.com/daniloc96/canvas-xnat-sync/internal/models"
)

// MockClient is a simple mock implementation of the Canvas client.
type MockClient struct {
	ListCoursesFunc      func(ctx context.Context) ([]models.Course, error)
	ListParticipantsFunc func(ctx context.Context, courseID int64) ([]models.Participant, error)
}

func (m *MockClient) ListCourses(ctx context.Context) ([]models.Course, error) {
	if m.ListCoursesFunc == nil {
		return nil, nil
	}
	return m.ListCoursesFunc(ctx)
}

func (m *MockClient) ListParticipants(ctx context.Context, courseID int64) ([]models.Participant, error) {
	if m.ListParticipantsFunc == nil {
		return nil, nil
	}
	return m.ListParticipantsFunc(ctx, courseID)
}

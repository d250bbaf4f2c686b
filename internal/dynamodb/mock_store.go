package dynamodb

import (
	"context"
	"time"

	"github.com/daniloc96/canvas-xnat-sync/internal/models"
)

// MockStore implements the run history store for testing.
type MockStore struct {
	SaveRunFunc  func(ctx context.Context, record models.RunRecord) error
	ListRunsFunc func(ctx context.Context, t time.Time, limit int32) ([]models.RunRecord, error)

	// Track calls for assertions.
	SavedRuns []models.RunRecord
}

func (m *MockStore) SaveRun(ctx context.Context, record models.RunRecord) error {
	m.SavedRuns = append(m.SavedRuns, record)
	if m.SaveRunFunc != nil {
		return m.SaveRunFunc(ctx, record)
	}
	return nil
}

func (m *MockStore) ListRuns(ctx context.Context, t time.Time, limit int32) ([]models.RunRecord, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(ctx, t, limit)
	}
	return m.SavedRuns, nil
}

package sync

import (
	"context"
	"strings"

	"github.com/daniloc96/canvas-xnat-sync/internal/models"
	"github.com/daniloc96/canvas-xnat-sync/internal/transport"
	"github.com/sirupsen/logrus"
)

// bootstrapProjects creates an XNAT project for every course that lacks one.
// Project ids are compared in their string form.
func (e *Engine) bootstrapProjects(ctx context.Context, session *models.Session, courses []models.Course) ([]models.SyncAction, []string) {
	ids, err := e.archive.ListProjectIDs(ctx, session)
	if err != nil {
		logrus.WithFields(transport.ErrorFields(err)).Error("✗ Could not list XNAT projects, skipping project bootstrap")
		return nil, []string{err.Error()}
	}

	existing := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		existing[strings.TrimSpace(id)] = struct{}{}
	}

	var actions []models.SyncAction
	for _, course := range courses {
		projectID := course.ProjectID()
		if _, ok := existing[projectID]; ok {
			continue
		}
		existing[projectID] = struct{}{}

		project := models.NewProjectDescriptor(course)
		logrus.WithFields(logrus.Fields{
			"course":  course.Name,
			"project": projectID,
		}).Info("🆕 Course has no XNAT project, creating one")

		action := models.SyncAction{Type: models.ActionCreateProject, ProjectID: projectID}
		e.execute(&action, func() error {
			return e.archive.CreateProject(ctx, session, project)
		})
		actions = append(actions, action)
	}
	return actions, nil
}

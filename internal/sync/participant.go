package sync

import (
	"context"

	"github.com/daniloc96/canvas-xnat-sync/internal/models"
	"github.com/daniloc96/canvas-xnat-sync/internal/transport"
	"github.com/sirupsen/logrus"
)

type courseOutcome struct {
	counters         models.RunCounters
	actions          []models.SyncAction
	errors           []string
	pendingSkipped   int
	unmatchedSkipped int
}

// reconcileCourse applies the participant procedure to every participant of course.
func (e *Engine) reconcileCourse(ctx context.Context, session *models.Session, course models.Course, directory models.AccountDirectory, planned map[string]struct{}) courseOutcome {
	var out courseOutcome
	projectID := course.ProjectID()
	courseFields := logrus.Fields{"course": course.Name, "project": projectID}

	participants, err := e.roster.ListParticipants(ctx, course.ID)
	if err != nil {
		logrus.WithFields(courseFields).WithFields(transport.ErrorFields(err)).
			WithField("participants", len(participants)).
			Error("✗ Could not list all course participants (continuing with the participants received)")
		out.errors = append(out.errors, err.Error())
	}

	var members []models.ProjectMember
	if _, ok := planned[projectID]; ok {
		logrus.WithFields(courseFields).Debug("project only planned in dry run, membership is empty")
	} else {
		members, err = e.archive.ListProjectMembers(ctx, session, projectID)
		if err != nil {
			logrus.WithFields(courseFields).WithFields(transport.ErrorFields(err)).Error("✗ Could not list project members")
			out.errors = append(out.errors, err.Error())
		}
	}
	membership := make(map[string]struct{}, len(members))
	for _, m := range members {
		membership[m.Login] = struct{}{}
	}

	logrus.WithFields(courseFields).WithFields(logrus.Fields{
		"participants": len(participants),
		"members":      len(members),
	}).Debug("reconciling course")

	tracker := e.progress.Track("Course "+projectID, len(participants))
	for i := range participants {
		p := &participants[i]
		switch {
		case p.IsPending():
			out.counters.Processed++
			out.pendingSkipped++
			logrus.WithFields(courseFields).WithField("name", p.Name).
				Warn("⚠ Participant has no login_id, their status may be pending")
		case !directory.Contains(p.LoginID):
			out.unmatchedSkipped++
			logrus.WithFields(courseFields).WithField("login", p.LoginID).Debug("participant has no XNAT account, skipped")
		default:
			counters, actions := e.reconcileParticipant(ctx, session, projectID, p, membership)
			out.counters.Add(counters)
			out.actions = append(out.actions, actions...)
		}
		tracker.Increment()
	}
	tracker.Done()

	return out
}

// reconcileParticipant walks one participant through verified, enabled and
// membership checks. Each check triggers at most one corrective action and
// earlier successes are kept when a later step fails.
func (e *Engine) reconcileParticipant(ctx context.Context, session *models.Session, projectID string, p *models.Participant, membership map[string]struct{}) (models.RunCounters, []models.SyncAction) {
	counters := models.RunCounters{Processed: 1}
	var actions []models.SyncAction
	login := p.LoginID
	fields := logrus.Fields{"login": login, "project": projectID}

	verified, err := e.archive.IsVerified(ctx, session, login)
	if err != nil {
		logrus.WithFields(fields).WithFields(transport.ErrorFields(err)).Warn("⚠ Could not check verified status, treating as unverified")
		verified = false
	}
	if !verified {
		action := models.SyncAction{Type: models.ActionVerify, Login: login}
		if e.execute(&action, func() error { return e.archive.SetVerified(ctx, session, login) }) {
			counters.Verified++
		}
		actions = append(actions, action)
	}

	enabled, err := e.archive.IsEnabled(ctx, session, login)
	if err != nil {
		logrus.WithFields(fields).WithFields(transport.ErrorFields(err)).Warn("⚠ Could not check enabled status, treating as disabled")
		enabled = false
	}
	if !enabled {
		action := models.SyncAction{Type: models.ActionEnable, Login: login}
		if e.execute(&action, func() error { return e.archive.SetEnabled(ctx, session, login) }) {
			counters.Enabled++
		}
		actions = append(actions, action)
	}

	if _, ok := membership[login]; !ok {
		role := models.RoleForEmail(p.Email)
		action := models.SyncAction{Type: models.ActionAddMember, Login: login, ProjectID: projectID, Role: &role}
		added := e.execute(&action, func() error {
			return e.archive.AddMember(ctx, session, projectID, login, p.Email, role)
		})
		if added {
			counters.AddedToProject++
		}
		// Duplicate roster rows must not produce a second add in the same run.
		if added || e.cfg.Sync.DryRun {
			membership[login] = struct{}{}
		}
		actions = append(actions, action)
	}

	return counters, actions
}

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/daniloc96/canvas-xnat-sync/internal/config"
	"github.com/daniloc96/canvas-xnat-sync/internal/interfaces"
	"github.com/daniloc96/canvas-xnat-sync/internal/models"
	"github.com/daniloc96/canvas-xnat-sync/internal/transport"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrSessionUnavailable wraps any failure to authenticate against XNAT.
	// Nothing course related runs without a session.
	ErrSessionUnavailable = errors.New("xnat session unavailable")

	// ErrRunInProgress is returned when Run is called while another run is active.
	ErrRunInProgress = errors.New("integration already in progress")
)

var _ interfaces.SyncEngine = (*Engine)(nil)

// Engine orchestrates a Canvas to XNAT reconciliation run.
type Engine struct {
	roster   interfaces.RosterClient
	archive  interfaces.ArchiveClient
	recorder interfaces.RunRecorder
	progress Progress
	cfg      *config.Config
	mu       sync.Mutex
	running  bool
}

// NewEngine creates a reconciliation engine.
func NewEngine(roster interfaces.RosterClient, archive interfaces.ArchiveClient, cfg *config.Config) *Engine {
	return &Engine{roster: roster, archive: archive, cfg: cfg, progress: noopProgress{}}
}

// SetRecorder sets the run history recorder. If nil, runs are not recorded.
func (e *Engine) SetRecorder(r interfaces.RunRecorder) {
	e.recorder = r
}

// SetProgress sets the progress reporter used while walking courses.
func (e *Engine) SetProgress(p Progress) {
	if p == nil {
		p = noopProgress{}
	}
	e.progress = p
}

// Run performs a reconciliation run. Only a failure to open the XNAT session
// is returned as an error; every other failure is logged and tallied.
func (e *Engine) Run(ctx context.Context) (*models.RunResult, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrRunInProgress
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	result := &models.RunResult{
		RunID:     uuid.New().String(),
		DryRun:    e.cfg.Sync.DryRun,
		StartTime: time.Now(),
	}

	session, err := e.archive.AcquireSession(ctx)
	if err != nil {
		logrus.WithFields(transport.ErrorFields(err)).Error("✗ Could not open XNAT session, aborting run")
		return nil, fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}
	defer e.releaseSession(ctx, session)

	courses, err := e.roster.ListCourses(ctx)
	if err != nil {
		logrus.WithFields(transport.ErrorFields(err)).WithField("courses", len(courses)).Error("✗ Could not list all Canvas courses (continuing with the courses received)")
		result.Errors = append(result.Errors, err.Error())
	}

	directory, err := e.archive.ListAccounts(ctx, session)
	if err != nil {
		logrus.WithFields(transport.ErrorFields(err)).Error("✗ Could not list XNAT users (no participant will match)")
		result.Errors = append(result.Errors, err.Error())
		directory = models.AccountDirectory{}
	}

	// Phase 1: inputs loaded.
	logrus.WithFields(logrus.Fields{
		"run_id":     result.RunID,
		"courses":    len(courses),
		"xnat_users": len(directory),
		"dry_run":    e.cfg.Sync.DryRun,
	}).Info("📋 [1/4] Canvas courses and XNAT users loaded")

	bootstrapActions, bootstrapErrs := e.bootstrapProjects(ctx, session, courses)
	result.Actions = append(result.Actions, bootstrapActions...)
	result.Errors = append(result.Errors, bootstrapErrs...)
	logrus.WithField("actions", len(bootstrapActions)).Info("🏗 [2/4] Project bootstrap completed")

	planned := plannedProjects(bootstrapActions)

	var summary models.RunSummary
	tracker := e.progress.Track("Processing integration", len(courses))
	for _, course := range courses {
		if ctx.Err() != nil {
			logrus.WithError(ctx.Err()).Warn("⚠ Run cancelled, remaining courses skipped")
			result.Errors = append(result.Errors, ctx.Err().Error())
			break
		}
		outcome := e.reconcileCourse(ctx, session, course, directory, planned)
		result.Counters.Add(outcome.counters)
		result.Actions = append(result.Actions, outcome.actions...)
		result.Errors = append(result.Errors, outcome.errors...)
		summary.PendingSkipped += outcome.pendingSkipped
		summary.UnmatchedSkipped += outcome.unmatchedSkipped
		tracker.Increment()
	}
	tracker.Done()
	logrus.WithField("courses", len(courses)).Info("🔄 [3/4] Participants reconciled")

	result.EndTime = time.Now()
	result.DurationMs = result.EndTime.Sub(result.StartTime).Milliseconds()
	summary.Courses = len(courses)
	summary.DirectorySize = len(directory)
	result.Summary = buildSummary(summary, result.Actions)

	logrus.WithFields(logrus.Fields{
		"run_id":           result.RunID,
		"processed":        result.Counters.Processed,
		"verified":         result.Counters.Verified,
		"enabled":          result.Counters.Enabled,
		"added_to_project": result.Counters.AddedToProject,
		"failed":           result.Summary.ActionsFailed,
		"duration_ms":      result.DurationMs,
	}).Info("📊 [4/4] Run totals")

	e.recordRun(ctx, result)

	return result, nil
}

// releaseSession always runs, even after a cancelled context.
func (e *Engine) releaseSession(ctx context.Context, session *models.Session) {
	if err := e.archive.ReleaseSession(context.WithoutCancel(ctx), session); err != nil {
		logrus.WithFields(transport.ErrorFields(err)).Warn("⚠ Could not release XNAT session")
		return
	}
	logrus.Debug("XNAT session released")
}

func (e *Engine) recordRun(ctx context.Context, result *models.RunResult) {
	if e.recorder == nil {
		return
	}
	record := models.NewRunRecord(result, e.cfg.History.TTLDays)
	if err := e.recorder.SaveRun(context.WithoutCancel(ctx), record); err != nil {
		logrus.WithError(err).Warn("⚠ Could not record run history (non-fatal)")
	}
}

// execute runs fn for action unless dry-run is enabled. It reports whether
// the action was carried out successfully.
func (e *Engine) execute(action *models.SyncAction, fn func() error) bool {
	if e.cfg.Sync.DryRun {
		logrus.WithFields(action.LogFields()).Info("  [DRY RUN] would execute")
		return false
	}
	if err := fn(); err != nil {
		action.MarkFailed(err)
		logrus.WithFields(action.LogFields()).WithFields(transport.ErrorFields(err)).Error("✗ Action failed")
		return false
	}
	action.MarkExecuted()
	logrus.WithFields(action.LogFields()).Info("✅ Action executed")
	return true
}

// plannedProjects returns the projects a dry run would have created. They do not
// exist yet, so their membership is known to be empty.
func plannedProjects(actions []models.SyncAction) map[string]struct{} {
	planned := make(map[string]struct{})
	for _, action := range actions {
		if action.Type == models.ActionCreateProject && !action.Executed && action.Error == nil {
			planned[action.ProjectID] = struct{}{}
		}
	}
	return planned
}

func buildSummary(summary models.RunSummary, actions []models.SyncAction) models.RunSummary {
	summary.ActionsPlanned = len(actions)
	for _, action := range actions {
		if action.Executed {
			summary.ActionsExecuted++
			if action.Type == models.ActionCreateProject {
				summary.ProjectsCreated++
			}
		}
		if action.Error != nil {
			summary.ActionsFailed++
		}
	}
	return summary
}

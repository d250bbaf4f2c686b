package models

import (
	"fmt"
	"time"
)

// RunRecord is the audit row written for every completed run.
type RunRecord struct {
	PK              string    `dynamodbav:"pk"`
	SK              string    `dynamodbav:"sk"`
	RunID           string    `dynamodbav:"run_id"`
	DryRun          bool      `dynamodbav:"dry_run"`
	StartedAt       time.Time `dynamodbav:"started_at"`
	DurationMs      int64     `dynamodbav:"duration_ms"`
	Courses         int       `dynamodbav:"courses"`
	Processed       int       `dynamodbav:"processed"`
	Verified        int       `dynamodbav:"verified"`
	Enabled         int       `dynamodbav:"enabled"`
	AddedToProject  int       `dynamodbav:"added_to_project"`
	ProjectsCreated int       `dynamodbav:"projects_created"`
	ActionsFailed   int       `dynamodbav:"actions_failed"`
	TTL             int64     `dynamodbav:"ttl"`
}

// NewRunRecord creates a RunRecord with its key attributes set.
func NewRunRecord(result *RunResult, ttlDays int) RunRecord {
	started := result.StartTime.UTC()
	return RunRecord{
		PK:              RunPartition(started),
		SK:              fmt.Sprintf("%s#%s", started.Format(time.RFC3339), result.RunID),
		RunID:           result.RunID,
		DryRun:          result.DryRun,
		StartedAt:       started,
		DurationMs:      result.DurationMs,
		Courses:         result.Summary.Courses,
		Processed:       result.Counters.Processed,
		Verified:        result.Counters.Verified,
		Enabled:         result.Counters.Enabled,
		AddedToProject:  result.Counters.AddedToProject,
		ProjectsCreated: result.Summary.ProjectsCreated,
		ActionsFailed:   result.Summary.ActionsFailed,
		TTL:             started.AddDate(0, 0, ttlDays).Unix(),
	}
}

// RunPartition returns the partition key holding the runs started in the month of t.
func RunPartition(t time.Time) string {
	return "RUN#" + t.UTC().Format("2006-01")
}

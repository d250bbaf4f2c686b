package models

import (
	"fmt"
	"time"
)

// RunCounters are the per-run reconciliation tallies.
type RunCounters struct {
	Processed      int `json:"processed"`
	Verified       int `json:"verified"`
	Enabled        int `json:"enabled"`
	AddedToProject int `json:"added_to_project"`
}

// Add merges other into c.
func (c *RunCounters) Add(other RunCounters) {
	c.Processed += other.Processed
	c.Verified += other.Verified
	c.Enabled += other.Enabled
	c.AddedToProject += other.AddedToProject
}

// RunResult contains the outcome of a reconciliation run.
type RunResult struct {
	RunID      string       `json:"run_id"`
	DryRun     bool         `json:"dry_run"`
	StartTime  time.Time    `json:"start_time"`
	EndTime    time.Time    `json:"end_time"`
	DurationMs int64        `json:"duration_ms"`
	Counters   RunCounters  `json:"counters"`
	Summary    RunSummary   `json:"summary"`
	Actions    []SyncAction `json:"actions"`
	Errors     []string     `json:"errors,omitempty"`
}

// RunSummary provides aggregate statistics beyond the counters.
type RunSummary struct {
	Courses          int `json:"courses"`
	DirectorySize    int `json:"directory_size"`
	ProjectsCreated  int `json:"projects_created"`
	PendingSkipped   int `json:"pending_skipped"`
	UnmatchedSkipped int `json:"unmatched_skipped"`
	ActionsPlanned   int `json:"actions_planned"`
	ActionsExecuted  int `json:"actions_executed"`
	ActionsFailed    int `json:"actions_failed"`
}

// IsSuccess returns true if no errors occurred.
func (r *RunResult) IsSuccess() bool {
	return len(r.Errors) == 0 && r.Summary.ActionsFailed == 0
}

// String returns a human-readable representation of the run summary.
func (s RunSummary) String() string {
	return fmt.Sprintf(
		"integration completed: Courses: %d, XNAT users: %d, Projects created: %d, "+
			"Actions: %d planned / %d executed / %d failed, "+
			"Pending skipped: %d, Not in XNAT: %d",
		s.Courses, s.DirectorySize, s.ProjectsCreated,
		s.ActionsPlanned, s.ActionsExecuted, s.ActionsFailed,
		s.PendingSkipped, s.UnmatchedSkipped,
	)
}

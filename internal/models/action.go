package models

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ActionType represents the type of corrective action.
type ActionType string

const (
	ActionCreateProject ActionType = "create_project"
	ActionVerify        ActionType = "verify"
	ActionEnable        ActionType = "enable"
	ActionAddMember     ActionType = "add_member"
)

// SyncAction represents a single corrective action against XNAT.
type SyncAction struct {
	Type      ActionType   `json:"type"`
	Login     string       `json:"login,omitempty"`
	ProjectID string       `json:"project_id,omitempty"`
	Role      *ProjectRole `json:"role,omitempty"`
	Executed  bool         `json:"executed"`
	Error     *string      `json:"error,omitempty"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`
}

// LogFields returns structured logging fields for this action.
func (a *SyncAction) LogFields() logrus.Fields {
	fields := logrus.Fields{
		"action": a.Type,
	}
	if a.Login != "" {
		fields["login"] = a.Login
	}
	if a.ProjectID != "" {
		fields["project"] = a.ProjectID
	}
	if a.Role != nil {
		fields["role"] = *a.Role
	}
	if a.Error != nil {
		fields["error"] = *a.Error
	}
	return fields
}

// MarkExecuted records a successful execution.
func (a *SyncAction) MarkExecuted() {
	t := time.Now()
	a.Executed = true
	a.Timestamp = &t
}

// MarkFailed records the error that prevented execution.
func (a *SyncAction) MarkFailed(err error) {
	msg := err.Error()
	a.Error = &msg
}

package models

import (
	"errors"
	"testing"
	"time"
)

func TestRoleForEmail(t *testing.T) {
	tests := []struct {
		email string
		want  ProjectRole
	}{
		{"", RoleCollaborator},
		{"a@student.edu", RoleCollaborator},
		{"a@fac.edu", RoleMember},
		{"student.rep@fac.edu", RoleCollaborator},
	}
	for _, tt := range tests {
		if got := RoleForEmail(tt.email); got != tt.want {
			t.Fatalf("RoleForEmail(%q) = %s, want %s", tt.email, got, tt.want)
		}
	}
}

func TestCourseProjectID(t *testing.T) {
	course := Course{ID: 12345, Name: "Anatomy"}
	if course.ProjectID() != "12345" {
		t.Fatalf("expected 12345, got %s", course.ProjectID())
	}
	project := NewProjectDescriptor(course)
	if project.ID != "12345" || project.SecondaryID != "12345" || project.Name != "Anatomy" {
		t.Fatalf("unexpected descriptor %#v", project)
	}
}

func TestAccountDirectory(t *testing.T) {
	dir := NewAccountDirectory([]string{"jdoe", "", "jdoe", "asmith"})
	if len(dir) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(dir))
	}
	if !dir.Contains("jdoe") || dir.Contains("") || dir.Contains("nobody") {
		t.Fatalf("unexpected membership in %#v", dir)
	}
}

func TestSyncActionMarks(t *testing.T) {
	role := RoleMember
	action := SyncAction{Type: ActionAddMember, Login: "jdoe", ProjectID: "100", Role: &role}

	action.MarkFailed(errors.New("boom"))
	fields := action.LogFields()
	if fields["error"] != "boom" || fields["role"] != RoleMember || fields["project"] != "100" {
		t.Fatalf("unexpected fields %#v", fields)
	}
	if action.Executed {
		t.Fatalf("failed action must not be executed")
	}

	action.MarkExecuted()
	if !action.Executed || action.Timestamp == nil {
		t.Fatalf("expected executed action with timestamp")
	}
}

func TestRunResultIsSuccess(t *testing.T) {
	result := &RunResult{}
	if !result.IsSuccess() {
		t.Fatalf("expected empty result to be successful")
	}
	result.Summary.ActionsFailed = 1
	if result.IsSuccess() {
		t.Fatalf("expected failed action to mark run unsuccessful")
	}
}

func TestLambdaResponses(t *testing.T) {
	dry := true
	event := &LambdaEvent{DryRun: &dry}
	if !event.IsDryRun(false) {
		t.Fatalf("expected event override")
	}
	var missing *LambdaEvent
	if missing.IsDryRun(true) != true {
		t.Fatalf("expected default for nil event")
	}

	result := &RunResult{DryRun: true, StartTime: time.Now()}
	result.Summary.Courses = 3
	result.Counters.Processed = 7
	resp := NewSuccessResponse(result)
	if resp.StatusCode != 200 || resp.Message != "[DRY RUN] Integration completed: 3 courses, 7 participants processed" {
		t.Fatalf("unexpected response %#v", resp)
	}
	if NewErrorResponse(errors.New("bad")).StatusCode != 500 {
		t.Fatalf("expected 500")
	}
}

package models

import (
	"strings"
	"time"
)

// ProjectRole is the group a user is given inside an XNAT project.
type ProjectRole string

const (
	RoleMember       ProjectRole = "member"
	RoleCollaborator ProjectRole = "collaborator"
)

// RoleForEmail derives the project role from a participant email.
// Missing emails and student addresses get collaborator access.
func RoleForEmail(email string) ProjectRole {
	if email == "" || strings.Contains(email, "student") {
		return RoleCollaborator
	}
	return RoleMember
}

// Session is an authenticated XNAT session.
type Session struct {
	Token      string    `json:"-"`
	Username   string    `json:"username"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// AccountDirectory is the set of logins known to XNAT.
type AccountDirectory map[string]struct{}

// NewAccountDirectory builds a directory from a list of logins.
func NewAccountDirectory(logins []string) AccountDirectory {
	dir := make(AccountDirectory, len(logins))
	for _, login := range logins {
		if login == "" {
			continue
		}
		dir[login] = struct{}{}
	}
	return dir
}

// Contains reports whether the login has an XNAT account.
func (d AccountDirectory) Contains(login string) bool {
	_, ok := d[login]
	return ok
}

// ProjectMember is a user attached to an XNAT project.
type ProjectMember struct {
	Login string      `json:"login"`
	Role  ProjectRole `json:"role"`
}

// ProjectDescriptor is the minimal payload used to create an XNAT project.
type ProjectDescriptor struct {
	ID          string `json:"id"`
	SecondaryID string `json:"secondary_id"`
	Name        string `json:"name"`
}

// NewProjectDescriptor builds the bootstrap descriptor for a course.
func NewProjectDescriptor(course Course) ProjectDescriptor {
	id := course.ProjectID()
	return ProjectDescriptor{ID: id, SecondaryID: id, Name: course.Name}
}

package models

import "strconv"

// Course is a Canvas course. Its id doubles as the XNAT project id.
type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProjectID returns the course id in the string form XNAT uses for project ids.
func (c Course) ProjectID() string {
	return strconv.FormatInt(c.ID, 10)
}

// Participant is a Canvas enrollment record.
type Participant struct {
	CanvasID int64  `json:"id"`
	LoginID  string `json:"login_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// IsPending reports whether the participant has no linked login yet.
func (p *Participant) IsPending() bool {
	return p.LoginID == ""
}

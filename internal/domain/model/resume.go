package model

import "time"

// Resume is a cached snapshot of a remote HH résumé.
type Resume struct {
	UserID    int64
	ResumeID  string
	Title     string
	Area      string
	Visible   bool
	UpdatedAt *time.Time
}

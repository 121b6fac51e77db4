package model

import "time"

// Attempt is the audit record of a single submission. The grades table
// only keeps the best score per pair; attempts keep the history.
type Attempt struct {
	ID           string    `json:"id"`
	AssignmentID int64     `json:"assignment_id"`
	UserID       int64     `json:"user_id"`
	Score        int       `json:"score"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

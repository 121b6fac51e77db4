package model

import "time"

// The three possible scores for a submission. An exact match on the
// rendered result text scores full marks; matching only after sorting
// the rows scores half; anything else scores zero.
const (
	ScoreWrong      = 0
	ScoreOrderMatch = 50
	ScoreExactMatch = 100
)

// Grade is the best score a user has achieved on an assignment. At most
// one row exists per (assignment, user) pair and the stored score never
// decreases.
type Grade struct {
	AssignmentID   int64     `json:"assignment_id"`
	UserID         int64     `json:"user_id"`
	Grade          int       `json:"grade"`
	UpdatedAt      time.Time `json:"updated_at"`
	AssignmentName *string   `json:"assignment_name,omitempty"` // For display
	Username       *string   `json:"username,omitempty"`        // For display
}

// GradeResult is what a submission comes back with: the score of this
// attempt, the best score on record after reconciliation, and whether
// the store was actually mutated.
type GradeResult struct {
	Score     int    `json:"score"`
	Best      int    `json:"best"`
	Updated   bool   `json:"updated"`
	Saved     bool   `json:"saved"`
	SaveError string `json:"save_error,omitempty"`
}

type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	TotalScore int    `json:"total_score"`
	Graded     int    `json:"graded"` // assignments with a grade on record
}

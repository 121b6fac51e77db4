package model

import (
	"time"
)

type Assignment struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Instructions string    `json:"instructions"`
	AnswerKey    string    `json:"answer_key,omitempty"` // Admin only view
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ForStudent returns a copy with the answer key blanked out. Students
// submit against the key, they never get to read it.
func (a Assignment) ForStudent() Assignment {
	a.AnswerKey = ""
	return a
}

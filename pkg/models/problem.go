package models

import (
	"errors"
	"time"
)

// Stats holds the accumulated practice results of a single problem.
type Stats struct {
	Attempts int `json:"attempts"` // Total judged trials
	Correct  int `json:"correct"`  // Trials judged correct, never more than Attempts
	Accuracy int `json:"accuracy"` // Derived integer percentage 0-100
}

// Validate checks the counter invariants of a stats record.
func (s Stats) Validate() error {
	if s.Attempts < 0 || s.Correct < 0 {
		return errors.New("negative counters")
	}
	if s.Correct > s.Attempts {
		return errors.New("correct exceeds attempts")
	}
	if s.Accuracy < 0 || s.Accuracy > 100 {
		return errors.New("accuracy out of range")
	}
	return nil
}

// Problem is a question/answer image pair the user practices.
type Problem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	QuestionImage string    `json:"questionImage"` // data URL or raw base64
	AnswerImage   string    `json:"answerImage"`   // data URL or raw base64
	Stats         Stats     `json:"stats"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Validate reports whether a persisted problem is well formed.
func (p Problem) Validate() error {
	if p.ID == "" {
		return errors.New("missing id")
	}
	return p.Stats.Validate()
}

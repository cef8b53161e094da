// Package review decides which problems belong in a review session.
package review

import "github.com/example/mistakebook/pkg/models"

// Threshold is the accuracy percentage a practiced problem must reach to
// leave the review queue.
const Threshold = 80

// Needs reports whether a problem has been practiced and is still below
// the review threshold.
func Needs(p models.Problem) bool {
	return p.Stats.Attempts > 0 && p.Stats.Accuracy < Threshold
}

// Select returns the problems needing review in their original order.
// The result is freshly computed on every call and may be empty.
func Select(problems []models.Problem) []models.Problem {
	var due []models.Problem
	for _, p := range problems {
		if Needs(p) {
			due = append(due, p)
		}
	}
	return due
}

// Count returns how many problems need review without building the list.
func Count(problems []models.Problem) int {
	n := 0
	for _, p := range problems {
		if Needs(p) {
			n++
		}
	}
	return n
}

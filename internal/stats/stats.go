// Package stats turns judged practice attempts into accuracy figures.
//
// Every function here is pure: inputs are never mutated and nothing is
// persisted. Callers own storage of the returned values.
package stats

import "github.com/example/mistakebook/pkg/models"

// Band classifies an accuracy percentage for display.
type Band int

const (
	// Poor is below 60%.
	Poor Band = iota
	// Fair is 60% up to 79%.
	Fair
	// Good is 80% and above.
	Good
)

func (b Band) String() string {
	switch b {
	case Good:
		return "good"
	case Fair:
		return "fair"
	default:
		return "poor"
	}
}

// BandOf returns the display band of an accuracy percentage.
func BandOf(accuracy int) Band {
	if accuracy >= 80 {
		return Good
	}
	if accuracy >= 60 {
		return Fair
	}
	return Poor
}

// Accuracy returns round(100*correct/attempts) with halves rounded up,
// or 0 when there are no attempts.
func Accuracy(correct, attempts int) int {
	if attempts <= 0 {
		return 0
	}
	// 100*c/a + 1/2 == (200*c + a) / (2*a), kept in integers so .5 ties are exact.
	return (200*correct + attempts) / (2 * attempts)
}

// RecordAttempt returns s updated with one more judged attempt.
func RecordAttempt(s models.Stats, correct bool) models.Stats {
	s.Attempts++
	if correct {
		s.Correct++
	}
	s.Accuracy = Accuracy(s.Correct, s.Attempts)
	return s
}

// Overall sums the counters of all problems and derives their accuracy.
func Overall(problems []models.Problem) models.Summary {
	sum := models.Summary{TotalProblems: len(problems)}
	for _, p := range problems {
		sum.TotalAttempts += p.Stats.Attempts
		sum.TotalCorrect += p.Stats.Correct
	}
	sum.Accuracy = Accuracy(sum.TotalCorrect, sum.TotalAttempts)
	return sum
}

// ByCategory groups problems by category and derives per-group accuracy.
// Groups are returned in order of first appearance.
func ByCategory(problems []models.Problem) []models.CategoryStats {
	index := make(map[string]int)
	var groups []models.CategoryStats
	for _, p := range problems {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, models.CategoryStats{Category: p.Category})
		}
		groups[i].Problems++
		groups[i].Attempts += p.Stats.Attempts
		groups[i].Correct += p.Stats.Correct
	}
	for i := range groups {
		groups[i].Accuracy = Accuracy(groups[i].Correct, groups[i].Attempts)
	}
	return groups
}

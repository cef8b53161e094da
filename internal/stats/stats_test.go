package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mistakebook/pkg/models"
)

func problem(category string, attempts, correct int) models.Problem {
	return models.Problem{
		ID:       category + "-item",
		Category: category,
		Stats: models.Stats{
			Attempts: attempts,
			Correct:  correct,
			Accuracy: Accuracy(correct, attempts),
		},
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name              string
		correct, attempts int
		want              int
	}{
		{"no attempts", 0, 0, 0},
		{"all wrong", 0, 3, 0},
		{"all right", 4, 4, 100},
		{"three quarters", 3, 4, 75},
		{"four fifths", 4, 5, 80},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"half tie rounds up", 1, 8, 13},
		{"upper half tie rounds up", 7, 8, 88},
		{"nine fifteenths", 9, 15, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Accuracy(tt.correct, tt.attempts))
		})
	}
}

func TestRecordAttempt_CorrectAfterThreeOfFour(t *testing.T) {
	got := RecordAttempt(models.Stats{Attempts: 4, Correct: 3, Accuracy: 75}, true)
	assert.Equal(t, models.Stats{Attempts: 5, Correct: 4, Accuracy: 80}, got)
}

func TestRecordAttempt_FirstAttemptWrong(t *testing.T) {
	got := RecordAttempt(models.Stats{}, false)
	assert.Equal(t, models.Stats{Attempts: 1, Correct: 0, Accuracy: 0}, got)
}

func TestRecordAttempt_DoesNotMutateInput(t *testing.T) {
	in := models.Stats{Attempts: 2, Correct: 1, Accuracy: 50}
	_ = RecordAttempt(in, true)
	assert.Equal(t, models.Stats{Attempts: 2, Correct: 1, Accuracy: 50}, in)
}

func TestRecordAttempt_Monotonic(t *testing.T) {
	s := models.Stats{}
	judgements := []bool{true, false, false, true, true, true, false, true, false, false, true}
	for _, j := range judgements {
		next := RecordAttempt(s, j)
		assert.Equal(t, s.Attempts+1, next.Attempts)
		assert.Contains(t, []int{s.Correct, s.Correct + 1}, next.Correct)
		require.NoError(t, next.Validate())
		assert.GreaterOrEqual(t, next.Accuracy, 0)
		assert.LessOrEqual(t, next.Accuracy, 100)
		s = next
	}
	assert.Equal(t, len(judgements), s.Attempts)
}

func TestOverall(t *testing.T) {
	sum := Overall([]models.Problem{
		problem("a", 10, 8),
		problem("b", 5, 1),
	})
	assert.Equal(t, models.Summary{TotalProblems: 2, TotalAttempts: 15, TotalCorrect: 9, Accuracy: 60}, sum)
}

func TestOverall_Empty(t *testing.T) {
	assert.Equal(t, models.Summary{}, Overall(nil))
}

func TestByCategory(t *testing.T) {
	groups := ByCategory([]models.Problem{
		problem("押し引き", 4, 1),
		problem("捨て牌", 2, 2),
		problem("押し引き", 4, 4),
		problem("その他", 0, 0),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, models.CategoryStats{Category: "押し引き", Problems: 2, Attempts: 8, Correct: 5, Accuracy: 63}, groups[0])
	assert.Equal(t, models.CategoryStats{Category: "捨て牌", Problems: 1, Attempts: 2, Correct: 2, Accuracy: 100}, groups[1])
	assert.Equal(t, models.CategoryStats{Category: "その他", Problems: 1}, groups[2])
}

func TestBandOf(t *testing.T) {
	assert.Equal(t, Good, BandOf(100))
	assert.Equal(t, Good, BandOf(80))
	assert.Equal(t, Fair, BandOf(79))
	assert.Equal(t, Fair, BandOf(60))
	assert.Equal(t, Poor, BandOf(59))
	assert.Equal(t, Poor, BandOf(0))
	assert.Equal(t, "fair", Fair.String())
}

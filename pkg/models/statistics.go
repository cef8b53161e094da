package models

// Summary aggregates practice results over a set of problems
type Summary struct {
	TotalProblems int `json:"total_problems"`
	TotalAttempts int `json:"total_attempts"`
	TotalCorrect  int `json:"total_correct"`
	Accuracy      int `json:"accuracy"`
}

// CategoryStats aggregates practice results of all problems sharing a category
type CategoryStats struct {
	Category string `json:"category"`
	Problems int    `json:"problems"`
	Attempts int    `json:"attempts"`
	Correct  int    `json:"correct"`
	Accuracy int    `json:"accuracy"`
}

package models

import "encoding/json"

// ScoreRecord is one user's one attempt at one quiz. Immutable once stored:
// there is no update or delete path. Score and Total are json.Number so the
// literal the client sent is stored and served back unchanged.
type ScoreRecord struct {
	QuizID    string      `json:"quizId"`
	UserID    string      `json:"userId"`
	FirstName string      `json:"firstName"`
	Score     json.Number `json:"score"`
	Total     json.Number `json:"total"`
	Date      string      `json:"date,omitempty"`
}

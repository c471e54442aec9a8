// Package interview defines the session data model shared by the orchestrator,
// the remote pipeline client, and the export layer.
package interview

import "time"

// QuestionType tags the role a question plays within the session script.
type QuestionType string

const (
	QuestionGreeting QuestionType = "greeting"
	QuestionIntro    QuestionType = "intro"
	QuestionCore     QuestionType = "core"
	QuestionClosing  QuestionType = "closing"
)

// Category carries the owning category metadata attached to a question.
type Category struct {
	Title string `json:"title"`
}

// Question is one scripted interview question. Immutable once loaded.
type Question struct {
	ID         string       `json:"_id"`
	CategoryID string       `json:"categoryId"`
	Level      string       `json:"level"`
	Type       QuestionType `json:"type"`
	Content    string       `json:"content"`
	FollowUp   bool         `json:"followUp"`
	AudioURL   string       `json:"audioUrl,omitempty"`
	Category   *Category    `json:"category,omitempty"`
}

// Config is the session configuration handed off by the setup flow.
// Read-only for the orchestrator's lifetime.
type Config struct {
	CategoryID    string `json:"categoryId"`
	CategoryTitle string `json:"categoryTitle"`
	Level         string `json:"level"`
	Tier          string `json:"tier"`
}

// Answer is one submitted answer. Appended in order; only the acknowledgment
// text is attached after creation.
type Answer struct {
	QuestionID     string  `json:"questionId"`
	Question       string  `json:"question"`
	Transcription  string  `json:"transcription"`
	Duration       float64 `json:"duration"` // seconds
	IsFollowUp     bool    `json:"isFollowUp"`
	Acknowledgment string  `json:"acknowledgment,omitempty"`
}

// FollowUpQuestion is the ephemeral generated follow-up. At most one exists at
// a time, and it is discarded once its answer is submitted.
type FollowUpQuestion struct {
	ID               string
	Text             string
	Audio            []byte
	ParentQuestionID string
}

// Acknowledgment is the ephemeral generated acknowledgment. It is discarded
// after its audio finishes playing.
type Acknowledgment struct {
	Text       string
	Audio      []byte
	QuestionID string
}

// Record is the serialized form of a completed session sent to the persist
// operation and written by the local export.
type Record struct {
	CategoryID string     `json:"categoryId"`
	Category   string     `json:"category"`
	Level      string     `json:"level"`
	Tier       string     `json:"tier"`
	Questions  []Question `json:"questions"`
	Answers    []Answer   `json:"answers"`
	FinishedAt time.Time  `json:"finishedAt,omitempty"`
	ID         string     `json:"interviewId,omitempty"`
}

package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SessionStatusPending   = "pending"
	SessionStatusCompleted = "completed"
)

const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// QuestionAnswer is one generated interview question together with a
// model-suggested reference answer (not the candidate's answer).
type QuestionAnswer struct {
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}

// WellFormed reports whether the entry carries an actual question. Entries
// without one are a data-quality defect coming from the generation workflow.
func (q QuestionAnswer) WellFormed() bool {
	return strings.TrimSpace(q.Question) != ""
}

// TranscriptEntry is a single finalized utterance of the voice interview.
// Timestamp is unix milliseconds assigned at capture time; entries are
// append-only chronological.
type TranscriptEntry struct {
	Role      string `bson:"role" json:"role"` // assistant|user
	Text      string `bson:"text" json:"text"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

type InterviewSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    string             `bson:"user_id" json:"user_id"`

	ResumeURL      string `bson:"resume_url,omitempty" json:"resume_url,omitempty"`
	JobTitle       string `bson:"job_title,omitempty" json:"job_title,omitempty"`
	JobDescription string `bson:"job_description,omitempty" json:"job_description,omitempty"`

	InterviewQuestions []QuestionAnswer `bson:"interview_questions" json:"interview_questions"`

	// pending at creation, completed exactly once when the transcript lands.
	Status string `bson:"status" json:"status"`

	Transcript      []TranscriptEntry `bson:"transcript,omitempty" json:"transcript,omitempty"`
	DurationSeconds int64             `bson:"duration_seconds,omitempty" json:"duration_seconds,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/prepwise/airecruiter/internal/models"
	mongorepo "github.com/prepwise/airecruiter/internal/repositories/mongo"
	"github.com/prepwise/airecruiter/internal/utils"
)

type InterviewService interface {
	Create(ctx context.Context, userID string, questions []models.QuestionAnswer, resumeURL, jobTitle, jobDescription string) (*models.InterviewSession, error)
	Get(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	SaveTranscript(ctx context.Context, sessionID string, transcript []models.TranscriptEntry, durationSeconds int64) error
}

type interviewService struct {
	sessions mongorepo.InterviewRepository
}

func NewInterviewService(sessions mongorepo.InterviewRepository) InterviewService {
	return &interviewService{sessions: sessions}
}

func (s *interviewService) Create(ctx context.Context, userID string, questions []models.QuestionAnswer, resumeURL, jobTitle, jobDescription string) (*models.InterviewSession, error) {
	const op = "InterviewService.Create"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	wellFormed := 0
	for _, q := range questions {
		if q.WellFormed() {
			wellFormed++
		}
	}
	if wellFormed == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "at least one interview question is required", nil)
	}

	session := &models.InterviewSession{
		SessionID:          uuid.NewString(),
		UserID:             userID,
		ResumeURL:          resumeURL,
		JobTitle:           jobTitle,
		JobDescription:     jobDescription,
		InterviewQuestions: questions,
		Status:             models.SessionStatusPending,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview session", err)
	}
	return session, nil
}

func (s *interviewService) Get(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	const op = "InterviewService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	out, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview session", err)
	}
	return out, nil
}

// SaveTranscript flips the session to completed. The flip happens exactly
// once; a repeat save reports CONFLICT and leaves the stored transcript alone.
// An empty transcript is valid (a call ended before it ever went active).
func (s *interviewService) SaveTranscript(ctx context.Context, sessionID string, transcript []models.TranscriptEntry, durationSeconds int64) error {
	const op = "InterviewService.SaveTranscript"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	err := s.sessions.SaveTranscript(ctx, sessionID, transcript, durationSeconds, time.Now().UTC())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, utils.ErrNotFound):
		return utils.E(utils.CodeNotFound, op, "interview session not found", err)
	case errors.Is(err, mongorepo.ErrAlreadyCompleted):
		return utils.E(utils.CodeConflict, op, "interview session already completed", err)
	default:
		return utils.E(utils.CodeInternal, op, "failed to save transcript", err)
	}
}

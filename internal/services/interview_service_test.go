package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/airecruiter/internal/models"
	mongorepo "github.com/prepwise/airecruiter/internal/repositories/mongo"
	"github.com/prepwise/airecruiter/internal/utils"
)

// fakeInterviewRepo mimics the conditional pending->completed update of the
// Mongo repository in memory.
type fakeInterviewRepo struct {
	sessions map[string]*models.InterviewSession
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{sessions: map[string]*models.InterviewSession{}}
}

func (f *fakeInterviewRepo) Create(_ context.Context, s *models.InterviewSession) error {
	f.sessions[s.SessionID] = s
	return nil
}

func (f *fakeInterviewRepo) GetBySessionID(_ context.Context, sessionID string) (*models.InterviewSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return s, nil
}

func (f *fakeInterviewRepo) SaveTranscript(_ context.Context, sessionID string, transcript []models.TranscriptEntry, durationSeconds int64, completedAt time.Time) error {
	s, ok := f.sessions[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	if s.Status != models.SessionStatusPending {
		return mongorepo.ErrAlreadyCompleted
	}
	if transcript == nil {
		transcript = []models.TranscriptEntry{}
	}
	s.Transcript = transcript
	s.DurationSeconds = durationSeconds
	s.Status = models.SessionStatusCompleted
	s.CompletedAt = &completedAt
	return nil
}

func questionFixture() []models.QuestionAnswer {
	return []models.QuestionAnswer{{Question: "What is Go?", Answer: "A language"}}
}

func TestInterviewService_CreateStartsPending(t *testing.T) {
	svc := NewInterviewService(newFakeInterviewRepo())

	s, err := svc.Create(context.Background(), "user-1", questionFixture(), "", "Backend Engineer", "builds APIs")
	require.NoError(t, err)

	assert.NotEmpty(t, s.SessionID)
	assert.Equal(t, models.SessionStatusPending, s.Status)
	assert.Nil(t, s.CompletedAt)
}

func TestInterviewService_CreateRejectsEmptyQuestions(t *testing.T) {
	svc := NewInterviewService(newFakeInterviewRepo())

	_, err := svc.Create(context.Background(), "user-1", nil, "", "title", "desc")
	requireCode(t, err, utils.CodeInvalidArgument)

	// questions present but none well formed
	_, err = svc.Create(context.Background(), "user-1", []models.QuestionAnswer{{Question: " ", Answer: ""}}, "", "title", "desc")
	requireCode(t, err, utils.CodeInvalidArgument)
}

func TestInterviewService_SaveTranscriptExactlyOnce(t *testing.T) {
	repo := newFakeInterviewRepo()
	svc := NewInterviewService(repo)

	s, err := svc.Create(context.Background(), "user-1", questionFixture(), "", "t", "d")
	require.NoError(t, err)

	first := []models.TranscriptEntry{{Role: models.RoleUser, Text: "first answer", Timestamp: 1}}
	require.NoError(t, svc.SaveTranscript(context.Background(), s.SessionID, first, 120))

	stored := repo.sessions[s.SessionID]
	assert.Equal(t, models.SessionStatusCompleted, stored.Status)
	assert.Equal(t, int64(120), stored.DurationSeconds)
	require.NotNil(t, stored.CompletedAt)

	// second save must not overwrite the first
	second := []models.TranscriptEntry{{Role: models.RoleUser, Text: "overwrite attempt", Timestamp: 2}}
	err = svc.SaveTranscript(context.Background(), s.SessionID, second, 999)
	requireCode(t, err, utils.CodeConflict)
	assert.Equal(t, "first answer", repo.sessions[s.SessionID].Transcript[0].Text)
	assert.Equal(t, int64(120), repo.sessions[s.SessionID].DurationSeconds)
}

func TestInterviewService_SaveTranscriptEmptyAndNegativeDuration(t *testing.T) {
	repo := newFakeInterviewRepo()
	svc := NewInterviewService(repo)

	s, err := svc.Create(context.Background(), "user-1", questionFixture(), "", "t", "d")
	require.NoError(t, err)

	require.NoError(t, svc.SaveTranscript(context.Background(), s.SessionID, nil, -5))

	stored := repo.sessions[s.SessionID]
	assert.NotNil(t, stored.Transcript)
	assert.Empty(t, stored.Transcript)
	assert.Equal(t, int64(0), stored.DurationSeconds)
}

func TestInterviewService_SaveTranscriptUnknownSession(t *testing.T) {
	svc := NewInterviewService(newFakeInterviewRepo())

	err := svc.SaveTranscript(context.Background(), "missing", nil, 10)
	requireCode(t, err, utils.CodeNotFound)
}

func TestInterviewService_GetUnknownSession(t *testing.T) {
	svc := NewInterviewService(newFakeInterviewRepo())

	_, err := svc.Get(context.Background(), "missing")
	requireCode(t, err, utils.CodeNotFound)
}

func requireCode(t *testing.T, err error, code utils.Code) {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, code, appErr.Code)
}

package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/prepwise/airecruiter/internal/models"
	"github.com/prepwise/airecruiter/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrAlreadyCompleted signals a transcript save against a session whose status
// already flipped. The pending->completed transition happens at most once.
var ErrAlreadyCompleted = errors.New("interview session already completed")

type InterviewRepository interface {
	Create(ctx context.Context, s *models.InterviewSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	SaveTranscript(ctx context.Context, sessionID string, transcript []models.TranscriptEntry, durationSeconds int64, completedAt time.Time) error
}

type interviewRepo struct {
	col *mongo.Collection
}

func NewInterviewRepo(db *mongo.Database) InterviewRepository {
	return &interviewRepo{col: db.Collection("interview_sessions")}
}

func (r *interviewRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *interviewRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

// SaveTranscript writes the transcript and flips status to completed. The
// filter matches only pending sessions so a second save cannot overwrite the
// first; it reports ErrAlreadyCompleted instead.
func (r *interviewRepo) SaveTranscript(ctx context.Context, sessionID string, transcript []models.TranscriptEntry, durationSeconds int64, completedAt time.Time) error {
	if transcript == nil {
		transcript = []models.TranscriptEntry{}
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "status": models.SessionStatusPending},
		bson.M{"$set": bson.M{
			"transcript":       transcript,
			"duration_seconds": durationSeconds,
			"status":           models.SessionStatusCompleted,
			"completed_at":     completedAt.UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, cerr := r.col.CountDocuments(ctx, bson.M{"session_id": sessionID})
		if cerr != nil {
			return cerr
		}
		if n == 0 {
			return utils.ErrNotFound
		}
		return ErrAlreadyCompleted
	}
	return nil
}

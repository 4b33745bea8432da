package services

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/prepwise/airecruiter/internal/models"
	pgrepo "github.com/prepwise/airecruiter/internal/repositories/postgres"
	"github.com/prepwise/airecruiter/internal/storage"
	"github.com/prepwise/airecruiter/internal/utils"
)

type ResumeFileService interface {
	// Upload pushes the resume to object storage and records the upload.
	// Nothing is written unless the upload itself succeeded.
	Upload(ctx context.Context, userID, fileName string, fileSize int, mimeType, objectName string, r io.Reader) (*models.ResumeFile, *storage.UploadResult, error)
}

type resumeFileService struct {
	repo     pgrepo.ResumeFileRepository
	uploader storage.Uploader
}

func NewResumeFileService(repo pgrepo.ResumeFileRepository, uploader storage.Uploader) ResumeFileService {
	return &resumeFileService{repo: repo, uploader: uploader}
}

func (s *resumeFileService) Upload(ctx context.Context, userID, fileName string, fileSize int, mimeType, objectName string, r io.Reader) (*models.ResumeFile, *storage.UploadResult, error) {
	const op = "ResumeFileService.Upload"

	if userID == "" || objectName == "" {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "user_id and object_name are required", nil)
	}
	if s.uploader == nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	res, err := s.uploader.Upload(ctx, objectName, mimeType, r)
	if err != nil {
		return nil, nil, utils.E(utils.CodeUnavailable, op, "failed to upload resume", err)
	}

	meta, _ := json.Marshal(res)
	row := &models.ResumeFile{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		FileSize:   fileSize,
		MimeType:   mimeType,
		ObjectURL:  res.URL,
		Metadata:   datatypes.JSON(meta),
		UploadedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to persist resume metadata", err)
	}

	return row, res, nil
}

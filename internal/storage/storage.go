package storage

import (
	"context"
	"io"
)

// UploadResult describes a durable object after a successful upload.
type UploadResult struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
}

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (*UploadResult, error)
}

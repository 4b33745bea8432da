package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeFile records a resume upload that reached object storage. Metadata
// keeps the raw upload result (object name, generation) as JSONB.
type ResumeFile struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	FileName string `gorm:"column:file_name;type:text" json:"file_name"`

	FileSize int    `gorm:"column:file_size;type:integer" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	ObjectURL string         `gorm:"column:object_url;type:text" json:"object_url"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	UploadedAt time.Time `gorm:"column:uploaded_at;type:timestamptz" json:"uploaded_at"`
}

func (ResumeFile) TableName() string { return "resume_files" }

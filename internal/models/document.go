package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
	FormatTXT  DocumentFormat = "txt"
)

// Document is a registry row for an uploaded résumé. Scores are never stored here.
type Document struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string         `gorm:"type:text" json:"filename"`
	OriginalFileName string         `gorm:"type:text" json:"original_filename"`
	Format           DocumentFormat `gorm:"type:text" json:"format"`
	FilePath         string         `gorm:"type:text" json:"file_path"`
	SizeBytes        int64          `gorm:"not null;default:0" json:"size_bytes"`
	CreatedAt        time.Time      `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}

// ExtractedDocument is the transient output of text extraction.
type ExtractedDocument struct {
	Format DocumentFormat `json:"format"`
	Text   string         `json:"text"`
}

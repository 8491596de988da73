package types

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentStatusActive  DocumentStatus = "active"
	DocumentStatusDeleted DocumentStatus = "deleted"
)

type (
	Document struct {
		ID        uuid.UUID      `json:"id" gorm:"primaryKey"`
		Name      string         `json:"name"`
		Status    DocumentStatus `json:"status"`
		FilePath  string         `json:"file_path"`
		Size      int64          `json:"size"`
		CreatedAt time.Time      `json:"created_at"`
		DeletedAt *time.Time     `json:"deleted_at"`

		Versions []*DocumentVersion `json:"versions,omitempty" gorm:"foreignKey:DocumentID"`
	}

	DocumentVersion struct {
		ID         uuid.UUID `json:"id" gorm:"primaryKey"`
		DocumentID uuid.UUID `json:"document_id"`
		Number     int       `json:"number"`
		FilePath   string    `json:"file_path"`
		Size       int64     `json:"size"`
		CreatedAt  time.Time `json:"created_at"`
	}
)

// InTrash reports whether the document is soft deleted and carries a
// deletion timestamp. Records without one are never cleanup candidates.
func (d Document) InTrash() bool {
	return d.Status == DocumentStatusDeleted && d.DeletedAt != nil
}

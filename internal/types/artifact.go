package types

import (
	"time"

	"github.com/google/uuid"
)

type ArtifactSource string

const (
	ArtifactSourceDatabase ArtifactSource = "database"
	ArtifactSourceFiles    ArtifactSource = "files"
	ArtifactSourceAudit    ArtifactSource = "audit"
)

type (
	// Artifact is one catalog entry per backup output file. Rows are
	// written once after verification and only removed by retention
	// pruning.
	Artifact struct {
		ID          uuid.UUID      `json:"id" gorm:"primaryKey"`
		Source      ArtifactSource `json:"source"`
		Location    string         `json:"location"`
		StorageType string         `json:"storage_type"`
		Size        int64          `json:"size"`
		Verified    bool           `json:"verified"`
		CreatedAt   time.Time      `json:"created_at"`
	}

	// Run records one job invocation for the status API.
	Run struct {
		ID         uuid.UUID `json:"id" gorm:"primaryKey"`
		Job        string    `json:"job"`
		DryRun     bool      `json:"dry_run"`
		Processed  int       `json:"processed"`
		Failed     int       `json:"failed"`
		Succeeded  bool      `json:"succeeded"`
		Detail     string    `json:"detail,omitempty"`
		StartedAt  time.Time `json:"started_at"`
		FinishedAt time.Time `json:"finished_at"`
	}
)

func (s ArtifactSource) String() string {
	return string(s)
}

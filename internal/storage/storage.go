package storage

import (
	"context"
	"time"

	"gedops/internal/types"
)

type (
	Type string

	// ObjectInfo describes a stored artifact without opening it.
	ObjectInfo struct {
		Location string
		Size     int64
		ModTime  time.Time
	}

	Storage interface {
		Save(ctx context.Context, location string, f types.File) error
		Get(ctx context.Context, location string) (*types.File, error)
		List(ctx context.Context, prefix string) ([]ObjectInfo, error)
		Delete(ctx context.Context, location string) error
		Ping(ctx context.Context) error
	}
)

const (
	TypeFS Type = "File"
	TypeS3 Type = "S3"
)

func (t Type) String() string {
	return string(t)
}

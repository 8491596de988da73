package backup

import (
	"context"
	"fmt"
	"time"
)

const (
	// TimestampLayout is embedded in every artifact name, e.g.
	// ged_backup_20240131_020000.bak
	TimestampLayout = "20060102_150405"

	DefaultTimeout = time.Hour
)

type (
	// Target is the database the dump executors operate on.
	Target struct {
		Server   string
		Database string
		User     string
		Password string
		// DSN is the sqlite database file path.
		DSN string
	}

	Params struct {
		// OutputDir receives the artifact file.
		OutputDir string
		Timeout   time.Duration
	}

	Result struct {
		Location string
		Size     int64
	}

	// Executor produces one artifact per run. Verify must fail on
	// anything that could be mistaken for a complete artifact.
	Executor interface {
		Name() string
		Execute(ctx context.Context, params Params) (Result, error)
		Verify(ctx context.Context, location string) error
	}
)

func (p Params) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

func artifactName(database, ext string, now time.Time) string {
	return fmt.Sprintf("%s_backup_%s%s", database, now.Format(TimestampLayout), ext)
}

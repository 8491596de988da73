package backup

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gedops/logger"
)

type sqliteExecutor struct {
	target Target
}

// NewSQLite snapshots the database file with VACUUM INTO, which produces
// a consistent copy even while the application holds the file open.
func NewSQLite(target Target) Executor {
	return &sqliteExecutor{target: target}
}

func (s sqliteExecutor) Name() string {
	return "sqlite"
}

func (s sqliteExecutor) Execute(ctx context.Context, params Params) (Result, error) {
	logger.Info("starting sqlite backup",
		zap.String("database", s.target.DSN))

	if _, err := os.Stat(s.target.DSN); err != nil {
		return Result{}, errors.Wrap(err, "database file not found")
	}

	if err := os.MkdirAll(params.OutputDir, 0o700); err != nil {
		return Result{}, errors.Wrap(err, "failed to create backup directory")
	}

	location := filepath.Join(params.OutputDir, artifactName(s.target.Database, ".db", time.Now()))

	ctx, cancel := context.WithTimeout(ctx, params.timeout())
	defer cancel()

	if err := s.sqlite3(ctx, s.target.DSN, "VACUUM INTO '"+location+"'"); err != nil {
		_ = os.Remove(location)
		return Result{}, err
	}

	stat, err := os.Stat(location)
	if err != nil {
		return Result{}, errors.Wrap(err, "vacuum completed but no snapshot was written")
	}

	return Result{Location: location, Size: stat.Size()}, nil
}

func (s sqliteExecutor) Verify(ctx context.Context, location string) error {
	out, err := exec.CommandContext(ctx, "sqlite3", location, "PRAGMA integrity_check;").CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "integrity check failed: %s", string(out))
	}
	if strings.TrimSpace(string(out)) != "ok" {
		return errors.Errorf("integrity check reported: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func (s sqliteExecutor) sqlite3(ctx context.Context, database, stmt string) error {
	out, err := exec.CommandContext(ctx, "sqlite3", database, stmt).CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return errors.New("sqlite3 not found: sqlite tools are not installed")
		}
		return errors.Wrapf(err, "sqlite3 failed: %s", string(out))
	}
	return nil
}

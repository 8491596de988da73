package backup

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gedops/logger"
)

type postgresExecutor struct {
	target Target
}

// NewPostgres dumps with pg_dump in custom format so the artifact can be
// checked with pg_restore --list without a live server.
func NewPostgres(target Target) Executor {
	return &postgresExecutor{target: target}
}

func (p postgresExecutor) Name() string {
	return "postgres"
}

func (p postgresExecutor) Execute(ctx context.Context, params Params) (Result, error) {
	logger.Info("starting postgres backup",
		zap.String("database", p.target.Database),
		zap.String("server", p.target.Server))

	if err := os.MkdirAll(params.OutputDir, 0o700); err != nil {
		return Result{}, errors.Wrap(err, "failed to create backup directory")
	}

	location := filepath.Join(params.OutputDir, artifactName(p.target.Database, ".dump", time.Now()))

	ctx, cancel := context.WithTimeout(ctx, params.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", p.target.Server,
		"-U", p.target.User,
		"-d", p.target.Database,
		"-Fc",
		"-f", location)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+p.target.Password)

	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(location)
		if errors.Is(err, exec.ErrNotFound) {
			return Result{}, errors.New("pg_dump not found: postgres client tools are not installed")
		}
		return Result{}, errors.Wrapf(err, "pg_dump failed: %s", string(out))
	}

	stat, err := os.Stat(location)
	if err != nil {
		return Result{}, errors.Wrap(err, "pg_dump completed but no dump file was written")
	}

	return Result{Location: location, Size: stat.Size()}, nil
}

func (p postgresExecutor) Verify(ctx context.Context, location string) error {
	cmd := exec.CommandContext(ctx, "pg_restore", "--list", location)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "dump verification failed: %s", string(out))
	}
	return nil
}

package backup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gedops/logger"
)

type sqlserverExecutor struct {
	target Target
}

// NewSQLServer dumps via the engine's native BACKUP DATABASE statement,
// executed through sqlcmd so the server writes the .bak itself.
func NewSQLServer(target Target) Executor {
	return &sqlserverExecutor{target: target}
}

func (s sqlserverExecutor) Name() string {
	return "sqlserver"
}

func (s sqlserverExecutor) Execute(ctx context.Context, params Params) (Result, error) {
	logger.Info("starting sqlserver backup",
		zap.String("database", s.target.Database),
		zap.String("server", s.target.Server))

	if err := os.MkdirAll(params.OutputDir, 0o700); err != nil {
		return Result{}, errors.Wrap(err, "failed to create backup directory")
	}

	now := time.Now()
	location := filepath.Join(params.OutputDir, artifactName(s.target.Database, ".bak", now))
	stmt := fmt.Sprintf(`BACKUP DATABASE [%s] TO DISK = N'%s' WITH FORMAT, INIT, COMPRESSION, NAME = N'%s Full Backup %s', SKIP, NOREWIND, NOUNLOAD, STATS = 10`,
		s.target.Database, location, s.target.Database, now.Format(TimestampLayout))

	ctx, cancel := context.WithTimeout(ctx, params.timeout())
	defer cancel()

	if err := s.sqlcmd(ctx, stmt); err != nil {
		_ = os.Remove(location)
		return Result{}, err
	}

	stat, err := os.Stat(location)
	if err != nil {
		return Result{}, errors.Wrap(err, "backup completed but no dump file was written")
	}

	return Result{Location: location, Size: stat.Size()}, nil
}

func (s sqlserverExecutor) Verify(ctx context.Context, location string) error {
	stmt := fmt.Sprintf(`RESTORE VERIFYONLY FROM DISK = N'%s'`, location)
	if err := s.sqlcmd(ctx, stmt); err != nil {
		return errors.Wrap(err, "dump verification failed")
	}
	return nil
}

func (s sqlserverExecutor) sqlcmd(ctx context.Context, stmt string) error {
	cmd := exec.CommandContext(ctx, "sqlcmd",
		"-S", s.target.Server,
		"-U", s.target.User,
		"-P", s.target.Password,
		"-b",
		"-Q", stmt)

	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return errors.New("sqlcmd not found: SQL Server client tools are not installed")
		}
		return errors.Wrapf(err, "sqlcmd failed: %s", string(out))
	}
	return nil
}

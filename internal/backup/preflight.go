package backup

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/disk"
)

// CheckFreeDisk fails a run before any dump is attempted when the backup
// directory's filesystem is below the configured free-space floor.
func CheckFreeDisk(ctx context.Context, dir string, minFreeBytes uint64) error {
	if minFreeBytes == 0 {
		return nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "backup directory not writable")
	}

	usage, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		return errors.Wrap(err, "failed to read disk usage")
	}

	if usage.Free < minFreeBytes {
		return errors.Errorf("insufficient disk space in %s: %d bytes free, %d required",
			dir, usage.Free, minFreeBytes)
	}
	return nil
}

package backup

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gedops/logger"
)

type filesExecutor struct {
	sourceDir string
	compress  bool
}

// NewFiles archives the document storage tree. With compression the
// artifact is a single zip; without it the tree is copied verbatim into
// a timestamped directory.
func NewFiles(sourceDir string, compress bool) Executor {
	return &filesExecutor{sourceDir: sourceDir, compress: compress}
}

func (f filesExecutor) Name() string {
	return "files"
}

func (f filesExecutor) Execute(ctx context.Context, params Params) (Result, error) {
	if _, err := os.Stat(f.sourceDir); err != nil {
		return Result{}, errors.Wrap(err, "upload directory not found")
	}

	if err := os.MkdirAll(params.OutputDir, 0o700); err != nil {
		return Result{}, errors.Wrap(err, "failed to create backup directory")
	}

	count, total, err := DirStats(f.sourceDir)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to scan upload directory")
	}
	logger.Info("starting file storage backup",
		zap.String("source", f.sourceDir),
		zap.Int("files", count),
		zap.Int64("total_bytes", total))

	ctx, cancel := context.WithTimeout(ctx, params.timeout())
	defer cancel()

	stamp := time.Now().Format(TimestampLayout)
	if f.compress {
		return f.zipTree(ctx, filepath.Join(params.OutputDir, fmt.Sprintf("files_backup_%s.zip", stamp)), total)
	}
	return f.copyTree(ctx, filepath.Join(params.OutputDir, fmt.Sprintf("files_backup_%s", stamp)))
}

func (f filesExecutor) zipTree(ctx context.Context, location string, sourceBytes int64) (Result, error) {
	out, err := os.Create(location)
	if err != nil {
		return Result{}, err
	}

	zw := zip.NewWriter(out)
	err = filepath.Walk(f.sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(f.sourceDir, path)
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(w, src)
		return err
	})
	if err == nil {
		err = zw.Close()
	} else {
		_ = zw.Close()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		// a half-written zip must never survive to look like a backup
		_ = os.Remove(location)
		return Result{}, errors.Wrap(err, "failed to write archive")
	}

	stat, err := os.Stat(location)
	if err != nil {
		return Result{}, err
	}

	if sourceBytes > 0 {
		ratio := (1 - float64(stat.Size())/float64(sourceBytes)) * 100
		logger.Info("archive written",
			zap.String("location", location),
			zap.Int64("size", stat.Size()),
			zap.String("compression_ratio", fmt.Sprintf("%.1f%%", ratio)))
	}

	return Result{Location: location, Size: stat.Size()}, nil
}

func (f filesExecutor) copyTree(ctx context.Context, location string) (Result, error) {
	var total int64
	err := filepath.Walk(f.sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(f.sourceDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(location, rel)

		if info.IsDir() {
			return os.MkdirAll(dest, info.Mode())
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		out, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer out.Close()

		n, err := io.Copy(out, src)
		total += n
		return err
	})
	if err != nil {
		_ = os.RemoveAll(location)
		return Result{}, errors.Wrap(err, "failed to copy upload directory")
	}

	return Result{Location: location, Size: total}, nil
}

// Verify walks every archive entry; reading to EOF forces the CRC check.
func (f filesExecutor) Verify(ctx context.Context, location string) error {
	if !f.compress {
		info, err := os.Stat(location)
		if err != nil {
			return errors.Wrap(err, "backup directory not accessible")
		}
		if !info.IsDir() {
			return errors.New("expected a backup directory, found a file")
		}
		return nil
	}
	return VerifyZip(location)
}

func VerifyZip(location string) error {
	zr, err := zip.OpenReader(location)
	if err != nil {
		return errors.Wrap(err, "failed to open archive")
	}
	defer zr.Close()

	for _, entry := range zr.File {
		rc, err := entry.Open()
		if err != nil {
			return errors.Wrapf(err, "corrupted entry %s", entry.Name)
		}
		_, err = io.Copy(io.Discard, rc)
		_ = rc.Close()
		if err != nil {
			return errors.Wrapf(err, "corrupted entry %s", entry.Name)
		}
	}
	return nil
}

// DirStats returns the file count and total byte size of a tree.
func DirStats(dir string) (int, int64, error) {
	var count int
	var total int64
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
			total += info.Size()
		}
		return nil
	})
	return count, total, err
}

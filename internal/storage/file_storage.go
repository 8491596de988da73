package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gedops/internal/types"
)

type fileStorage struct {
}

func NewFileStorage() Storage {
	return &fileStorage{}
}

func (f fileStorage) Save(ctx context.Context, location string, file types.File) error {
	if err := os.MkdirAll(filepath.Dir(location), 0o700); err != nil {
		return err
	}

	out, err := os.Create(location)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, file.Content); err != nil {
		return err
	}
	return out.Sync()
}

func (f fileStorage) Get(ctx context.Context, location string) (*types.File, error) {
	file, err := types.OpenFile(location)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (f fileStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	dir := prefix
	if fi, err := os.Stat(prefix); err != nil || !fi.IsDir() {
		dir = filepath.Dir(prefix)
	}

	result := make([]ObjectInfo, 0)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !strings.HasPrefix(path, prefix) {
			return nil
		}
		result = append(result, ObjectInfo{
			Location: path,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
		return nil
	})
	if os.IsNotExist(err) {
		return result, nil
	}
	return result, err
}

func (f fileStorage) Delete(ctx context.Context, location string) error {
	err := os.Remove(location)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f fileStorage) Ping(ctx context.Context) error {
	return nil
}

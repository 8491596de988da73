package types

import (
	"io"
	"os"
)

type File struct {
	Content io.ReadCloser
	Stat    FileStat
}

type FileStat struct {
	Size        int64
	Name        string
	Mode        os.FileMode
	ContentType string
}

type NoOpReadCloser struct {
	io.Reader
}

func (NoOpReadCloser) Close() error {
	return nil
}

func (f File) GetContentType() string {
	if f.Stat.ContentType == "" {
		return "application/octet-stream"
	}
	return f.Stat.ContentType
}

// OpenFile wraps an on-disk file for storage upload. The caller owns the
// returned Content and must close it.
func OpenFile(path string) (File, error) {
	fi, err := os.Open(path)
	if err != nil {
		return File{}, err
	}

	stat, err := fi.Stat()
	if err != nil {
		_ = fi.Close()
		return File{}, err
	}

	return File{
		Content: fi,
		Stat: FileStat{
			Size: stat.Size(),
			Name: stat.Name(),
			Mode: stat.Mode(),
		},
	}, nil
}

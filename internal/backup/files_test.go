package backup

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"report.pdf":              "pdf bytes",
		"nested/contract.docx":    "docx bytes here",
		"nested/deep/scan_01.png": "png png png",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestFilesExecutor_CompressedBackup(t *testing.T) {
	source := writeTree(t)
	out := t.TempDir()

	exec := NewFiles(source, true)
	result, err := exec.Execute(context.Background(), Params{OutputDir: out})
	require.NoError(t, err)

	assert.Regexp(t, `files_backup_\d{8}_\d{6}\.zip$`, result.Location)
	assert.Positive(t, result.Size)

	zr, err := zip.OpenReader(result.Location)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"nested/contract.docx", "nested/deep/scan_01.png", "report.pdf"}, names)

	assert.NoError(t, exec.Verify(context.Background(), result.Location))
}

func TestFilesExecutor_UncompressedBackup(t *testing.T) {
	source := writeTree(t)
	out := t.TempDir()

	exec := NewFiles(source, false)
	result, err := exec.Execute(context.Background(), Params{OutputDir: out})
	require.NoError(t, err)

	assert.DirExists(t, result.Location)
	assert.FileExists(t, filepath.Join(result.Location, "report.pdf"))
	assert.FileExists(t, filepath.Join(result.Location, "nested", "deep", "scan_01.png"))

	assert.NoError(t, exec.Verify(context.Background(), result.Location))
}

func TestFilesExecutor_MissingSource(t *testing.T) {
	exec := NewFiles(filepath.Join(t.TempDir(), "does-not-exist"), true)
	_, err := exec.Execute(context.Background(), Params{OutputDir: t.TempDir()})
	assert.Error(t, err)
}

func TestVerifyZip_RejectsCorruptArchive(t *testing.T) {
	source := writeTree(t)
	out := t.TempDir()

	result, err := NewFiles(source, true).Execute(context.Background(), Params{OutputDir: out})
	require.NoError(t, err)

	// flip bytes in the middle of the archive to corrupt entry data
	raw, err := os.ReadFile(result.Location)
	require.NoError(t, err)
	for i := 30; i < 38 && i < len(raw); i++ {
		raw[i] ^= 0xff
	}
	require.NoError(t, os.WriteFile(result.Location, raw, 0o600))

	assert.Error(t, VerifyZip(result.Location))
}

func TestVerifyZip_MissingFile(t *testing.T) {
	assert.Error(t, VerifyZip(filepath.Join(t.TempDir(), "nope.zip")))
}

func TestDirStats(t *testing.T) {
	source := writeTree(t)

	count, total, err := DirStats(source)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, int64(len("pdf bytes")+len("docx bytes here")+len("png png png")), total)
}

func TestArtifactName(t *testing.T) {
	at := time.Date(2024, 1, 31, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "ged_backup_20240131_020000.bak", artifactName("ged", ".bak", at))
}

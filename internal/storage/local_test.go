package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPut(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "http://localhost:8080/files/")
	require.NoError(t, err)

	url, err := l.Put(context.Background(), "resumes/7/abc-cv.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/resumes/7/abc-cv.pdf", url)

	got, err := os.ReadFile(filepath.Join(dir, "resumes", "7", "abc-cv.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(got))
}

func TestLocalPut_StaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/files")
	require.NoError(t, err)

	url, err := l.Put(context.Background(), "../../escape.pdf", []byte("x"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/files/escape.pdf", url)
	_, err = os.Stat(filepath.Join(dir, "escape.pdf"))
	assert.NoError(t, err)
}

func TestLocalPut_CancelledContext(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Put(ctx, "a.pdf", []byte("x"), "")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	_, err := New(config.StorageConfig{Provider: "s3"})
	assert.Error(t, err)

	_, err = New(config.StorageConfig{Provider: "cloudinary"})
	assert.Error(t, err)

	s, err := New(config.StorageConfig{Provider: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)
}

package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prep_admin_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	root := t.TempDir()
	p := &LocalStorageProvider{Root: root, BaseURL: "https://cdn.test/"}
	ctx := context.Background()

	url, err := p.Upload(ctx, "exercises/2026/10/a b.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/uploads/exercises/2026/10/a%20b.pdf", url)

	raw, err := os.ReadFile(filepath.Join(root, "exercises", "2026", "10", "a b.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(raw))

	// no temporary files are left next to the object
	entries, err := os.ReadDir(filepath.Join(root, "exercises", "2026", "10"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, p.Delete(ctx, "exercises/2026/10/a b.pdf"))
	require.NoError(t, p.Delete(ctx, "exercises/2026/10/a b.pdf"))
	_, err = os.Stat(filepath.Join(root, "exercises", "2026", "10", "a b.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	p := &LocalStorageProvider{Root: t.TempDir()}
	for _, key := range []string{"", "../etc/passwd", "audio/../../x.mp3"} {
		_, err := p.Upload(context.Background(), key, strings.NewReader("x"), 1, "text/plain")
		assert.ErrorIs(t, err, errBadKey, key)
	}
}

func TestNewStorageServiceFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Type: "oss", LocalPath: t.TempDir()}}
	s := NewStorageService(cfg)
	assert.Equal(t, "local", s.Kind)
	assert.Equal(t, "/uploads/audio/x.mp3", s.GetURL("audio/x.mp3"))
}

func TestObjectName(t *testing.T) {
	name := ObjectName(FolderAudio, "Part 1.MP3")
	assert.True(t, strings.HasPrefix(name, FolderAudio+"/"))
	assert.True(t, strings.HasSuffix(name, ".mp3"))
	assert.NotEqual(t, name, ObjectName(FolderAudio, "Part 1.MP3"))
}

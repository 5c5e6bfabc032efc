package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eatspot/internal/config"
)

func TestSafeDeleteUploadRemovesStoredFile(t *testing.T) {
	config.AppEnv.PublicDir = t.TempDir()

	dir := filepath.Join(config.AppEnv.PublicDir, "uploads", "shops")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	target := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(target, []byte("img"), 0o644))

	require.NoError(t, safeDeleteUpload("uploads/shops/photo.jpg"))

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestSafeDeleteUploadIgnoresMissingFile(t *testing.T) {
	config.AppEnv.PublicDir = t.TempDir()

	assert.NoError(t, safeDeleteUpload("uploads/shops/gone.jpg"))
}

func TestSafeDeleteUploadIgnoresEmptyPath(t *testing.T) {
	config.AppEnv.PublicDir = t.TempDir()

	assert.NoError(t, safeDeleteUpload(""))
	assert.NoError(t, safeDeleteUpload("   "))
}

func TestSafeDeleteUploadRejectsEscapes(t *testing.T) {
	config.AppEnv.PublicDir = t.TempDir()

	secret := filepath.Join(config.AppEnv.PublicDir, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("keep"), 0o644))

	cases := []string{
		"secret.txt",
		"/etc/passwd",
		"uploads/../secret.txt",
		"../outside.txt",
		"uploads/shops/../../secret.txt",
	}
	for _, rel := range cases {
		assert.Error(t, safeDeleteUpload(rel), "path %q should be refused", rel)
	}

	_, err := os.Stat(secret)
	assert.NoError(t, err)
}

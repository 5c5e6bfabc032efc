package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eatspot/internal/config"
	"eatspot/internal/models"
)

func newMultipartContext(t *testing.T, body *bytes.Buffer, contentType string) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	req, err := http.NewRequest(http.MethodPost, "/api/place", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	return c
}

func TestParseMultipartPlaceRequestFields(t *testing.T) {
	config.AppEnv.PublicDir = t.TempDir()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "  Noodle Corner "))
	require.NoError(t, writer.WriteField("location", "Old Town"))
	require.NoError(t, writer.Close())

	c := newMultipartContext(t, body, writer.FormDataContentType())

	input, err := parseMultipartPlaceRequest(c)
	require.NoError(t, err)

	assert.True(t, input.TitleSet)
	assert.Equal(t, "Noodle Corner", input.Title)
	assert.True(t, input.LocationSet)
	assert.Equal(t, "Old Town", input.Location)
	assert.False(t, input.DescriptionSet)
	assert.False(t, input.CategoryIDSet)
	assert.Empty(t, input.ImagePaths)
}

func TestParseMultipartPlaceRequestCapsImages(t *testing.T) {
	config.AppEnv.PublicDir = t.TempDir()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "Garden Cafe"))
	for i := 0; i < models.MaxPlaceImages+2; i++ {
		part, err := writer.CreateFormFile("images", fmt.Sprintf("photo-%d.jpg", i))
		require.NoError(t, err)
		_, err = part.Write([]byte("jpegdata"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	c := newMultipartContext(t, body, writer.FormDataContentType())

	input, err := parseMultipartPlaceRequest(c)
	require.NoError(t, err)
	assert.Len(t, input.ImagePaths, models.MaxPlaceImages)

	for _, rel := range input.ImagePaths {
		_, err := os.Stat(filepath.Join(config.AppEnv.PublicDir, filepath.FromSlash(rel)))
		assert.NoError(t, err, "stored image %s should exist", rel)
	}

	entries, err := os.ReadDir(filepath.Join(config.AppEnv.PublicDir, "uploads", "places"))
	require.NoError(t, err)
	assert.Len(t, entries, models.MaxPlaceImages)
}

func TestParseMultipartPlaceRequestRejectsBadCategoryID(t *testing.T) {
	config.AppEnv.PublicDir = t.TempDir()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "Garden Cafe"))
	require.NoError(t, writer.WriteField("categoryId", "not-a-hex-id"))
	require.NoError(t, writer.Close())

	c := newMultipartContext(t, body, writer.FormDataContentType())

	_, err := parseMultipartPlaceRequest(c)
	assert.Error(t, err)
}

func TestParseMultipartPlaceRequestRejectsUnsupportedImage(t *testing.T) {
	config.AppEnv.PublicDir = t.TempDir()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("images", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	c := newMultipartContext(t, body, writer.FormDataContentType())

	_, err = parseMultipartPlaceRequest(c)
	assert.Error(t, err)
}

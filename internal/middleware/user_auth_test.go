package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eatspot/internal/auth"
)

const testSecret = "test-secret"

func runUserAuth(t *testing.T, header string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req, err := http.NewRequest(http.MethodGet, "/api/siteuser/check-auth", nil)
	require.NoError(t, err)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c.Request = req

	UserAuth(testSecret)(c)
	return w, c
}

func TestUserAuthMissingHeader(t *testing.T) {
	w, c := runUserAuth(t, "")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAuthMalformedHeader(t *testing.T) {
	for _, header := range []string{"tokenonly", "Basic abc123", "Bearer a b"} {
		w, c := runUserAuth(t, header)

		assert.True(t, c.IsAborted(), "header %q should abort", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestUserAuthInvalidToken(t *testing.T) {
	w, c := runUserAuth(t, "Bearer not-a-real-token")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAuthValidToken(t *testing.T) {
	userID := primitive.NewObjectID()
	token, err := auth.IssueUserToken(userID, "diner@example.com", true, testSecret, time.Hour)
	require.NoError(t, err)

	w, c := runUserAuth(t, "Bearer "+token)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)

	gotID, ok := c.Get("userId")
	require.True(t, ok)
	assert.Equal(t, userID, gotID)

	gotEmail, ok := c.Get("userEmail")
	require.True(t, ok)
	assert.Equal(t, "diner@example.com", gotEmail)

	gotVerified, ok := c.Get("userVerified")
	require.True(t, ok)
	assert.Equal(t, true, gotVerified)
}

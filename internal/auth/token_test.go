package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := IssueUserToken(userID, "diner@example.com", true, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseUserToken(token, "test-secret")
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "diner@example.com", claims.Email)
	assert.True(t, claims.Verified)
}

func TestParseUserTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueUserToken(primitive.NewObjectID(), "diner@example.com", true, "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseUserToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseUserTokenRejectsExpired(t *testing.T) {
	token, err := IssueUserToken(primitive.NewObjectID(), "diner@example.com", true, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseUserToken(token, "test-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseUserTokenRejectsGarbage(t *testing.T) {
	_, err := ParseUserToken("not.a.jwt", "test-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewOpaqueTokenIsUniqueAndHashable(t *testing.T) {
	a := NewOpaqueToken()
	b := NewOpaqueToken()

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
	assert.Len(t, HashToken(a), 64)
	assert.Equal(t, HashToken(a), HashToken(a))
	assert.NotEqual(t, HashToken(a), HashToken(b))
}

func TestNewVerificationCodeFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := NewVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

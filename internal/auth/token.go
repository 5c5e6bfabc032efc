package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionCookieName is the cookie carrying the opaque shop-owner session token.
const SessionCookieName = "eatspot_session"

var ErrInvalidToken = errors.New("invalid token")

// UserClaims are the decoded bearer claims for the site-user realm.
type UserClaims struct {
	UserID   primitive.ObjectID
	Email    string
	Verified bool
}

func IssueUserToken(userID primitive.ObjectID, email string, verified bool, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId":   userID.Hex(),
		"email":    email,
		"verified": verified,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseUserToken(raw, secret string) (UserClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return UserClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return UserClaims{}, ErrInvalidToken
	}

	rawID, _ := claims["userId"].(string)
	if strings.TrimSpace(rawID) == "" {
		return UserClaims{}, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return UserClaims{}, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	verified, _ := claims["verified"].(bool)

	return UserClaims{UserID: userID, Email: email, Verified: verified}, nil
}

// NewOpaqueToken returns the plaintext session/reset token handed to clients.
// Only HashToken(token) is ever persisted.
func NewOpaqueToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NewVerificationCode returns a 6-digit code for email verification.
func NewVerificationCode() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	n := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return fmt.Sprintf("%06d", n%1000000), nil
}

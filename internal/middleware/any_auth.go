package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"eatspot/internal/auth"
	"eatspot/internal/models"
)

// AnyAuth accepts either realm: a site-user bearer token or a shop-owner
// session cookie. Used on routes where both an author and a resource owner
// may act, such as comment deletion. Whichever credential validates is
// injected; handlers decide what the identity is allowed to do.
func AnyAuth(db *mongo.Database, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw != "" {
			parts := strings.Split(raw, " ")
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				if claims, err := auth.ParseUserToken(parts[1], secret); err == nil {
					c.Set("userId", claims.UserID)
					c.Set("userVerified", claims.Verified)
					c.Next()
					return
				}
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		cookie, err := c.Cookie(auth.SessionCookieName)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var session models.Session
		err = db.Collection("sessions").FindOne(ctx, bson.M{
			"tokenHash": auth.HashToken(cookie),
		}).Decode(&session)
		if err != nil || time.Now().After(session.ExpiresAt) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("ownerId", session.OwnerID)
		c.Set("sessionId", session.ID)
		c.Next()
	}
}

package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"eatspot/internal/auth"
	"eatspot/internal/models"
)

// SessionAuth validates the shop-owner session cookie against the sessions
// collection and injects the owner's id into the context as "ownerId".
// Handlers must only trust that injected value, never client-supplied ids.
func SessionAuth(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(auth.SessionCookieName)
		if err != nil || raw == "" {
			log.Println("[SESSION] [ERROR] missing session cookie")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var session models.Session
		err = db.Collection("sessions").FindOne(ctx, bson.M{
			"tokenHash": auth.HashToken(raw),
		}).Decode(&session)
		if err != nil {
			log.Println("[SESSION] [ERROR] session lookup failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if time.Now().After(session.ExpiresAt) {
			// TTL index reaping lags; treat as gone either way.
			_, _ = db.Collection("sessions").DeleteOne(ctx, bson.M{"_id": session.ID})
			log.Println("[SESSION] [ERROR] session expired")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set("ownerId", session.OwnerID)
		c.Set("sessionId", session.ID)
		c.Next()
	}
}

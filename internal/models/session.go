package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is a server-side shop-owner session. The cookie carries the opaque
// token; only its sha256 hash is stored.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	TokenHash string             `bson:"tokenHash" json:"-"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

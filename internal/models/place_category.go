package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaceCategory is a site user's personal label for their places.
// Unique per (name, userId).
type PlaceCategory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

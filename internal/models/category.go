package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups food items within a single shop. Unique per (name, shopId).
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	ShopID    primitive.ObjectID `bson:"shopId" json:"shopId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

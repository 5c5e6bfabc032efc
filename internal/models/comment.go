package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a shop-scoped review. Immutable once created; only deletable by
// its author or the shop owner.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShopID     primitive.ObjectID `bson:"shopId" json:"shopId"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName,omitempty" json:"authorName,omitempty"`
	Message    string             `bson:"message" json:"message"`
	Rating     int                `bson:"rating" json:"rating"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// PlaceComment mirrors Comment for the places side of the site.
type PlaceComment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlaceID    primitive.ObjectID `bson:"placeId" json:"placeId"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName,omitempty" json:"authorName,omitempty"`
	Message    string             `bson:"message" json:"message"`
	Rating     int                `bson:"rating" json:"rating"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

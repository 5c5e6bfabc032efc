package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPlaceImages caps how many uploaded images a place keeps. Extra files in a
// multipart submission are ignored, not rejected.
const MaxPlaceImages = 5

type Place struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Location    string               `bson:"location" json:"location"`
	Images      StringList           `bson:"images" json:"images"`
	OwnerID     primitive.ObjectID   `bson:"ownerId" json:"ownerId"`
	CategoryIDs []primitive.ObjectID `bson:"categoryIds" json:"categoryIds"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	LikeCount   int                  `bson:"likeCount" json:"likeCount"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

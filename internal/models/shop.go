package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ShopTypeRestaurant    = "restaurant"
	ShopTypeSmallFoodShop = "small_food_shop"
	ShopTypeHotel         = "hotel"
)

// Review is the legacy embedded review subdocument. New reviews are written to
// the comments collection; this stays so older shop documents still decode.
type Review struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Message   string             `bson:"message" json:"message"`
	Rating    int                `bson:"rating" json:"rating"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Shop struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Location    string               `bson:"location" json:"location"`
	Hours       string               `bson:"hours,omitempty" json:"hours,omitempty"`
	PriceRange  string               `bson:"priceRange,omitempty" json:"priceRange,omitempty"`
	ShopType    string               `bson:"shopType" json:"shopType"`
	Contact     string               `bson:"contact,omitempty" json:"contact,omitempty"`
	PhotoPath   string               `bson:"photoPath,omitempty" json:"photoPath,omitempty"`
	OwnerID     primitive.ObjectID   `bson:"ownerId" json:"ownerId"`
	Reviews     []Review             `bson:"reviews,omitempty" json:"reviews,omitempty"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	LikeCount   int                  `bson:"likeCount" json:"likeCount"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func ValidShopType(value string) bool {
	switch value {
	case ShopTypeRestaurant, ShopTypeSmallFoodShop, ShopTypeHotel:
		return true
	}
	return false
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FoodItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	CategoryID  primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	ShopID      primitive.ObjectID `bson:"shopId" json:"shopId"`
	PicturePath string             `bson:"picturePath,omitempty" json:"picturePath,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

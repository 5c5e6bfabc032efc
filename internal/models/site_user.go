package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteUser is an account in the site-user realm (browsing, liking, reviewing).
// Kept in its own collection; never interchangeable with ShopOwner.
type SiteUser struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"passwordHash" json:"-"`
	IsVerified   bool                 `bson:"isVerified" json:"isVerified"`
	Favourites   []primitive.ObjectID `bson:"favourites" json:"favourites"`

	VerificationCode      string    `bson:"verificationCode,omitempty" json:"-"`
	VerificationExpiresAt time.Time `bson:"verificationExpiresAt,omitempty" json:"-"`
	ResetTokenHash        string    `bson:"resetTokenHash,omitempty" json:"-"`
	ResetExpiresAt        time.Time `bson:"resetExpiresAt,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

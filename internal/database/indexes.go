package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureOwnerIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	_, err := db.Collection("shop_owners").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureOwnerIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureSiteUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	_, err := db.Collection("site_users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureSiteUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureShopIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ownerIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}},
		Options: options.Index().
			SetName("ownerId_unique").
			SetUnique(true),
	}

	_, err := db.Collection("shops").Indexes().CreateOne(ctx, ownerIndex)
	if err != nil {
		log.Println("EnsureShopIndexes: ownerId index error:", err)
		return err
	}
	return nil
}

func EnsureCategoryIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nameShopIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: 1},
			{Key: "shopId", Value: 1},
		},
		Options: options.Index().
			SetName("name_shop_unique").
			SetUnique(true),
	}

	_, err := db.Collection("categories").Indexes().CreateOne(ctx, nameShopIndex)
	if err != nil {
		log.Println("EnsureCategoryIndexes: name_shop index error:", err)
		return err
	}
	return nil
}

func EnsurePlaceCategoryIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nameUserIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: 1},
			{Key: "userId", Value: 1},
		},
		Options: options.Index().
			SetName("name_user_unique").
			SetUnique(true),
	}

	_, err := db.Collection("place_categories").Indexes().CreateOne(ctx, nameUserIndex)
	if err != nil {
		log.Println("EnsurePlaceCategoryIndexes: name_user index error:", err)
		return err
	}
	return nil
}

// EnsureSessionIndexes creates the lookup index on the hashed session token and
// a TTL index so expired owner sessions are reaped by the server.
func EnsureSessionIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("sessions").Indexes()

	tokenIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "tokenHash", Value: 1}},
		Options: options.Index().
			SetName("tokenHash_unique").
			SetUnique(true),
	}
	if _, err := indexes.CreateOne(ctx, tokenIndex); err != nil {
		log.Println("EnsureSessionIndexes: tokenHash index error:", err)
		return err
	}

	expiryIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().
			SetName("expiresAt_ttl").
			SetExpireAfterSeconds(0),
	}
	if _, err := indexes.CreateOne(ctx, expiryIndex); err != nil {
		log.Println("EnsureSessionIndexes: expiresAt index error:", err)
		return err
	}
	return nil
}

package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eatspot/internal/models"
)

/*
GET /api/placecategory
*/
func GetPlaceCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("place_categories").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.PlaceCategory, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

/*
GET /api/placecategory/user
- bearer realm; only the caller's categories
*/
func GetUserPlaceCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("place_categories").Find(ctx, bson.M{"userId": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.PlaceCategory, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

/*
POST /api/placecategory
- unique (name, user)
*/
func CreatePlaceCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CategoryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		category := models.PlaceCategory{
			Name:      name,
			UserID:    userID,
			CreatedAt: time.Now(),
		}

		result, err := db.Collection("place_categories").InsertOne(ctx, category)
		if err != nil {
			if isDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
				return
			}
			log.Println("[PLACECATEGORY] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		category.ID = result.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{"data": category})
	}
}

/*
PUT /api/placecategory/:id
*/
func UpdatePlaceCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req CategoryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		if req.Name == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.PlaceCategory
		err = db.Collection("place_categories").FindOneAndUpdate(ctx,
			bson.M{"_id": id, "userId": userID},
			bson.M{"$set": bson.M{"name": name}},
			findOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		if err != nil {
			if isDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
				return
			}
			log.Println("[PLACECATEGORY] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": updated})
	}
}

/*
DELETE /api/placecategory/:id
- places keep the dangling reference; not cascaded
*/
func DeletePlaceCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("place_categories").DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
		if err != nil {
			log.Println("[PLACECATEGORY] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

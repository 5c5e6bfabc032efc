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

type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

type CategoryUpdateRequest struct {
	Name *string `json:"name"`
}

// ownerShop resolves the caller's shop; categories are always scoped to it.
func ownerShop(ctx context.Context, db *mongo.Database, ownerID primitive.ObjectID) (models.Shop, error) {
	var shop models.Shop
	err := db.Collection("shops").FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&shop)
	return shop, err
}

/*
GET /api/categories/shop/:shopId
*/
func GetShopCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, err := primitive.ObjectIDFromHex(c.Param("shopId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(ctx,
			bson.M{"shopId": shopID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

/*
GET /api/categories/all
*/
func GetAllCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/categories/all"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

/*
GET /api/categories/my-shop
- session realm
*/
func GetMyShopCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		shop, err := ownerShop(ctx, db, ownerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}

		cursor, err := db.Collection("categories").Find(ctx, bson.M{"shopId": shop.ID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

/*
POST /api/categories
- unique (name, shop)
*/
func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerFromContext(c)
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

		shop, err := ownerShop(ctx, db, ownerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}

		category := models.Category{
			Name:      name,
			ShopID:    shop.ID,
			CreatedAt: time.Now(),
		}

		result, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			if isDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "category already exists"})
				return
			}
			log.Println("[CATEGORY] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		category.ID = result.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{"data": category})
	}
}

/*
PUT /api/categories/:id
*/
func UpdateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerFromContext(c)
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

		shop, err := ownerShop(ctx, db, ownerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}

		var updated models.Category
		err = db.Collection("categories").FindOneAndUpdate(ctx,
			bson.M{"_id": id, "shopId": shop.ID},
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
			log.Println("[CATEGORY] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": updated})
	}
}

/*
DELETE /api/categories/:id
- hard delete; dependent food items keep a dangling reference, not cascaded
*/
func DeleteCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerFromContext(c)
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

		shop, err := ownerShop(ctx, db, ownerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}

		result, err := db.Collection("categories").DeleteOne(ctx, bson.M{"_id": id, "shopId": shop.ID})
		if err != nil {
			log.Println("[CATEGORY] [ERROR] delete failed:", err)
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

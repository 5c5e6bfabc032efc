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

	"eatspot/internal/models"
)

type favouriteRequest struct {
	ShopID string `json:"shopId" binding:"required"`
}

/*
GET /api/siteuser/favourites
- resolved shops, in the order they were favourited
*/
func GetFavourites(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			log.Println("[FAVOURITE] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.SiteUser
		if err := db.Collection("site_users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[FAVOURITE] [ERROR] get favourites failed:", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		if len(user.Favourites) == 0 {
			c.JSON(http.StatusOK, gin.H{"data": []models.Shop{}})
			return
		}

		cursor, err := db.Collection("shops").Find(ctx, bson.M{
			"_id": bson.M{"$in": user.Favourites},
		})
		if err != nil {
			log.Println("[FAVOURITE] [ERROR] list favourite shops failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		shops := make([]models.Shop, 0, len(user.Favourites))
		if err := cursor.All(ctx, &shops); err != nil {
			log.Println("[FAVOURITE] [ERROR] decode favourite shops failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		shopByID := make(map[primitive.ObjectID]models.Shop, len(shops))
		for _, shop := range shops {
			shop.LikeCount = len(shop.Likes)
			shopByID[shop.ID] = shop
		}

		ordered := make([]models.Shop, 0, len(shops))
		for _, favouriteID := range user.Favourites {
			if shop, exists := shopByID[favouriteID]; exists {
				ordered = append(ordered, shop)
			}
		}

		c.JSON(http.StatusOK, gin.H{"data": ordered})
	}
}

/*
POST /api/siteuser/favourites
*/
func AddFavourite(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req favouriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		shopID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ShopID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := db.Collection("shops").FindOne(ctx, bson.M{"_id": shopID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopId"})
				return
			}
			log.Println("[FAVOURITE] [ERROR] shop lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		_, err = db.Collection("site_users").UpdateByID(ctx, userID, bson.M{
			"$addToSet": bson.M{"favourites": shopID},
			"$set":      bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			log.Println("[FAVOURITE] [ERROR] add favourite failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "favourite updated"})
	}
}

/*
DELETE /api/siteuser/favourites/:shopId
*/
func DeleteFavourite(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		shopID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("shopId")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err = db.Collection("site_users").UpdateByID(ctx, userID, bson.M{
			"$pull": bson.M{"favourites": shopID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			log.Println("[FAVOURITE] [ERROR] remove favourite failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "favourite updated"})
	}
}

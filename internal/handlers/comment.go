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

type CommentCreateRequest struct {
	ShopID  string `json:"shopId" binding:"required"`
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
}

// validRating bounds comment ratings to the 1..5 scale, both ends inclusive.
func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

/*
GET /api/comment/shop/:shopId
*/
func GetShopComments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, err := primitive.ObjectIDFromHex(c.Param("shopId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("comments").Find(ctx,
			bson.M{"shopId": shopID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		comments := make([]models.Comment, 0)
		if err := cursor.All(ctx, &comments); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": comments})
	}
}

/*
POST /api/comment
- bearer realm
*/
func CreateComment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CommentCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		message := strings.TrimSpace(req.Message)
		if message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
			return
		}
		if !validRating(req.Rating) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
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
				c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		var user models.SiteUser
		authorName := ""
		if err := db.Collection("site_users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
			authorName = user.Name
		}

		comment := models.Comment{
			ShopID:     shopID,
			AuthorID:   userID,
			AuthorName: authorName,
			Message:    message,
			Rating:     req.Rating,
			CreatedAt:  time.Now(),
		}

		result, err := db.Collection("comments").InsertOne(ctx, comment)
		if err != nil {
			log.Println("[COMMENT] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		comment.ID = result.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{"data": comment})
	}
}

/*
DELETE /api/comment/:id
- by the comment author (bearer) or the shop's owner (session)
*/
func DeleteComment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var comment models.Comment
		if err := db.Collection("comments").FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}

		allowed := false
		if userID, ok := userFromContext(c); ok && comment.AuthorID == userID {
			allowed = true
		}
		if ownerID, ok := ownerFromContext(c); ok && !allowed {
			var shop models.Shop
			if err := db.Collection("shops").FindOne(ctx, bson.M{"_id": comment.ShopID}).Decode(&shop); err == nil {
				allowed = shop.OwnerID == ownerID
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		if _, err := db.Collection("comments").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			log.Println("[COMMENT] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

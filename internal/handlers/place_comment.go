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

type PlaceCommentCreateRequest struct {
	PlaceID string `json:"placeId" binding:"required"`
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
}

/*
GET /api/placecomment/place/:placeId
*/
func GetPlaceComments(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		placeID, err := primitive.ObjectIDFromHex(c.Param("placeId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid placeId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("place_comments").Find(ctx,
			bson.M{"placeId": placeID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		comments := make([]models.PlaceComment, 0)
		if err := cursor.All(ctx, &comments); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": comments})
	}
}

/*
POST /api/placecomment
- bearer realm
*/
func CreatePlaceComment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req PlaceCommentCreateRequest
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

		placeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.PlaceID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid placeId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := db.Collection("places").FindOne(ctx, bson.M{"_id": placeID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
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

		comment := models.PlaceComment{
			PlaceID:    placeID,
			AuthorID:   userID,
			AuthorName: authorName,
			Message:    message,
			Rating:     req.Rating,
			CreatedAt:  time.Now(),
		}

		result, err := db.Collection("place_comments").InsertOne(ctx, comment)
		if err != nil {
			log.Println("[PLACECOMMENT] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		comment.ID = result.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{"data": comment})
	}
}

/*
DELETE /api/placecomment/:id
- by the comment author or the place's owner; both are site users
*/
func DeletePlaceComment(db *mongo.Database) gin.HandlerFunc {
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

		var comment models.PlaceComment
		if err := db.Collection("place_comments").FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}

		allowed := comment.AuthorID == userID
		if !allowed {
			var place models.Place
			if err := db.Collection("places").FindOne(ctx, bson.M{"_id": comment.PlaceID}).Decode(&place); err == nil {
				allowed = place.OwnerID == userID
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		if _, err := db.Collection("place_comments").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			log.Println("[PLACECOMMENT] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

package handlers

import (
	"context"
	"errors"
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

type MultipartPlaceInput struct {
	Title          string
	TitleSet       bool
	Description    string
	DescriptionSet bool
	Location       string
	LocationSet    bool
	CategoryIDs    []primitive.ObjectID
	CategoryIDSet  bool
	ImagePaths     []string
}

// parseMultipartPlaceRequest persists at most models.MaxPlaceImages files from
// the `images` field; surplus files are ignored. The caller owns cleanup of
// ImagePaths when the request fails later on.
func parseMultipartPlaceRequest(c *gin.Context) (MultipartPlaceInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return MultipartPlaceInput{}, err
	}

	input := MultipartPlaceInput{}

	if value, ok := c.GetPostForm("title"); ok {
		input.Title = strings.TrimSpace(value)
		input.TitleSet = true
	}
	if value, ok := c.GetPostForm("description"); ok {
		input.Description = strings.TrimSpace(value)
		input.DescriptionSet = true
	}
	if value, ok := c.GetPostForm("location"); ok {
		input.Location = strings.TrimSpace(value)
		input.LocationSet = true
	}

	rawCategoryIDs := c.PostFormArray("categoryId")
	if len(rawCategoryIDs) > 0 {
		ids := make([]primitive.ObjectID, 0, len(rawCategoryIDs))
		for _, raw := range rawCategoryIDs {
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}
			id, err := primitive.ObjectIDFromHex(value)
			if err != nil {
				return MultipartPlaceInput{}, errors.New("invalid categoryId: " + value)
			}
			ids = append(ids, id)
		}
		input.CategoryIDs = ids
		input.CategoryIDSet = true
	}

	form := c.Request.MultipartForm
	if form != nil {
		files := form.File["images"]
		if len(files) > models.MaxPlaceImages {
			files = files[:models.MaxPlaceImages]
		}
		for _, file := range files {
			path, err := saveImage(file, "places")
			if err != nil {
				cleanupUploads(input.ImagePaths)
				return MultipartPlaceInput{}, err
			}
			input.ImagePaths = append(input.ImagePaths, path)
		}
	}

	return input, nil
}

/*
GET /api/place
*/
func GetPlaces(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/place"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["title"] = bson.M{"$regex": search, "$options": "i"}
		}
		if categoryID := strings.TrimSpace(c.Query("categoryId")); categoryID != "" {
			parsed, err := primitive.ObjectIDFromHex(categoryID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid categoryId")
				return
			}
			filter["categoryIds"] = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("places").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		places := make([]models.Place, 0)
		if err := cursor.All(ctx, &places); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		for i := range places {
			places[i].LikeCount = len(places[i].Likes)
		}

		log.Printf("[%s] returning %d places", route, len(places))
		c.JSON(http.StatusOK, gin.H{"data": places})
	}
}

/*
GET /api/place/:id
*/
func GetPlace(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var place models.Place
		if err := db.Collection("places").FindOne(ctx, bson.M{"_id": id}).Decode(&place); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}

		place.LikeCount = len(place.Likes)
		c.JSON(http.StatusOK, gin.H{"data": place})
	}
}

/*
POST /api/place
- bearer realm; multipart field `images`, at most 5 persisted
*/
func CreatePlace(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		input, err := parseMultipartPlaceRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Title == "" || input.Location == "" {
			cleanupUploads(input.ImagePaths)
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and location are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Category references must belong to the caller.
		if len(input.CategoryIDs) > 0 {
			count, err := db.Collection("place_categories").CountDocuments(ctx, bson.M{
				"_id":    bson.M{"$in": input.CategoryIDs},
				"userId": userID,
			})
			if err != nil {
				cleanupUploads(input.ImagePaths)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}
			if count != int64(len(input.CategoryIDs)) {
				cleanupUploads(input.ImagePaths)
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
				return
			}
		}

		now := time.Now()
		place := models.Place{
			Title:       input.Title,
			Description: input.Description,
			Location:    input.Location,
			Images:      input.ImagePaths,
			OwnerID:     userID,
			CategoryIDs: input.CategoryIDs,
			Likes:       []primitive.ObjectID{},
			LikeCount:   0,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if place.Images == nil {
			place.Images = models.StringList{}
		}
		if place.CategoryIDs == nil {
			place.CategoryIDs = []primitive.ObjectID{}
		}

		result, err := db.Collection("places").InsertOne(ctx, place)
		if err != nil {
			cleanupUploads(input.ImagePaths)
			log.Println("[PLACE] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		place.ID = result.InsertedID.(primitive.ObjectID)
		log.Println("[PLACE] [INFO] place created:", place.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{"data": place})
	}
}

/*
PUT /api/place/:id
- partial update, owner-scoped; new images replace the old set
*/
func UpdatePlace(db *mongo.Database) gin.HandlerFunc {
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

		input, err := parseMultipartPlaceRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Place
		if err := db.Collection("places").FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			cleanupUploads(input.ImagePaths)
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}
		if existing.OwnerID != userID {
			cleanupUploads(input.ImagePaths)
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		update := bson.M{}
		if input.TitleSet {
			if input.Title == "" {
				cleanupUploads(input.ImagePaths)
				c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
				return
			}
			update["title"] = input.Title
		}
		if input.DescriptionSet {
			update["description"] = input.Description
		}
		if input.LocationSet {
			if input.Location == "" {
				cleanupUploads(input.ImagePaths)
				c.JSON(http.StatusBadRequest, gin.H{"error": "location cannot be empty"})
				return
			}
			update["location"] = input.Location
		}
		if input.CategoryIDSet {
			count, err := db.Collection("place_categories").CountDocuments(ctx, bson.M{
				"_id":    bson.M{"$in": input.CategoryIDs},
				"userId": userID,
			})
			if err != nil || count != int64(len(input.CategoryIDs)) {
				cleanupUploads(input.ImagePaths)
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
				return
			}
			update["categoryIds"] = input.CategoryIDs
		}
		if len(input.ImagePaths) > 0 {
			update["images"] = models.StringList(input.ImagePaths)
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		var updated models.Place
		err = db.Collection("places").FindOneAndUpdate(ctx,
			bson.M{"_id": id, "ownerId": userID},
			bson.M{"$set": update},
			findOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			cleanupUploads(input.ImagePaths)
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}
		if err != nil {
			cleanupUploads(input.ImagePaths)
			log.Println("[PLACE] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if len(input.ImagePaths) > 0 {
			cleanupUploads(existing.Images)
		}

		updated.LikeCount = len(updated.Likes)
		c.JSON(http.StatusOK, gin.H{"data": updated})
	}
}

/*
DELETE /api/place/:id
*/
func DeletePlace(db *mongo.Database) gin.HandlerFunc {
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

		var place models.Place
		if err := db.Collection("places").FindOne(ctx, bson.M{"_id": id}).Decode(&place); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}
		if place.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		if _, err := db.Collection("places").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			log.Println("[PLACE] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		_, _ = db.Collection("place_comments").DeleteMany(ctx, bson.M{"placeId": id})
		cleanupUploads(place.Images)

		log.Println("[PLACE] [INFO] place deleted:", id.Hex())
		c.Status(http.StatusNoContent)
	}
}

/*
GET /api/place/:id/likes
*/
func GetPlaceLikes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var place models.Place
		if err := db.Collection("places").FindOne(ctx, bson.M{"_id": id}).Decode(&place); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"likes":     place.Likes,
			"likeCount": len(place.Likes),
		}})
	}
}

/*
POST /api/place/:id/like
*/
func TogglePlaceLike(db *mongo.Database) gin.HandlerFunc {
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

		state, err := toggleLike(ctx, db.Collection("places"), id, userID)
		if err == errLikeTargetNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}
		if err != nil {
			log.Println("[PLACE] [ERROR] like toggle failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"liked":     state.Liked,
			"likeCount": state.LikeCount,
		}})
	}
}

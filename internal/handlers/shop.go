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

type MultipartShopInput struct {
	Name           string
	NameSet        bool
	Description    string
	DescriptionSet bool
	Location       string
	LocationSet    bool
	Hours          string
	HoursSet       bool
	PriceRange     string
	PriceRangeSet  bool
	ShopType       string
	ShopTypeSet    bool
	Contact        string
	ContactSet     bool
	PhotoPath      string
	PhotoSet       bool
}

func parseMultipartShopRequest(c *gin.Context) (MultipartShopInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return MultipartShopInput{}, err
	}

	input := MultipartShopInput{}

	if value, ok := c.GetPostForm("name"); ok {
		input.Name = strings.TrimSpace(value)
		input.NameSet = true
	}
	if value, ok := c.GetPostForm("description"); ok {
		input.Description = strings.TrimSpace(value)
		input.DescriptionSet = true
	}
	if value, ok := c.GetPostForm("location"); ok {
		input.Location = strings.TrimSpace(value)
		input.LocationSet = true
	}
	if value, ok := c.GetPostForm("hours"); ok {
		input.Hours = strings.TrimSpace(value)
		input.HoursSet = true
	}
	if value, ok := c.GetPostForm("priceRange"); ok {
		input.PriceRange = strings.TrimSpace(value)
		input.PriceRangeSet = true
	}
	if value, ok := c.GetPostForm("shopType"); ok {
		input.ShopType = strings.TrimSpace(value)
		input.ShopTypeSet = true
	}
	if value, ok := c.GetPostForm("contact"); ok {
		input.Contact = strings.TrimSpace(value)
		input.ContactSet = true
	}

	file, err := c.FormFile("photo")
	if err == nil {
		photoPath, err := saveImage(file, "shops")
		if err != nil {
			return MultipartShopInput{}, err
		}
		input.PhotoPath = photoPath
		input.PhotoSet = true
	} else if !errors.Is(err, http.ErrMissingFile) && !strings.Contains(err.Error(), "no such file") {
		return MultipartShopInput{}, err
	}

	return input, nil
}

/*
GET /api/shops/all
- public listing
*/
func GetAllShops(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/shops/all"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{}
		if shopType := strings.TrimSpace(c.Query("shopType")); shopType != "" {
			filter["shopType"] = shopType
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["name"] = bson.M{"$regex": search, "$options": "i"}
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("shops").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		shops := make([]models.Shop, 0)
		if err := cursor.All(ctx, &shops); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		for i := range shops {
			shops[i].LikeCount = len(shops[i].Likes)
		}

		log.Printf("[%s] returning %d shops", route, len(shops))
		c.JSON(http.StatusOK, gin.H{"data": shops})
	}
}

/*
GET /api/shops/:id
*/
func GetShop(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var shop models.Shop
		if err := db.Collection("shops").FindOne(ctx, bson.M{"_id": id}).Decode(&shop); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}

		shop.LikeCount = len(shop.Likes)
		c.JSON(http.StatusOK, gin.H{"data": shop})
	}
}

/*
GET /api/shops/my-shop
- session realm
*/
func GetMyShop(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var shop models.Shop
		if err := db.Collection("shops").FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&shop); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}

		shop.LikeCount = len(shop.Likes)
		c.JSON(http.StatusOK, gin.H{"data": shop})
	}
}

/*
POST /api/shops
- one shop per owner
- multipart field `photo`
*/
func CreateShop(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		input, err := parseMultipartShopRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cleanup := func() {
			if input.PhotoSet {
				cleanupUploads([]string{input.PhotoPath})
			}
		}

		if input.Name == "" || input.Location == "" || input.ShopType == "" {
			cleanup()
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, location and shopType are required"})
			return
		}
		if !models.ValidShopType(input.ShopType) {
			cleanup()
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopType"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("shops").CountDocuments(ctx, bson.M{"ownerId": ownerID})
		if err != nil {
			cleanup()
			log.Println("[SHOP] [ERROR] create shop db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count > 0 {
			cleanup()
			c.JSON(http.StatusConflict, gin.H{"error": "owner already has a shop"})
			return
		}

		now := time.Now()
		shop := models.Shop{
			Name:        input.Name,
			Description: input.Description,
			Location:    input.Location,
			Hours:       input.Hours,
			PriceRange:  input.PriceRange,
			ShopType:    input.ShopType,
			Contact:     input.Contact,
			PhotoPath:   input.PhotoPath,
			OwnerID:     ownerID,
			Likes:       []primitive.ObjectID{},
			LikeCount:   0,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		result, err := db.Collection("shops").InsertOne(ctx, shop)
		if err != nil {
			cleanup()
			if isDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "owner already has a shop"})
				return
			}
			log.Println("[SHOP] [ERROR] create shop insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		shop.ID = result.InsertedID.(primitive.ObjectID)
		log.Println("[SHOP] [INFO] shop created:", shop.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{"data": shop})
	}
}

/*
PUT /api/shops/:id
- partial update, owner-scoped
*/
func UpdateShop(db *mongo.Database) gin.HandlerFunc {
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

		input, err := parseMultipartShopRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cleanup := func() {
			if input.PhotoSet {
				cleanupUploads([]string{input.PhotoPath})
			}
		}

		update := bson.M{}
		if input.NameSet {
			if input.Name == "" {
				cleanup()
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			update["name"] = input.Name
		}
		if input.DescriptionSet {
			update["description"] = input.Description
		}
		if input.LocationSet {
			if input.Location == "" {
				cleanup()
				c.JSON(http.StatusBadRequest, gin.H{"error": "location cannot be empty"})
				return
			}
			update["location"] = input.Location
		}
		if input.HoursSet {
			update["hours"] = input.Hours
		}
		if input.PriceRangeSet {
			update["priceRange"] = input.PriceRange
		}
		if input.ShopTypeSet {
			if !models.ValidShopType(input.ShopType) {
				cleanup()
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopType"})
				return
			}
			update["shopType"] = input.ShopType
		}
		if input.ContactSet {
			update["contact"] = input.Contact
		}
		if input.PhotoSet {
			update["photoPath"] = input.PhotoPath
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Shop
		if err := db.Collection("shops").FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
			cleanup()
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}
		if existing.OwnerID != ownerID {
			cleanup()
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		var updated models.Shop
		err = db.Collection("shops").FindOneAndUpdate(ctx,
			bson.M{"_id": id, "ownerId": ownerID},
			bson.M{"$set": update},
			findOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			cleanup()
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}
		if err != nil {
			cleanup()
			log.Println("[SHOP] [ERROR] update shop failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if input.PhotoSet && existing.PhotoPath != "" && existing.PhotoPath != input.PhotoPath {
			if err := safeDeleteUpload(existing.PhotoPath); err != nil {
				log.Printf("[SHOP] old photo delete failed: %v", err)
			}
		}

		updated.LikeCount = len(updated.Likes)
		c.JSON(http.StatusOK, gin.H{"data": updated})
	}
}

/*
DELETE /api/shops/:id
- hard delete, cascades to the shop's categories, food items and comments;
  uploaded files removed best-effort
*/
func DeleteShop(db *mongo.Database) gin.HandlerFunc {
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

		var shop models.Shop
		if err := db.Collection("shops").FindOne(ctx, bson.M{"_id": id}).Decode(&shop); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}
		if shop.OwnerID != ownerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		cursor, err := db.Collection("food_items").Find(ctx, bson.M{"shopId": id})
		if err == nil {
			var foods []models.FoodItem
			if err := cursor.All(ctx, &foods); err == nil {
				for _, food := range foods {
					if food.PicturePath != "" {
						if err := safeDeleteUpload(food.PicturePath); err != nil {
							log.Printf("[SHOP] food picture delete failed: %v", err)
						}
					}
				}
			}
		}

		if _, err := db.Collection("shops").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			log.Println("[SHOP] [ERROR] delete shop failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		_, _ = db.Collection("food_items").DeleteMany(ctx, bson.M{"shopId": id})
		_, _ = db.Collection("categories").DeleteMany(ctx, bson.M{"shopId": id})
		_, _ = db.Collection("comments").DeleteMany(ctx, bson.M{"shopId": id})

		if shop.PhotoPath != "" {
			if err := safeDeleteUpload(shop.PhotoPath); err != nil {
				log.Printf("[SHOP] photo delete failed: %v", err)
			}
		}

		log.Println("[SHOP] [INFO] shop deleted:", id.Hex())
		c.Status(http.StatusNoContent)
	}
}

/*
GET /api/shops/:id/likes
*/
func GetShopLikes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var shop models.Shop
		if err := db.Collection("shops").FindOne(ctx, bson.M{"_id": id}).Decode(&shop); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"likes":     shop.Likes,
			"likeCount": len(shop.Likes),
		}})
	}
}

/*
POST /api/shops/:id/like
- bearer realm; idempotent toggle
*/
func ToggleShopLike(db *mongo.Database) gin.HandlerFunc {
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

		state, err := toggleLike(ctx, db.Collection("shops"), id, userID)
		if err == errLikeTargetNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}
		if err != nil {
			log.Println("[SHOP] [ERROR] like toggle failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"liked":     state.Liked,
			"likeCount": state.LikeCount,
		}})
	}
}

package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eatspot/internal/models"
)

type MultipartFoodInput struct {
	Name          string
	NameSet       bool
	Price         float64
	PriceSet      bool
	CategoryID    primitive.ObjectID
	CategoryIDSet bool
	PicturePath   string
	PictureSet    bool
}

func parseMultipartFoodRequest(c *gin.Context) (MultipartFoodInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return MultipartFoodInput{}, err
	}

	input := MultipartFoodInput{}

	if value, ok := c.GetPostForm("name"); ok {
		input.Name = strings.TrimSpace(value)
		input.NameSet = true
	}

	if value, ok := c.GetPostForm("price"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return MultipartFoodInput{}, err
		}
		input.Price = parsed
		input.PriceSet = true
	}

	if value, ok := c.GetPostForm("categoryId"); ok {
		parsed, err := primitive.ObjectIDFromHex(strings.TrimSpace(value))
		if err != nil {
			return MultipartFoodInput{}, errors.New("invalid categoryId")
		}
		input.CategoryID = parsed
		input.CategoryIDSet = true
	}

	file, err := c.FormFile("picture")
	if err == nil {
		picturePath, err := saveImage(file, "food")
		if err != nil {
			return MultipartFoodInput{}, err
		}
		input.PicturePath = picturePath
		input.PictureSet = true
	} else if !errors.Is(err, http.ErrMissingFile) && !strings.Contains(err.Error(), "no such file") {
		return MultipartFoodInput{}, err
	}

	return input, nil
}

/*
GET /api/food/shop/:shopId
*/
func GetShopFood(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, err := primitive.ObjectIDFromHex(c.Param("shopId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopId"})
			return
		}

		filter := bson.M{"shopId": shopID}
		if categoryID := strings.TrimSpace(c.Query("categoryId")); categoryID != "" {
			parsed, err := primitive.ObjectIDFromHex(categoryID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
				return
			}
			filter["categoryId"] = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("food_items").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		foods := make([]models.FoodItem, 0)
		if err := cursor.All(ctx, &foods); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": foods})
	}
}

/*
GET /api/food/all
*/
func GetAllFood(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/food/all"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("food_items").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		foods := make([]models.FoodItem, 0)
		if err := cursor.All(ctx, &foods); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d food items", route, len(foods))
		c.JSON(http.StatusOK, gin.H{"data": foods})
	}
}

/*
GET /api/food/my-shop
*/
func GetMyShopFood(db *mongo.Database) gin.HandlerFunc {
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

		cursor, err := db.Collection("food_items").Find(ctx, bson.M{"shopId": shop.ID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		foods := make([]models.FoodItem, 0)
		if err := cursor.All(ctx, &foods); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": foods})
	}
}

/*
POST /api/food
- multipart field `picture`
*/
func CreateFood(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		input, err := parseMultipartFoodRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cleanup := func() {
			if input.PictureSet {
				cleanupUploads([]string{input.PicturePath})
			}
		}

		if input.Name == "" || !input.PriceSet || !input.CategoryIDSet {
			cleanup()
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, price and categoryId are required"})
			return
		}
		if input.Price < 0 {
			cleanup()
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		shop, err := ownerShop(ctx, db, ownerID)
		if err != nil {
			cleanup()
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}

		// Category must belong to the same shop.
		if err := db.Collection("categories").FindOne(ctx, bson.M{
			"_id":    input.CategoryID,
			"shopId": shop.ID,
		}).Err(); err != nil {
			cleanup()
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		now := time.Now()
		food := models.FoodItem{
			Name:        input.Name,
			Price:       input.Price,
			CategoryID:  input.CategoryID,
			ShopID:      shop.ID,
			PicturePath: input.PicturePath,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		result, err := db.Collection("food_items").InsertOne(ctx, food)
		if err != nil {
			cleanup()
			log.Println("[FOOD] [ERROR] create failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		food.ID = result.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{"data": food})
	}
}

/*
PUT /api/food/:id
*/
func UpdateFood(db *mongo.Database) gin.HandlerFunc {
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

		input, err := parseMultipartFoodRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cleanup := func() {
			if input.PictureSet {
				cleanupUploads([]string{input.PicturePath})
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		shop, err := ownerShop(ctx, db, ownerID)
		if err != nil {
			cleanup()
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
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
		if input.PriceSet {
			if input.Price < 0 {
				cleanup()
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
				return
			}
			update["price"] = input.Price
		}
		if input.CategoryIDSet {
			if err := db.Collection("categories").FindOne(ctx, bson.M{
				"_id":    input.CategoryID,
				"shopId": shop.ID,
			}).Err(); err != nil {
				cleanup()
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
				return
			}
			update["categoryId"] = input.CategoryID
		}
		if input.PictureSet {
			update["picturePath"] = input.PicturePath
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		var existing models.FoodItem
		if err := db.Collection("food_items").FindOne(ctx, bson.M{"_id": id, "shopId": shop.ID}).Decode(&existing); err != nil {
			cleanup()
			c.JSON(http.StatusNotFound, gin.H{"error": "food item not found"})
			return
		}

		var updated models.FoodItem
		err = db.Collection("food_items").FindOneAndUpdate(ctx,
			bson.M{"_id": id, "shopId": shop.ID},
			bson.M{"$set": update},
			findOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			cleanup()
			c.JSON(http.StatusNotFound, gin.H{"error": "food item not found"})
			return
		}
		if err != nil {
			cleanup()
			log.Println("[FOOD] [ERROR] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if input.PictureSet && existing.PicturePath != "" && existing.PicturePath != input.PicturePath {
			if err := safeDeleteUpload(existing.PicturePath); err != nil {
				log.Printf("[FOOD] old picture delete failed: %v", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"data": updated})
	}
}

/*
DELETE /api/food/:id
*/
func DeleteFood(db *mongo.Database) gin.HandlerFunc {
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

		var food models.FoodItem
		if err := db.Collection("food_items").FindOne(ctx, bson.M{"_id": id, "shopId": shop.ID}).Decode(&food); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "food item not found"})
			return
		}

		if _, err := db.Collection("food_items").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			log.Println("[FOOD] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if food.PicturePath != "" {
			if err := safeDeleteUpload(food.PicturePath); err != nil {
				log.Printf("[FOOD] picture delete failed: %v", err)
			}
		}

		c.Status(http.StatusNoContent)
	}
}

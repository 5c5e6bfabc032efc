package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"eatspot/internal/config"
	"eatspot/internal/database"
	"eatspot/internal/handlers"
	"eatspot/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureOwnerIndexes(db); err != nil {
		log.Printf("owner index warning: %v", err)
	}
	if err := database.EnsureSiteUserIndexes(db); err != nil {
		log.Printf("site user index warning: %v", err)
	}
	if err := database.EnsureShopIndexes(db); err != nil {
		log.Printf("shop index warning: %v", err)
	}
	if err := database.EnsureCategoryIndexes(db); err != nil {
		log.Printf("category index warning: %v", err)
	}
	if err := database.EnsurePlaceCategoryIndexes(db); err != nil {
		log.Printf("place category index warning: %v", err)
	}
	if err := database.EnsureSessionIndexes(db); err != nil {
		log.Printf("session index warning: %v", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/public", config.AppEnv.PublicDir)

	jwtSecret := config.AppEnv.JWTSecret

	ownerAuth := r.Group("/api/auth")
	{
		ownerAuth.POST("/signup", handlers.OwnerSignup(db))
		ownerAuth.POST("/verify-email", handlers.OwnerVerifyEmail(db))
		ownerAuth.POST("/resend-code", handlers.OwnerResendCode(db))
		ownerAuth.POST("/login", handlers.OwnerLogin(db, config.AppEnv.SessionTTL))
		ownerAuth.POST("/logout", middleware.SessionAuth(db), handlers.OwnerLogout(db))
		ownerAuth.POST("/forgot-password", handlers.OwnerForgotPassword(db))
		ownerAuth.POST("/reset-password/:token", handlers.OwnerResetPassword(db))
		ownerAuth.POST("/change-password", middleware.SessionAuth(db), handlers.OwnerChangePassword(db))
		ownerAuth.POST("/update-profile", middleware.SessionAuth(db), handlers.OwnerUpdateProfile(db))
	}

	siteUser := r.Group("/api/siteuser")
	{
		siteUser.POST("/signup", handlers.SiteUserSignup(db))
		siteUser.POST("/verify-email", handlers.SiteUserVerifyEmail(db))
		siteUser.POST("/resend-code", handlers.SiteUserResendCode(db))
		siteUser.POST("/login", handlers.SiteUserLogin(db, jwtSecret, config.AppEnv.AccessTokenTTL))
		siteUser.POST("/forgot-password", handlers.SiteUserForgotPassword(db))
		siteUser.POST("/reset-password/:token", handlers.SiteUserResetPassword(db))
		siteUser.GET("/check-auth", middleware.UserAuth(jwtSecret), handlers.SiteUserCheckAuth(db))

		siteUser.GET("/favourites", middleware.UserAuth(jwtSecret), handlers.GetFavourites(db))
		siteUser.POST("/favourites", middleware.UserAuth(jwtSecret), handlers.AddFavourite(db))
		siteUser.DELETE("/favourites/:shopId", middleware.UserAuth(jwtSecret), handlers.DeleteFavourite(db))
	}

	shops := r.Group("/api/shops")
	{
		shops.GET("/all", handlers.GetAllShops(db))
		shops.GET("/my-shop", middleware.SessionAuth(db), handlers.GetMyShop(db))
		shops.POST("", middleware.SessionAuth(db), handlers.CreateShop(db))
		shops.GET("/:id", handlers.GetShop(db))
		shops.PUT("/:id", middleware.SessionAuth(db), handlers.UpdateShop(db))
		shops.DELETE("/:id", middleware.SessionAuth(db), handlers.DeleteShop(db))
		shops.GET("/:id/likes", handlers.GetShopLikes(db))
		shops.POST("/:id/like", middleware.UserAuth(jwtSecret), handlers.ToggleShopLike(db))
	}

	categories := r.Group("/api/categories")
	{
		categories.GET("/shop/:shopId", handlers.GetShopCategories(db))
		categories.GET("/all", handlers.GetAllCategories(db))
		categories.GET("/my-shop", middleware.SessionAuth(db), handlers.GetMyShopCategories(db))
		categories.POST("", middleware.SessionAuth(db), handlers.CreateCategory(db))
		categories.PUT("/:id", middleware.SessionAuth(db), handlers.UpdateCategory(db))
		categories.DELETE("/:id", middleware.SessionAuth(db), handlers.DeleteCategory(db))
	}

	food := r.Group("/api/food")
	{
		food.GET("/shop/:shopId", handlers.GetShopFood(db))
		food.GET("/all", handlers.GetAllFood(db))
		food.GET("/my-shop", middleware.SessionAuth(db), handlers.GetMyShopFood(db))
		food.POST("", middleware.SessionAuth(db), handlers.CreateFood(db))
		food.PUT("/:id", middleware.SessionAuth(db), handlers.UpdateFood(db))
		food.DELETE("/:id", middleware.SessionAuth(db), handlers.DeleteFood(db))
	}

	places := r.Group("/api/place")
	{
		places.GET("", handlers.GetPlaces(db))
		places.GET("/:id", handlers.GetPlace(db))
		places.POST("", middleware.UserAuth(jwtSecret), handlers.CreatePlace(db))
		places.PUT("/:id", middleware.UserAuth(jwtSecret), handlers.UpdatePlace(db))
		places.DELETE("/:id", middleware.UserAuth(jwtSecret), handlers.DeletePlace(db))
		places.GET("/:id/likes", handlers.GetPlaceLikes(db))
		places.POST("/:id/like", middleware.UserAuth(jwtSecret), handlers.TogglePlaceLike(db))
	}

	placeCategories := r.Group("/api/placecategory")
	{
		placeCategories.GET("", handlers.GetPlaceCategories(db))
		placeCategories.GET("/user", middleware.UserAuth(jwtSecret), handlers.GetUserPlaceCategories(db))
		placeCategories.POST("", middleware.UserAuth(jwtSecret), handlers.CreatePlaceCategory(db))
		placeCategories.PUT("/:id", middleware.UserAuth(jwtSecret), handlers.UpdatePlaceCategory(db))
		placeCategories.DELETE("/:id", middleware.UserAuth(jwtSecret), handlers.DeletePlaceCategory(db))
	}

	comments := r.Group("/api/comment")
	{
		comments.GET("/shop/:shopId", handlers.GetShopComments(db))
		comments.POST("", middleware.UserAuth(jwtSecret), handlers.CreateComment(db))
		comments.DELETE("/:id", middleware.AnyAuth(db, jwtSecret), handlers.DeleteComment(db))
	}

	placeComments := r.Group("/api/placecomment")
	{
		placeComments.GET("/place/:placeId", handlers.GetPlaceComments(db))
		placeComments.POST("", middleware.UserAuth(jwtSecret), handlers.CreatePlaceComment(db))
		placeComments.DELETE("/:id", middleware.UserAuth(jwtSecret), handlers.DeletePlaceComment(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

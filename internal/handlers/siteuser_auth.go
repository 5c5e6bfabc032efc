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
	"golang.org/x/crypto/bcrypt"

	"eatspot/internal/auth"
	"eatspot/internal/config"
	"eatspot/internal/mailer"
	"eatspot/internal/models"
)

type SiteUserSignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func SiteUserSignup(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SiteUserSignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)
		if email == "" || name == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("site_users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[AUTH] [ERROR] siteuser signup db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count > 0 {
			log.Println("[AUTH] [ERROR] siteuser signup email exists:", email)
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] siteuser signup password hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		code, err := auth.NewVerificationCode()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "code generation failed"})
			return
		}

		now := time.Now()
		user := models.SiteUser{
			Name:                  name,
			Email:                 email,
			PasswordHash:          string(hash),
			IsVerified:            false,
			Favourites:            []primitive.ObjectID{},
			VerificationCode:      code,
			VerificationExpiresAt: now.Add(verificationCodeTTL),
			CreatedAt:             now,
			UpdatedAt:             now,
		}

		if _, err := db.Collection("site_users").InsertOne(ctx, user); err != nil {
			if isDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			log.Println("[AUTH] [ERROR] siteuser signup insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if err := mailer.SendVerificationCode(email, code); err != nil {
			log.Println("[AUTH] [ERROR] siteuser signup mail failed:", err)
		}

		log.Println("[AUTH] [INFO] siteuser registered:", email)
		c.JSON(http.StatusCreated, gin.H{"message": "account created, verification code sent"})
	}
}

func SiteUserVerifyEmail(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		code := strings.TrimSpace(req.Code)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("site_users").UpdateOne(ctx,
			bson.M{
				"email":                 email,
				"verificationCode":      code,
				"verificationExpiresAt": bson.M{"$gt": time.Now()},
			},
			bson.M{
				"$set":   bson.M{"isVerified": true, "updatedAt": time.Now()},
				"$unset": bson.M{"verificationCode": "", "verificationExpiresAt": ""},
			},
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] siteuser verify db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
			return
		}

		log.Println("[AUTH] [INFO] siteuser verified:", email)
		c.JSON(http.StatusOK, gin.H{"message": "email verified"})
	}
}

func SiteUserResendCode(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		code, err := auth.NewVerificationCode()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "code generation failed"})
			return
		}

		result, err := db.Collection("site_users").UpdateOne(ctx,
			bson.M{"email": email, "isVerified": false},
			bson.M{"$set": bson.M{
				"verificationCode":      code,
				"verificationExpiresAt": time.Now().Add(verificationCodeTTL),
				"updatedAt":             time.Now(),
			}},
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] siteuser resend db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.MatchedCount > 0 {
			if err := mailer.SendVerificationCode(email, code); err != nil {
				log.Println("[AUTH] [ERROR] siteuser resend mail failed:", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "if the account is unverified, a new code was sent"})
	}
}

func SiteUserLogin(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OwnerLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.SiteUser
		if err := db.Collection("site_users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] siteuser login invalid credentials")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] siteuser login invalid credentials")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if !user.IsVerified {
			c.JSON(http.StatusForbidden, gin.H{"error": "email not verified"})
			return
		}

		token, err := auth.IssueUserToken(user.ID, user.Email, user.IsVerified, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] siteuser login token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		log.Println("[AUTH] [INFO] siteuser login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"accessToken": token,
			"user": gin.H{
				"id":    user.ID.Hex(),
				"name":  user.Name,
				"email": user.Email,
			},
		})
	}
}

func SiteUserForgotPassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		token := auth.NewOpaqueToken()
		result, err := db.Collection("site_users").UpdateOne(ctx,
			bson.M{"email": email},
			bson.M{"$set": bson.M{
				"resetTokenHash": auth.HashToken(token),
				"resetExpiresAt": time.Now().Add(resetTokenTTL),
				"updatedAt":      time.Now(),
			}},
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] siteuser forgot db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.MatchedCount > 0 {
			resetURL := config.AppEnv.AppURL + "/reset-password/" + token
			if err := mailer.SendPasswordReset(email, resetURL); err != nil {
				log.Println("[AUTH] [ERROR] siteuser forgot mail failed:", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset link was sent"})
	}
}

func SiteUserResetPassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		token := strings.TrimSpace(c.Param("token"))
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("site_users").UpdateOne(ctx,
			bson.M{
				"resetTokenHash": auth.HashToken(token),
				"resetExpiresAt": bson.M{"$gt": time.Now()},
			},
			bson.M{
				"$set":   bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
				"$unset": bson.M{"resetTokenHash": "", "resetExpiresAt": ""},
			},
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] siteuser reset db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

// SiteUserCheckAuth answers whether the presented bearer token is still valid
// and returns the account it belongs to.
func SiteUserCheckAuth(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.SiteUser
		if err := db.Collection("site_users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":         user.ID.Hex(),
				"name":       user.Name,
				"email":      user.Email,
				"isVerified": user.IsVerified,
			},
		})
	}
}

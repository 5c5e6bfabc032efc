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

type OwnerSignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type OwnerLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name"`
}

const verificationCodeTTL = 15 * time.Minute
const resetTokenTTL = time.Hour

func OwnerSignup(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OwnerSignupRequest
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

		count, err := db.Collection("shop_owners").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[AUTH] [ERROR] owner signup db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count > 0 {
			log.Println("[AUTH] [ERROR] owner signup email exists:", email)
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] owner signup password hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		code, err := auth.NewVerificationCode()
		if err != nil {
			log.Println("[AUTH] [ERROR] owner signup code generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "code generation failed"})
			return
		}

		now := time.Now()
		owner := models.ShopOwner{
			Name:                  name,
			Email:                 email,
			PasswordHash:          string(hash),
			IsVerified:            false,
			VerificationCode:      code,
			VerificationExpiresAt: now.Add(verificationCodeTTL),
			CreatedAt:             now,
			UpdatedAt:             now,
		}

		if _, err := db.Collection("shop_owners").InsertOne(ctx, owner); err != nil {
			if isDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			log.Println("[AUTH] [ERROR] owner signup insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		// The account exists even if the mail bounces; the code can be re-sent.
		if err := mailer.SendVerificationCode(email, code); err != nil {
			log.Println("[AUTH] [ERROR] owner signup mail failed:", err)
		}

		log.Println("[AUTH] [INFO] owner registered:", email)
		c.JSON(http.StatusCreated, gin.H{"message": "account created, verification code sent"})
	}
}

func OwnerVerifyEmail(db *mongo.Database) gin.HandlerFunc {
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

		result, err := db.Collection("shop_owners").UpdateOne(ctx,
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
			log.Println("[AUTH] [ERROR] owner verify db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
			return
		}

		log.Println("[AUTH] [INFO] owner verified:", email)
		c.JSON(http.StatusOK, gin.H{"message": "email verified"})
	}
}

func OwnerResendCode(db *mongo.Database) gin.HandlerFunc {
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

		result, err := db.Collection("shop_owners").UpdateOne(ctx,
			bson.M{"email": email, "isVerified": false},
			bson.M{"$set": bson.M{
				"verificationCode":      code,
				"verificationExpiresAt": time.Now().Add(verificationCodeTTL),
				"updatedAt":             time.Now(),
			}},
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] owner resend db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.MatchedCount > 0 {
			if err := mailer.SendVerificationCode(email, code); err != nil {
				log.Println("[AUTH] [ERROR] owner resend mail failed:", err)
			}
		}

		// Same response whether or not the account exists.
		c.JSON(http.StatusOK, gin.H{"message": "if the account is unverified, a new code was sent"})
	}
}

func OwnerLogin(db *mongo.Database, sessionTTL time.Duration) gin.HandlerFunc {
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

		var owner models.ShopOwner
		if err := db.Collection("shop_owners").FindOne(ctx, bson.M{"email": email}).Decode(&owner); err != nil {
			log.Println("[AUTH] [ERROR] owner login invalid credentials")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] owner login invalid credentials")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if !owner.IsVerified {
			c.JSON(http.StatusForbidden, gin.H{"error": "email not verified"})
			return
		}

		token := auth.NewOpaqueToken()
		now := time.Now()
		session := models.Session{
			OwnerID:   owner.ID,
			TokenHash: auth.HashToken(token),
			ExpiresAt: now.Add(sessionTTL),
			CreatedAt: now,
		}
		if _, err := db.Collection("sessions").InsertOne(ctx, session); err != nil {
			log.Println("[AUTH] [ERROR] owner login session insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.SetCookie(auth.SessionCookieName, token, int(sessionTTL.Seconds()), "/", "", false, true)

		log.Println("[AUTH] [INFO] owner login succeeded:", owner.Email)
		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":    owner.ID.Hex(),
				"name":  owner.Name,
				"email": owner.Email,
			},
		})
	}
}

func OwnerLogout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionIDValue, ok := c.Get("sessionId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		sessionID := sessionIDValue.(primitive.ObjectID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("sessions").DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
			log.Println("[AUTH] [ERROR] owner logout delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func OwnerForgotPassword(db *mongo.Database) gin.HandlerFunc {
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
		result, err := db.Collection("shop_owners").UpdateOne(ctx,
			bson.M{"email": email},
			bson.M{"$set": bson.M{
				"resetTokenHash": auth.HashToken(token),
				"resetExpiresAt": time.Now().Add(resetTokenTTL),
				"updatedAt":      time.Now(),
			}},
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] owner forgot db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.MatchedCount > 0 {
			resetURL := config.AppEnv.AppURL + "/reset-password/" + token
			if err := mailer.SendPasswordReset(email, resetURL); err != nil {
				log.Println("[AUTH] [ERROR] owner forgot mail failed:", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset link was sent"})
	}
}

func OwnerResetPassword(db *mongo.Database) gin.HandlerFunc {
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

		var owner models.ShopOwner
		err = db.Collection("shop_owners").FindOneAndUpdate(ctx,
			bson.M{
				"resetTokenHash": auth.HashToken(token),
				"resetExpiresAt": bson.M{"$gt": time.Now()},
			},
			bson.M{
				"$set":   bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
				"$unset": bson.M{"resetTokenHash": "", "resetExpiresAt": ""},
			},
		).Decode(&owner)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] owner reset db error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		// All existing sessions are dead after a reset.
		if _, err := db.Collection("sessions").DeleteMany(ctx, bson.M{"ownerId": owner.ID}); err != nil {
			log.Println("[AUTH] [ERROR] owner reset session purge failed:", err)
		}

		log.Println("[AUTH] [INFO] owner password reset:", owner.Email)
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

func OwnerChangePassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var owner models.ShopOwner
		if err := db.Collection("shop_owners").FindOne(ctx, bson.M{"_id": ownerID}).Decode(&owner); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		if _, err := db.Collection("shop_owners").UpdateByID(ctx, ownerID, bson.M{
			"$set": bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
		}); err != nil {
			log.Println("[AUTH] [ERROR] owner change password failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

func OwnerUpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			update["name"] = name
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.ShopOwner
		err := db.Collection("shop_owners").FindOneAndUpdate(ctx,
			bson.M{"_id": ownerID},
			bson.M{"$set": update},
			findOneAndUpdateAfter(),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] owner update profile failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": updated})
	}
}

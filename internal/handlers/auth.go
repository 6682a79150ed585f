package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"wasteworks/internal/models"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CollectorRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

func signToken(userID primitive.ObjectID, role, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"role":   role,
		"exp":    time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// identityFilter matches an existing account by name, or by email when one
// is given. Email is optional, so a blank email never joins the filter.
func identityFilter(name, email string) bson.M {
	if email == "" {
		return bson.M{"name": name}
	}
	return bson.M{"$or": []bson.M{{"name": name}, {"email": email}}}
}

func Signup(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		email := strings.ToLower(strings.TrimSpace(req.Email))
		role := strings.TrimSpace(req.Role)
		if role == "" {
			role = models.RoleUser
		}
		if name == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name and password are required"})
			return
		}
		if !models.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid role"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := db.Collection("users").FindOne(ctx, identityFilter(name, email)).Err()
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "user with this name or email already exists"})
			return
		}
		if err != mongo.ErrNoDocuments {
			log.Println("[AUTH] [ERROR] signup lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			log.Println("[AUTH] [ERROR] password hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		user := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			CreatedAt:    time.Now(),
		}
		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "user with this name or email already exists"})
				return
			}
			log.Println("[AUTH] [ERROR] signup insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)

		token, err := signToken(user.ID, user.Role, jwtSecret, tokenTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		log.Println("[AUTH] [INFO] user signed up:", user.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"token": token,
			"user": gin.H{
				"id":   user.ID.Hex(),
				"name": user.Name,
				"role": user.Role,
			},
		})
	}
}

func Login(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"name": strings.TrimSpace(req.Name)}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}

		token, err := signToken(user.ID, user.Role, jwtSecret, tokenTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		log.Println("[AUTH] [INFO] user logged in:", user.ID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":    user.ID.Hex(),
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	}
}

func GetUserDetails(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// AddCollector registers a collector account. Admin only; the role is
// forced regardless of the request body.
func AddCollector(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CollectorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := db.Collection("users").FindOne(ctx, identityFilter(name, email)).Err()
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "user with this name or email already exists"})
			return
		}
		if err != mongo.ErrNoDocuments {
			log.Println("[AUTH] [ERROR] collector lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			log.Println("[AUTH] [ERROR] password hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		collector := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleCollector,
			CreatedAt:    time.Now(),
		}
		res, err := db.Collection("users").InsertOne(ctx, collector)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "user with this name or email already exists"})
				return
			}
			log.Println("[AUTH] [ERROR] collector insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		collector.ID = res.InsertedID.(primitive.ObjectID)

		log.Println("[AUTH] [INFO] collector added:", collector.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message":   "collector added successfully",
			"collector": collector,
		})
	}
}

func GetAllCollectors(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1})
		cursor, err := db.Collection("users").Find(ctx, bson.M{"role": models.RoleCollector}, opts)
		if err != nil {
			log.Println("[AUTH] [ERROR] list collectors failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		defer cursor.Close(ctx)

		collectors := make([]models.User, 0)
		if err := cursor.All(ctx, &collectors); err != nil {
			log.Println("[AUTH] [ERROR] decode collectors failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if len(collectors) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "no collectors found"})
			return
		}

		c.JSON(http.StatusOK, collectors)
	}
}

func GetAllUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetProjection(bson.M{"name": 1})
		cursor, err := db.Collection("users").Find(ctx, bson.M{}, opts)
		if err != nil {
			log.Println("[AUTH] [ERROR] list users failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			log.Println("[AUTH] [ERROR] decode users failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}

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

	"wasteworks/internal/billing"
	"wasteworks/internal/models"
)

type createAddressRequest struct {
	Address        string   `json:"address" binding:"required"`
	MonthlyPayment *float64 `json:"monthlyPayment"`
}

type weightsRequest struct {
	GarbageWeight float64 `json:"garbageWeight"`
	RecycleWeight float64 `json:"recycleWeight"`
}

type paymentRequest struct {
	AddressID string `json:"addressId" binding:"required"`
}

// CreateAddress registers a billing ledger entry for the authenticated
// account. The monthly payment starts at the default fee unless the body
// overrides it.
func CreateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		var req createAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if strings.TrimSpace(req.Address) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "address is required"})
			return
		}

		payment := float64(billing.DefaultMonthlyFee)
		if req.MonthlyPayment != nil {
			payment = *req.MonthlyPayment
		}

		address := models.Address{
			UserID:         userID,
			Address:        strings.TrimSpace(req.Address),
			MonthlyPayment: payment,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("addresses").InsertOne(ctx, address)
		if err != nil {
			log.Println("[ADDRESS] [ERROR] insert address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		address.ID = res.InsertedID.(primitive.ObjectID)

		log.Println("[ADDRESS] [INFO] address created:", address.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message": "address added successfully",
			"address": address,
		})
	}
}

func findAddressesByUser(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]models.Address, error) {
	cursor, err := db.Collection("addresses").Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	addresses := make([]models.Address, 0)
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// GetAddresses lists the authenticated account's addresses. An account
// with no addresses gets a 404, not an empty list.
func GetAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		addresses, err := findAddressesByUser(ctx, db, userID)
		if err != nil {
			log.Println("[ADDRESS] [ERROR] list addresses failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if len(addresses) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "no addresses found for this user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

// GetAddressesByUserID is the admin view of another account's addresses.
func GetAddressesByUserID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		addresses, err := findAddressesByUser(ctx, db, userID)
		if err != nil {
			log.Println("[ADDRESS] [ERROR] list addresses failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if len(addresses) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "no addresses found for this user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

// SubmitWeights records collected weights for one of the owner's
// addresses and reprices the ledger. The address id is explicit in the
// URL, so an account with several addresses always updates the one it
// named.
func SubmitWeights(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		addressID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address id"})
			return
		}

		var req weightsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var address models.Address
		err = db.Collection("addresses").FindOne(ctx, bson.M{"_id": addressID, "userId": userID}).Decode(&address)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "address not found"})
			return
		}
		if err != nil {
			log.Println("[ADDRESS] [ERROR] weights lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		billing.ApplyWeights(&address, req.GarbageWeight, req.RecycleWeight)

		_, err = db.Collection("addresses").UpdateByID(ctx, address.ID, bson.M{
			"$set": bson.M{
				"garbageWeight":        address.GarbageWeight,
				"recycleGarbageWeight": address.RecycleGarbageWeight,
				"refundAmount":         address.RefundAmount,
				"monthlyPayment":       address.MonthlyPayment,
			},
		})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] weights update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		log.Println("[ADDRESS] [INFO] weights recorded:", address.ID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"message": "address updated successfully",
			"address": address,
		})
	}
}

// SettlePayment zeroes the monthly payment for one of the owner's
// addresses. Settling an already settled address leaves it at zero.
func SettlePayment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		var req paymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		addressID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.AddressID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("addresses").UpdateOne(ctx,
			bson.M{"_id": addressID, "userId": userID},
			bson.M{"$set": bson.M{"monthlyPayment": 0}},
		)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] payment update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "address not found"})
			return
		}

		log.Println("[PAYMENT] [INFO] payment settled:", addressID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "payment successful, monthly payment reset to 0"})
	}
}

// DeleteAddress removes a ledger entry by id. Admin only; no ownership
// check on purpose.
func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		addressID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("addresses").DeleteOne(ctx, bson.M{"_id": addressID})
		if err != nil {
			log.Println("[ADDRESS] [ERROR] delete address failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "address not found"})
			return
		}

		log.Println("[ADDRESS] [INFO] address deleted:", addressID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "address deleted successfully"})
	}
}

// GetStats reports the aggregate counts shown on the admin dashboard.
func GetStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		totalCollections, err := db.Collection("addresses").CountDocuments(ctx, bson.M{})
		if err != nil {
			log.Println("[STATS] [ERROR] address count failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		totalUsers, err := db.Collection("users").CountDocuments(ctx, bson.M{})
		if err != nil {
			log.Println("[STATS] [ERROR] user count failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"totalCollections": totalCollections,
			"totalUsers":       totalUsers,
		})
	}
}

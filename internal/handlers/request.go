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

	"wasteworks/internal/models"
)

type createPickupRequest struct {
	Address string `json:"address" binding:"required"`
}

type assignCollectorRequest struct {
	RequestID   string `json:"requestId" binding:"required"`
	CollectorID string `json:"collectorId" binding:"required"`
}

// requestAccount is the slice of a user document exposed on request
// listings.
type requestAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// requestView is a request joined with its owner and collector accounts
// for the dashboards.
type requestView struct {
	ID        string          `json:"id"`
	Address   string          `json:"address"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	User      *requestAccount `json:"user,omitempty"`
	Collector *requestAccount `json:"assignedCollector,omitempty"`
}

// attachAccounts resolves the user and collector references of the given
// requests with a single lookup against the users collection.
func attachAccounts(ctx context.Context, db *mongo.Database, requests []models.Request) ([]requestView, error) {
	idSet := make(map[primitive.ObjectID]struct{}, len(requests))
	for _, req := range requests {
		idSet[req.UserID] = struct{}{}
		if req.AssignedCollector != nil {
			idSet[*req.AssignedCollector] = struct{}{}
		}
	}

	accounts := make(map[primitive.ObjectID]requestAccount, len(idSet))
	if len(idSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}

		opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1})
		cursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, err
		}
		for _, user := range users {
			accounts[user.ID] = requestAccount{ID: user.ID.Hex(), Name: user.Name, Email: user.Email}
		}
	}

	views := make([]requestView, 0, len(requests))
	for _, req := range requests {
		view := requestView{
			ID:        req.ID.Hex(),
			Address:   req.Address,
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
		}
		if account, ok := accounts[req.UserID]; ok {
			view.User = &account
		}
		if req.AssignedCollector != nil {
			if account, ok := accounts[*req.AssignedCollector]; ok {
				view.Collector = &account
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// CreateRequest opens a pickup request for the authenticated account. An
// account may only have one open (Pending or Confirmed) request at a
// time.
func CreateRequest(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /requests"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		var req createPickupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if strings.TrimSpace(req.Address) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "address is required"})
			return
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := db.Collection("requests").FindOne(ctx, bson.M{
			"userId": userID,
			"status": bson.M{"$in": []string{models.StatusPending, models.StatusConfirmed}},
		}).Err()
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "you already have a pending or confirmed request"})
			return
		}
		if err != mongo.ErrNoDocuments {
			log.Println("[REQUEST] [ERROR] open request lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		pickup := models.Request{
			UserID:    userID,
			Address:   strings.TrimSpace(req.Address),
			Status:    models.StatusPending,
			CreatedAt: time.Now(),
		}
		res, err := db.Collection("requests").InsertOne(ctx, pickup)
		if err != nil {
			log.Println("[REQUEST] [ERROR] insert request failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		pickup.ID = res.InsertedID.(primitive.ObjectID)

		log.Println("[REQUEST] [INFO] request created:", pickup.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message": "request created successfully",
			"request": pickup,
		})
	}
}

// AssignCollector binds a collector to a request and confirms it in one
// write. Assignment is one-shot; re-assignment is rejected.
func AssignCollector(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assignCollectorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		requestID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.RequestID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request id"})
			return
		}
		collectorID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.CollectorID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid collector id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var pickup models.Request
		err = db.Collection("requests").FindOne(ctx, bson.M{"_id": requestID}).Decode(&pickup)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "request not found"})
			return
		}
		if err != nil {
			log.Println("[REQUEST] [ERROR] assign lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		pickup, err = confirmTransition(pickup, &collectorID)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"message": "request is already assigned to a collector"})
			return
		}

		_, err = db.Collection("requests").UpdateByID(ctx, requestID, bson.M{"$set": transitionUpdate(pickup)})
		if err != nil {
			log.Println("[REQUEST] [ERROR] assign update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		log.Println("[REQUEST] [INFO] collector assigned:", requestID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"message": "collector assigned and request confirmed successfully",
			"request": pickup,
		})
	}
}

// ConfirmRequest confirms a request without binding a collector.
func ConfirmRequest(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var pickup models.Request
		err = db.Collection("requests").FindOne(ctx, bson.M{"_id": requestID}).Decode(&pickup)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "request not found"})
			return
		}
		if err != nil {
			log.Println("[REQUEST] [ERROR] confirm lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		pickup, err = confirmTransition(pickup, nil)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"message": "request is already assigned to a collector"})
			return
		}

		_, err = db.Collection("requests").UpdateByID(ctx, requestID, bson.M{"$set": transitionUpdate(pickup)})
		if err != nil {
			log.Println("[REQUEST] [ERROR] confirm update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		log.Println("[REQUEST] [INFO] request confirmed:", requestID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "request confirmed successfully", "status": pickup.Status})
	}
}

// CompleteRequest marks a request Completed. Only the assigned collector
// matches the filter; anyone else sees a 404 rather than learning the
// request exists.
func CompleteRequest(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		collectorID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		requestID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("requests").UpdateOne(ctx,
			bson.M{"_id": requestID, "assignedCollector": collectorID},
			bson.M{"$set": bson.M{"status": models.StatusCompleted}},
		)
		if err != nil {
			log.Println("[REQUEST] [ERROR] complete update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "request not found or not assigned to you"})
			return
		}

		log.Println("[REQUEST] [INFO] request completed:", requestID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "request marked as completed"})
	}
}

// DeleteRequest removes the owner's request. The filter carries the owner
// id, so deleting another account's request reports not found.
func DeleteRequest(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		requestID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("requests").DeleteOne(ctx, bson.M{"_id": requestID, "userId": userID})
		if err != nil {
			log.Println("[REQUEST] [ERROR] delete failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "request not found or unauthorized to delete"})
			return
		}

		log.Println("[REQUEST] [INFO] request deleted:", requestID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "request deleted successfully"})
	}
}

// GetRequestStatus reports the status of the caller's latest request, or
// the "No Request" sentinel when none exists.
func GetRequestStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		var pickup models.Request
		err := db.Collection("requests").FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&pickup)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"status": models.StatusNone})
			return
		}
		if err != nil {
			log.Println("[REQUEST] [ERROR] status lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": pickup.Status})
	}
}

// GetRequestAddress returns a request together with its pickup address,
// for the collector's map view.
func GetRequestAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := objectIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var pickup models.Request
		err = db.Collection("requests").FindOne(ctx, bson.M{"_id": requestID}).Decode(&pickup)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "request not found"})
			return
		}
		if err != nil {
			log.Println("[REQUEST] [ERROR] address lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"request": pickup,
			"address": pickup.Address,
		})
	}
}

func findRequestViews(ctx context.Context, db *mongo.Database, filter bson.M) ([]requestView, error) {
	cursor, err := db.Collection("requests").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := make([]models.Request, 0)
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return attachAccounts(ctx, db, requests)
}

// GetAllRequests is the admin listing of every request with owner and
// collector details attached.
func GetAllRequests(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := findRequestViews(ctx, db, bson.M{})
		if err != nil {
			log.Println("[REQUEST] [ERROR] list requests failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		c.JSON(http.StatusOK, views)
	}
}

// GetPendingRequests is the admin queue of requests still waiting for a
// collector.
func GetPendingRequests(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := findRequestViews(ctx, db, bson.M{"status": models.StatusPending})
		if err != nil {
			log.Println("[REQUEST] [ERROR] list pending failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		c.JSON(http.StatusOK, views)
	}
}

// GetConfirmedRequests lists every confirmed request.
func GetConfirmedRequests(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := findRequestViews(ctx, db, bson.M{"status": models.StatusConfirmed})
		if err != nil {
			log.Println("[REQUEST] [ERROR] list confirmed failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}

		c.JSON(http.StatusOK, views)
	}
}

// GetCollectorRequests lists the confirmed requests assigned to one
// collector. The URL collector id must match the authenticated token.
func GetCollectorRequests(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		authedID, ok := contextUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		collectorID, err := objectIDParam(c, "collectorId")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid collector id"})
			return
		}
		if collectorID != authedID {
			c.JSON(http.StatusForbidden, gin.H{"message": "access denied: collector id mismatch"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := findRequestViews(ctx, db, bson.M{
			"status":            models.StatusConfirmed,
			"assignedCollector": collectorID,
		})
		if err != nil {
			log.Println("[REQUEST] [ERROR] list assigned failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if len(views) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "no confirmed requests found for this collector"})
			return
		}

		c.JSON(http.StatusOK, views)
	}
}

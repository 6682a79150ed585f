package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func jsonContext(t *testing.T, method, path, body string, userID *primitive.ObjectID) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != nil {
		c.Set("userId", *userID)
	}
	return w, c
}

func TestCreateAddressRejectsMissingAddress(t *testing.T) {
	userID := primitive.NewObjectID()
	w, c := jsonContext(t, "POST", "/addresses", `{}`, &userID)

	CreateAddress(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateAddressRejectsBlankAddress(t *testing.T) {
	userID := primitive.NewObjectID()
	w, c := jsonContext(t, "POST", "/addresses", `{"address": "   "}`, &userID)

	CreateAddress(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateAddressRequiresIdentity(t *testing.T) {
	w, c := jsonContext(t, "POST", "/addresses", `{"address": "12 Main St"}`, nil)

	CreateAddress(nil)(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestSettlePaymentRejectsMalformedAddressID(t *testing.T) {
	userID := primitive.NewObjectID()
	w, c := jsonContext(t, "POST", "/pay", `{"addressId": "not-an-id"}`, &userID)

	SettlePayment(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

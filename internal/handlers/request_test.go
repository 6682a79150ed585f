package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateRequestRejectsBlankAddress(t *testing.T) {
	userID := primitive.NewObjectID()
	w, c := jsonContext(t, "POST", "/requests", `{"address": "  "}`, &userID)

	CreateRequest(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateRequestRequiresIdentity(t *testing.T) {
	w, c := jsonContext(t, "POST", "/requests", `{"address": "12 Main St"}`, nil)

	CreateRequest(nil)(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAssignCollectorRejectsMalformedIDs(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{}`},
		{"bad request id", `{"requestId": "nope", "collectorId": "` + primitive.NewObjectID().Hex() + `"}`},
		{"bad collector id", `{"requestId": "` + primitive.NewObjectID().Hex() + `", "collectorId": "nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := jsonContext(t, "PUT", "/admin/api/assign-collector", tt.body, nil)

			AssignCollector(nil)(c)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestGetCollectorRequestsRejectsIDMismatch(t *testing.T) {
	authedID := primitive.NewObjectID()
	w, c := jsonContext(t, "GET", "/collector/api/assigned/other", "", &authedID)
	c.Params = gin.Params{{Key: "collectorId", Value: primitive.NewObjectID().Hex()}}

	GetCollectorRequests(nil)(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestIdentityFilterOmitsBlankEmail(t *testing.T) {
	filter := identityFilter("gandalf", "")
	if _, ok := filter["$or"]; ok {
		t.Fatal("empty email must not produce an $or filter")
	}
	if filter["name"] != "gandalf" {
		t.Fatalf("filter name = %v, want gandalf", filter["name"])
	}

	filter = identityFilter("gandalf", "g@shire.example")
	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("expected two-branch $or filter, got %v", filter)
	}
}

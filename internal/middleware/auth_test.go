package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"wasteworks/internal/models"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, userID primitive.ObjectID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"role":   role,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func runGuard(t *testing.T, guard gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	guard(c)
	return w, c
}

func TestAuthGuardMissingToken(t *testing.T) {
	w, _ := runGuard(t, AuthGuard(testSecret), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthGuardMalformedHeader(t *testing.T) {
	w, _ := runGuard(t, AuthGuard(testSecret), "Token abc")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthGuardWrongSecret(t *testing.T) {
	userID := primitive.NewObjectID()
	claims := jwt.MapClaims{"userId": userID.Hex(), "role": models.RoleUser}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))

	w, _ := runGuard(t, AuthGuard(testSecret), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthGuardInjectsIdentity(t *testing.T) {
	userID := primitive.NewObjectID()
	w, c := runGuard(t, AuthGuard(testSecret), "Bearer "+signedToken(t, userID, models.RoleUser))

	if w.Code == http.StatusUnauthorized || w.Code == http.StatusForbidden {
		t.Fatalf("unexpected rejection: %d", w.Code)
	}
	got, ok := c.Get("userId")
	if !ok {
		t.Fatal("userId not set in context")
	}
	if got.(primitive.ObjectID) != userID {
		t.Fatalf("userId = %v, want %v", got, userID)
	}
	role, _ := c.Get("role")
	if role != models.RoleUser {
		t.Fatalf("role = %v, want %v", role, models.RoleUser)
	}
}

func TestAuthGuardRejectsWrongRole(t *testing.T) {
	userID := primitive.NewObjectID()
	w, _ := runGuard(t, AdminAuth(testSecret), "Bearer "+signedToken(t, userID, models.RoleUser))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestAuthGuardAdmitsMatchingRole(t *testing.T) {
	userID := primitive.NewObjectID()
	w, _ := runGuard(t, CollectorAuth(testSecret), "Bearer "+signedToken(t, userID, models.RoleCollector))
	if w.Code == http.StatusUnauthorized || w.Code == http.StatusForbidden {
		t.Fatalf("unexpected rejection: %d", w.Code)
	}
}

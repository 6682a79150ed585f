package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleCollector = "collector"
)

// User is an account in one of three roles: customers ("user") request
// pickups, collectors fulfill assigned pickups, admins assign collectors
// and monitor totals. The role is fixed at signup.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleCollector:
		return true
	}
	return false
}

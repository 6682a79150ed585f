package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCompleted = "Completed"

	// StatusNone is the sentinel reported when an account has no
	// request at all.
	StatusNone = "No Request"
)

// Request is one pickup event. It is created Pending with no collector,
// becomes Confirmed when an admin assigns a collector (or confirms it
// directly), and Completed when the assigned collector finishes the
// pickup. The owner may delete it at any point.
type Request struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID  `bson:"userId" json:"userId"`
	Address           string              `bson:"address" json:"address"`
	AssignedCollector *primitive.ObjectID `bson:"assignedCollector,omitempty" json:"assignedCollector,omitempty"`
	Status            string              `bson:"status" json:"status"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
}

// Open reports whether the request still needs collector work.
func (r Request) Open() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

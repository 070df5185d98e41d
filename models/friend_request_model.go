package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

type FriendRequest struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Sender   primitive.ObjectID `json:"sender" bson:"sender"`
	Receiver primitive.ObjectID `json:"receiver" bson:"receiver"`
	// PairKey is the two user ids joined in lexicographic order. A unique
	// index on it makes "at most one request per pair" hold even under
	// concurrent sends.
	PairKey   string    `json:"-" bson:"pairKey"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PairKeyFor returns the canonical unordered-pair key for two user ids.
func PairKeyFor(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TransactionTopUp  = "topup"
	TransactionDeduct = "deduct"
)

// TransactionEntry is one applied ledger mutation, kept for auditing. The
// in-memory ledger stays authoritative; entries are never replayed.
type TransactionEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID       string             `bson:"uid" json:"uid"`
	Kind      string             `bson:"kind" json:"kind"`
	Amount    float64            `bson:"amount" json:"amount"`
	Balance   float64            `bson:"balance" json:"balance"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

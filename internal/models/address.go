package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Address is the billing ledger entry for one physical address. Weight
// fields are kilograms, money fields are currency units. The monthly
// payment starts at the default fee, drops by the recycling refund on
// each weight submission, goes to zero when the owner pays, and is put
// back to the default fee by the monthly sweep.
type Address struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID               primitive.ObjectID `bson:"userId" json:"userId"`
	Address              string             `bson:"address" json:"address"`
	MonthlyPayment       float64            `bson:"monthlyPayment" json:"monthlyPayment"`
	GarbageWeight        float64            `bson:"garbageWeight" json:"garbageWeight"`
	RecycleGarbageWeight float64            `bson:"recycleGarbageWeight" json:"recycleGarbageWeight"`
	RefundAmount         float64            `bson:"refundAmount" json:"refundAmount"`
}

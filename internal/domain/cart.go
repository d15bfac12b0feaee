package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one product in a user's cart. There is at most one line per (UserEmail, ProductID).
type CartLine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	ProductID string             `bson:"productId" json:"productId"`
	Name      Text               `bson:"name" json:"name"`
	Img       Text               `bson:"img" json:"img"`
	Weight    Text               `bson:"weight" json:"weight"`
	Price     Amount             `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// AddOutcome tells a merge into an existing line apart from a newly created one.
type AddOutcome int

const (
	LineCreated AddOutcome = iota + 1
	LineMerged
)

func (o AddOutcome) String() string {
	switch o {
	case LineCreated:
		return "created"
	case LineMerged:
		return "merged"
	default:
		return "unknown"
	}
}

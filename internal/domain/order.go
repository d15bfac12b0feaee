package domain

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is one entry of the item list the client submits at checkout.
// The item is stored as given: fields other than productId, price and
// quantity are kept in Extra.
type OrderItem struct {
	ProductID Text   `bson:"productId" json:"productId"`
	Price     Amount `bson:"price" json:"price"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	Extra     bson.M `bson:",inline" json:"-"`
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem
	return flatten(plain(i), i.Extra)
}

func (i *OrderItem) UnmarshalJSON(data []byte) error {
	type plain OrderItem
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraFields(data, "productId", "price", "quantity")
	if err != nil {
		return err
	}
	known.Extra = extra
	*i = OrderItem(known)
	return nil
}

// Order is immutable once inserted. Status is free-form.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	UserEmail string             `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Address   any                `bson:"address" json:"address"`
	Total     float64            `bson:"total" json:"total"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

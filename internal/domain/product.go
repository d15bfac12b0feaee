package domain

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is owned by the catalog process; this service only reads it.
// Only the fields used for lookup are typed. Everything else, including img,
// weight and price, is kept in Extra as stored and flattened into JSON.
type Product struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Type  Text               `bson:"type" json:"type"`
	Name  Text               `bson:"name" json:"name"`
	Extra bson.M             `bson:",inline" json:"-"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return flatten(plain(p), p.Extra)
}

// Shop is a storefront document from the shopDB collection.
type Shop struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  Text               `bson:"name" json:"name"`
	Extra bson.M             `bson:",inline" json:"-"`
}

func (s Shop) MarshalJSON() ([]byte, error) {
	type plain Shop
	return flatten(plain(s), s.Extra)
}

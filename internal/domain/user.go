package domain

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is keyed by Email. Any other profile fields sent at registration live in Profile.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email   string             `bson:"email" json:"email"`
	Profile bson.M             `bson:",inline" json:"-"`
}

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return flatten(plain(u), u.Profile)
}

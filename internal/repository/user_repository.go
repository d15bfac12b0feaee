package repository

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return newUserRepository(db)
}

func newUserRepository(db *mongo.Database) *userRepository {
	return &userRepository{collection: db.Collection(UserCollection)}
}

// Register is a single upsert: the document is written only when no user with
// the email exists, so concurrent registrations cannot create duplicates.
func (r *userRepository) Register(ctx context.Context, user domain.User) (bool, primitive.ObjectID, error) {
	doc := bson.M{}
	for k, v := range user.Profile {
		doc[k] = v
	}
	delete(doc, "_id")
	doc["email"] = user.Email

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"email": user.Email},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return false, primitive.NilObjectID, nil
	}
	if err != nil {
		return false, primitive.NilObjectID, errors.Wrap(err, "upsert user")
	}
	if res.UpsertedCount == 0 {
		return false, primitive.NilObjectID, nil
	}
	id, _ := res.UpsertedID.(primitive.ObjectID)
	return true, id, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

func (r *userRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	cur, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	users := make([]domain.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return users, nil
}

func (r *userRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return errors.Wrap(err, "create user indexes")
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

type cartRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return newCartRepository(db)
}

func newCartRepository(db *mongo.Database) *cartRepository {
	return &cartRepository{
		collection: db.Collection(CartCollection),
		now:        time.Now,
	}
}

func (r *cartRepository) AddOrMerge(ctx context.Context, line domain.CartLine) (domain.AddOutcome, error) {
	outcome, err := r.upsert(ctx, line)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the insert race against a concurrent add of the same line;
		// the line exists now, so the second attempt merges.
		outcome, err = r.upsert(ctx, line)
	}
	if err != nil {
		return 0, errors.Wrap(err, "upsert cart line")
	}
	return outcome, nil
}

func (r *cartRepository) upsert(ctx context.Context, line domain.CartLine) (domain.AddOutcome, error) {
	filter := bson.M{"userEmail": line.UserEmail, "productId": line.ProductID}
	update := bson.M{
		"$inc": bson.M{"quantity": line.Quantity},
		"$setOnInsert": bson.M{
			"name":      line.Name,
			"img":       line.Img,
			"weight":    line.Weight,
			"price":     line.Price,
			"createdAt": r.now(),
		},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return 0, err
	}
	if res.UpsertedCount > 0 {
		return domain.LineCreated, nil
	}
	return domain.LineMerged, nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userEmail string) ([]domain.CartLine, error) {
	cur, err := r.collection.Find(ctx, bson.M{"userEmail": userEmail})
	if err != nil {
		return nil, errors.Wrap(err, "find cart lines")
	}
	lines := make([]domain.CartLine, 0)
	if err := cur.All(ctx, &lines); err != nil {
		return nil, errors.Wrap(err, "decode cart lines")
	}
	return lines, nil
}

func (r *cartRepository) GetLine(ctx context.Context, id string) (*domain.CartLine, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var line domain.CartLine
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&line); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find cart line")
	}
	return &line, nil
}

// DeleteLine removes the line only while it still belongs to userEmail.
func (r *cartRepository) DeleteLine(ctx context.Context, id, userEmail string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "userEmail": userEmail})
	if err != nil {
		return errors.Wrap(err, "delete cart line")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartRepository) DeleteProducts(ctx context.Context, userEmail string, productIDs []string) (int64, error) {
	filter := bson.M{
		"userEmail": userEmail,
		"productId": bson.M{"$in": productIDs},
	}
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, errors.Wrap(err, "delete cart lines")
	}
	return res.DeletedCount, nil
}

func (r *cartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userEmail", Value: 1}, {Key: "productId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return errors.Wrap(err, "create cart indexes")
	}
	return nil
}

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

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return newOrderRepository(db)
}

func newOrderRepository(db *mongo.Database) *orderRepository {
	return &orderRepository{collection: db.Collection(OrderCollection)}
}

// Create inserts order and sets its ID.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *orderRepository) ListByUser(ctx context.Context, userID, userEmail string) ([]domain.Order, error) {
	return r.find(ctx, bson.M{"userId": userID, "userEmail": userEmail})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var order domain.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find order")
	}
	return &order, nil
}

func (r *orderRepository) find(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	orders := make([]domain.Order, 0)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

func (r *orderRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return errors.Wrap(err, "create order indexes")
	}
	return nil
}

package repository

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

type catalogRepository struct {
	shops    *mongo.Collection
	products *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) CatalogRepository {
	return &catalogRepository{
		shops:    db.Collection(ShopCollection),
		products: db.Collection(ProductCollection),
	}
}

func (r *catalogRepository) ListShops(ctx context.Context) ([]domain.Shop, error) {
	cur, err := r.shops.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "find shops")
	}
	shops := make([]domain.Shop, 0)
	if err := cur.All(ctx, &shops); err != nil {
		return nil, errors.Wrap(err, "decode shops")
	}
	return shops, nil
}

// ListProducts filters on type equality when productType is set.
func (r *catalogRepository) ListProducts(ctx context.Context, productType string) ([]domain.Product, error) {
	filter := bson.M{}
	if productType != "" {
		filter["type"] = productType
	}

	cur, err := r.products.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}
	products := make([]domain.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

func (r *catalogRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var p domain.Product
	if err := r.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find product")
	}
	return &p, nil
}

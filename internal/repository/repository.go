package repository

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid id")
)

type CatalogRepository interface {
	ListShops(ctx context.Context) ([]domain.Shop, error)
	ListProducts(ctx context.Context, productType string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CartRepository interface {
	// AddOrMerge increments the quantity of the (userEmail, productId) line,
	// creating it from line when it does not exist yet.
	AddOrMerge(ctx context.Context, line domain.CartLine) (domain.AddOutcome, error)
	ListByUser(ctx context.Context, userEmail string) ([]domain.CartLine, error)
	GetLine(ctx context.Context, id string) (*domain.CartLine, error)
	DeleteLine(ctx context.Context, id, userEmail string) error
	DeleteProducts(ctx context.Context, userEmail string, productIDs []string) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID, userEmail string) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

type UserRepository interface {
	// Register inserts user unless one with the same email exists.
	// created is false when the email was already registered.
	Register(ctx context.Context, user domain.User) (created bool, id primitive.ObjectID, err error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return oid, nil
}

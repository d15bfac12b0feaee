package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names of the k2kDB database.
const (
	ShopCollection    = "shopDB"
	ProductCollection = "product"
	CartCollection    = "cartProduct"
	OrderCollection   = "orderItems"
	UserCollection    = "users"
)

// ConnectMongoDB opens the process-wide client and verifies it with a ping.
// The caller owns the client and must Disconnect it on shutdown.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "connect to MongoDB")
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping MongoDB")
	}

	return client.Database(database), nil
}

// EnsureIndexes creates the indexes the repositories rely on. A unique index
// that cannot be built because the collection already holds duplicates is
// logged and skipped; the server runs without it until the data is cleaned up.
func EnsureIndexes(ctx context.Context, db *mongo.Database, lg *zap.Logger) error {
	steps := []struct {
		collection string
		create     func(context.Context) error
	}{
		{CartCollection, newCartRepository(db).CreateIndexes},
		{UserCollection, newUserRepository(db).CreateIndexes},
		{OrderCollection, newOrderRepository(db).CreateIndexes},
	}
	for _, step := range steps {
		err := step.create(ctx)
		switch {
		case err == nil:
		case mongo.IsDuplicateKeyError(err):
			lg.Warn("Unique index skipped, collection holds duplicate documents",
				zap.String("collection", step.collection),
				zap.Error(err),
			)
		default:
			return err
		}
	}
	return nil
}

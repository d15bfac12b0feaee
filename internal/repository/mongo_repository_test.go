package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	db := startMongo(t)
	require.NoError(t, EnsureIndexes(context.Background(), db, zaptest.NewLogger(t)))
	return db
}

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(ctx) })
	return db
}

func TestEnsureIndexes_LegacyDuplicatesDoNotAbort(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()

	_, err := db.Collection(CartCollection).InsertMany(ctx, []any{
		bson.M{"userEmail": "a@x.com", "productId": "p1", "quantity": 1},
		bson.M{"userEmail": "a@x.com", "productId": "p1", "quantity": 2},
	})
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	require.NoError(t, EnsureIndexes(ctx, db, zap.New(core)))

	warned := logs.FilterMessage("Unique index skipped, collection holds duplicate documents").All()
	require.Len(t, warned, 1)
	assert.Equal(t, CartCollection, warned[0].ContextMap()["collection"])

	// The other collections still get their indexes.
	_, _, err = NewUserRepository(db).Register(ctx, domain.User{Email: "u@x.com"})
	require.NoError(t, err)
	_, err = db.Collection(UserCollection).InsertOne(ctx, bson.M{"email": "u@x.com"})
	assert.True(t, mongo.IsDuplicateKeyError(err))

	lines, err := NewCartRepository(db).ListByUser(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func riceLine(email string, qty int) domain.CartLine {
	return domain.CartLine{
		UserEmail: email,
		ProductID: "p1",
		Name:      "Rice",
		Img:       "r.png",
		Weight:    "1kg",
		Price:     50,
		Quantity:  qty,
	}
}

func TestCart_AddOrMerge_CreatesThenMerges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	outcome, err := repo.AddOrMerge(ctx, riceLine("a@x.com", 2))
	require.NoError(t, err)
	assert.Equal(t, domain.LineCreated, outcome)

	second := riceLine("a@x.com", 3)
	second.Name = "Renamed"
	outcome, err = repo.AddOrMerge(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, domain.LineMerged, outcome)

	lines, err := repo.ListByUser(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, domain.Text("Rice"), lines[0].Name, "merge never overwrites display fields")
	assert.False(t, lines[0].CreatedAt.IsZero())
}

func TestCart_AddOrMerge_ConcurrentAddsKeepOneLine(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddOrMerge(ctx, riceLine("a@x.com", 1))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	lines, err := repo.ListByUser(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, workers, lines[0].Quantity)
}

func TestCart_ListByUser_Empty(t *testing.T) {
	db := setupTestDB(t)
	lines, err := NewCartRepository(db).ListByUser(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestCart_DeleteLine(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	_, err := repo.AddOrMerge(ctx, riceLine("a@x.com", 1))
	require.NoError(t, err)
	lines, err := repo.ListByUser(ctx, "a@x.com")
	require.NoError(t, err)
	id := lines[0].ID.Hex()

	line, err := repo.GetLine(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", line.UserEmail)

	assert.ErrorIs(t, repo.DeleteLine(ctx, id, "b@x.com"), ErrNotFound)
	require.NoError(t, repo.DeleteLine(ctx, id, "a@x.com"))
	assert.ErrorIs(t, repo.DeleteLine(ctx, id, "a@x.com"), ErrNotFound)

	_, err = repo.GetLine(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetLine(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestCart_DeleteProducts_ScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	for _, l := range []domain.CartLine{
		{UserEmail: "a@x.com", ProductID: "p1", Quantity: 1},
		{UserEmail: "a@x.com", ProductID: "p2", Quantity: 1},
		{UserEmail: "a@x.com", ProductID: "p3", Quantity: 1},
		{UserEmail: "b@x.com", ProductID: "p1", Quantity: 1},
	} {
		_, err := repo.AddOrMerge(ctx, l)
		require.NoError(t, err)
	}

	n, err := repo.DeleteProducts(ctx, "a@x.com", []string{"p1", "p2", "p9"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repo.ListByUser(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "p3", left[0].ProductID)

	other, err := repo.ListByUser(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	n, err = repo.DeleteProducts(ctx, "a@x.com", []string{"p1"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUser_Register_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created, id, err := repo.Register(ctx, domain.User{Email: "a@x.com", Profile: bson.M{"name": "Asha"}})
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, id.IsZero())

	created, _, err = repo.Register(ctx, domain.User{Email: "a@x.com", Profile: bson.M{"name": "Other"}})
	require.NoError(t, err)
	assert.False(t, created)

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Asha", users[0].Profile["name"])

	u, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = repo.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ListProducts_TypeFilter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.Collection(ProductCollection).InsertMany(ctx, []any{
		bson.M{"type": "vegetable", "name": "Potato", "price": 30},
		bson.M{"type": "vegetable", "name": "Onion", "price": 60},
		bson.M{"type": "fruit", "name": "Mango", "price": 120},
	})
	require.NoError(t, err)
	_, err = db.Collection(ShopCollection).InsertOne(ctx, bson.M{"name": "Khamar"})
	require.NoError(t, err)

	repo := NewCatalogRepository(db)

	veg, err := repo.ListProducts(ctx, "vegetable")
	require.NoError(t, err)
	require.Len(t, veg, 2)
	for _, p := range veg {
		assert.Equal(t, domain.Text("vegetable"), p.Type)
	}

	all, err := repo.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	p, err := repo.GetProduct(ctx, all[2].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, all[2].Name, p.Name)

	_, err = repo.GetProduct(ctx, "zzz")
	assert.ErrorIs(t, err, ErrInvalidID)

	shops, err := repo.ListShops(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, domain.Text("Khamar"), shops[0].Name)
}

func TestOrder_CreateAndQuery(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	first := &domain.Order{
		UserID:    "u1",
		UserEmail: "a@x.com",
		Items:     []domain.OrderItem{{ProductID: "p1", Price: 50, Quantity: 2}},
		Address:   "Dhaka",
		Total:     100,
		Status:    "pending",
		CreatedAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Create(ctx, first))
	assert.False(t, first.ID.IsZero())

	second := *first
	second.ID = primitive.NilObjectID
	second.CreatedAt = time.Now()
	require.NoError(t, repo.Create(ctx, &second))

	other := &domain.Order{UserID: "u2", UserEmail: "b@x.com", Total: 5, Status: "pending", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, other))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.ListByUser(ctx, "u1", "a@x.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest first")

	none, err := repo.ListByUser(ctx, "u1", "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := repo.GetByID(ctx, first.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Dhaka", got.Address)
	assert.Equal(t, 100.0, got.Total)

	_, err = repo.GetByID(ctx, other.ID.Hex()[:6])
	assert.ErrorIs(t, err, ErrInvalidID)
}

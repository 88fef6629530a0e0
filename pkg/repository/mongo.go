package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/evoshop/pkg/config"
)

const (
	productsCollection    = "products"
	categoriesCollection  = "categories"
	ordersCollection      = "orders"
	subscribersCollection = "subscribers"
)

type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewMongo(cfg *config.MongoDBConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &Mongo{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Database() *mongo.Database {
	return m.database
}

// EnsureIndexes creates the unique and search indexes the storefront relies
// on. Uniqueness of slugs, order numbers and subscriber emails is enforced
// here at the storage boundary.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	products := m.database.Collection(productsCollection)
	_, err := products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "inStock", Value: 1}}},
		{Keys: bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	categories := m.database.Collection(categoriesCollection)
	_, err = categories.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
	})
	if err != nil {
		return err
	}

	orders := m.database.Collection(ordersCollection)
	_, err = orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "customer.email", Value: 1}}},
	})
	if err != nil {
		return err
	}

	subscribers := m.database.Collection(subscribersCollection)
	_, err = subscribers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	})
	return err
}

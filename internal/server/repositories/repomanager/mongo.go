package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/server/repositories/courses"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/principals"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/purchases"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoRepositoryManager(client *mongo.Client, dbName string) *MongoRepositoryManager {
	return &MongoRepositoryManager{client: client, db: client.Database(dbName)}
}

// OpenMongo connects to uri and pings the primary.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return NewMongoRepositoryManager(client, dbName), nil
}

func (m *MongoRepositoryManager) Principals() principals.Repository {
	return principals.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Courses() courses.Repository {
	return courses.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Purchases() purchases.Repository {
	return purchases.NewMongoRepository(m.db)
}

type index struct {
	col    string
	keys   bson.D
	unique bool
}

// indexes lists every index the repositories rely on. The unique ones carry
// the email-per-kind and purchase-per-pair guarantees.
var indexes = []index{
	{principals.ColUsers, bson.D{{Key: "email", Value: 1}}, true},
	{principals.ColAdmins, bson.D{{Key: "email", Value: 1}}, true},
	{courses.ColCourses, bson.D{{Key: "creator_id", Value: 1}}, false},
	{purchases.ColPurchases, bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}}, true},
	{purchases.ColPurchases, bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
}

// Migrate creates the indexes. CreateOne is idempotent for identical specs.
func (m *MongoRepositoryManager) Migrate(ctx context.Context) error {
	for _, idx := range indexes {
		model := mongo.IndexModel{Keys: idx.keys}
		if idx.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := m.db.Collection(idx.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.col, err)
		}
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

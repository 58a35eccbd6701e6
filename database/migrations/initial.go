package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/migration"
)

func init() {
	migration.Register("20260801000000_create_user_indexes", &CreateUserIndexes{})
	migration.Register("20260801000001_create_order_indexes", &CreateOrderIndexes{})
	migration.Register("20260801000002_create_catalog_indexes", &CreateCatalogIndexes{})
}

// -------- 0001: users --------

type CreateUserIndexes struct{}

func (m *CreateUserIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(models.CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}

func (m *CreateUserIndexes) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(models.CollectionUsers).Indexes().DropOne(ctx, "uniq_email")
	return err
}

// -------- 0002: orders --------

type CreateOrderIndexes struct{}

func (m *CreateOrderIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(models.CollectionOrders).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Customer order history, newest first.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_created"),
		},
		{
			// Admin status filter.
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("status_created"),
		},
		{
			// Payment review queue.
			Keys:    bson.D{{Key: "payment.status", Value: 1}},
			Options: options.Index().SetName("payment_status"),
		},
	})
	return err
}

func (m *CreateOrderIndexes) Down(ctx context.Context, db *mongo.Database) error {
	idx := db.Collection(models.CollectionOrders).Indexes()
	for _, name := range []string{"user_created", "status_created", "payment_status"} {
		if _, err := idx.DropOne(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// -------- 0003: catalog --------

type CreateCatalogIndexes struct{}

func (m *CreateCatalogIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(models.CollectionServices).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetName("active_name"),
	})
	return err
}

func (m *CreateCatalogIndexes) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(models.CollectionServices).Indexes().DropOne(ctx, "active_name")
	return err
}

package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/docstore"
	"github.com/printipid/printipid/pkg/metrics"
)

// OrderRepository handles persistence for print orders.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveDocQuery("insert", time.Now())
	return docstore.Insert(ctx, models.CollectionOrders, order)
}

// FindByID fetches one order by its ID.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	var order models.Order
	err := docstore.FindByID(ctx, models.CollectionOrders, id, &order)
	return order, err
}

// FindByUser returns a user's orders, newest first.
func (r *OrderRepository) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	var orders []models.Order
	err := docstore.Find(ctx, models.CollectionOrders,
		bson.M{"userId": userID}, &orders,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	return orders, err
}

// All returns every order, optionally filtered by status, newest first.
func (r *OrderRepository) All(ctx context.Context, status string) ([]models.Order, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	var orders []models.Order
	err := docstore.Find(ctx, models.CollectionOrders, filter, &orders,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	return orders, err
}

// UpdateCAS applies fields to the order only if its stored version still
// equals expectedVersion, bumping the version atomically. Returns the
// updated order. docstore.ErrVersionConflict signals a concurrent writer.
func (r *OrderRepository) UpdateCAS(ctx context.Context, id string, expectedVersion int64, fields bson.M) (models.Order, error) {
	defer metrics.ObserveDocQuery("update", time.Now())
	var updated models.Order
	err := docstore.UpdateCAS(ctx, models.CollectionOrders, id, expectedVersion, fields, &updated)
	return updated, err
}

// Delete removes an order permanently.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveDocQuery("delete", time.Now())
	return docstore.Delete(ctx, models.CollectionOrders, id)
}

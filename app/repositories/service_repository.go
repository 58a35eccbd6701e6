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

// ServiceRepository handles persistence for the print service catalog.
type ServiceRepository struct{}

func NewServiceRepository() *ServiceRepository {
	return &ServiceRepository{}
}

// All returns catalog entries. When activeOnly is set, inactive services are
// filtered out (the customer-facing listing).
func (r *ServiceRepository) All(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	var services []models.Service
	err := docstore.Find(ctx, models.CollectionServices, filter, &services,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	return services, err
}

// FindByID fetches one catalog entry.
func (r *ServiceRepository) FindByID(ctx context.Context, id string) (models.Service, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	var svc models.Service
	err := docstore.FindByID(ctx, models.CollectionServices, id, &svc)
	return svc, err
}

// Create persists a new catalog entry.
func (r *ServiceRepository) Create(ctx context.Context, svc *models.Service) error {
	defer metrics.ObserveDocQuery("insert", time.Now())
	return docstore.Insert(ctx, models.CollectionServices, svc)
}

// Update merges fields into a catalog entry.
func (r *ServiceRepository) Update(ctx context.Context, id string, fields bson.M) error {
	defer metrics.ObserveDocQuery("update", time.Now())
	return docstore.UpdateMerge(ctx, models.CollectionServices, id, withUpdatedAt(fields))
}

// Delete removes a catalog entry.
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveDocQuery("delete", time.Now())
	return docstore.Delete(ctx, models.CollectionServices, id)
}

package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/docstore"
	"github.com/printipid/printipid/pkg/metrics"
)

// PaymentMethodRepository handles persistence for payment method config.
type PaymentMethodRepository struct{}

func NewPaymentMethodRepository() *PaymentMethodRepository {
	return &PaymentMethodRepository{}
}

// All returns every configured payment method.
func (r *PaymentMethodRepository) All(ctx context.Context) ([]models.PaymentMethodConfig, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	var methods []models.PaymentMethodConfig
	err := docstore.Find(ctx, models.CollectionPaymentMethods, bson.M{}, &methods)
	return methods, err
}

// FindByID fetches one payment method config.
func (r *PaymentMethodRepository) FindByID(ctx context.Context, id string) (models.PaymentMethodConfig, error) {
	defer metrics.ObserveDocQuery("find", time.Now())
	var method models.PaymentMethodConfig
	err := docstore.FindByID(ctx, models.CollectionPaymentMethods, id, &method)
	return method, err
}

// Update merges fields into a payment method config.
func (r *PaymentMethodRepository) Update(ctx context.Context, id string, fields bson.M) error {
	defer metrics.ObserveDocQuery("update", time.Now())
	return docstore.UpdateMerge(ctx, models.CollectionPaymentMethods, id, withUpdatedAt(fields))
}

// Create persists a new payment method config (used by the seeder).
func (r *PaymentMethodRepository) Create(ctx context.Context, method *models.PaymentMethodConfig) error {
	defer metrics.ObserveDocQuery("insert", time.Now())
	return docstore.Insert(ctx, models.CollectionPaymentMethods, method)
}

package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/printipid/printipid/app/models"
)

// Store interfaces decouple services from the Mongo-backed repositories so
// tests can substitute in-memory fakes. app/repositories satisfies all of
// them.

// OrderStore persists print orders.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (models.Order, error)
	FindByUser(ctx context.Context, userID string) ([]models.Order, error)
	All(ctx context.Context, status string) ([]models.Order, error)
	UpdateCAS(ctx context.Context, id string, expectedVersion int64, fields bson.M) (models.Order, error)
	Delete(ctx context.Context, id string) error
}

// UserStore persists user profiles.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, fields bson.M) error
	All(ctx context.Context) ([]models.User, error)
}

// ServiceStore persists the print service catalog.
type ServiceStore interface {
	All(ctx context.Context, activeOnly bool) ([]models.Service, error)
	FindByID(ctx context.Context, id string) (models.Service, error)
	Create(ctx context.Context, svc *models.Service) error
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
}

// PaymentMethodStore persists payment method configuration.
type PaymentMethodStore interface {
	All(ctx context.Context) ([]models.PaymentMethodConfig, error)
	FindByID(ctx context.Context, id string) (models.PaymentMethodConfig, error)
	Update(ctx context.Context, id string, fields bson.M) error
}

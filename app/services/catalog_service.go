package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/cache"
	"github.com/printipid/printipid/pkg/collection"
	"github.com/printipid/printipid/pkg/metrics"
	"github.com/printipid/printipid/pkg/storage"
)

const (
	cacheKeyServices       = "catalog:services"
	cacheKeyPaymentMethods = "catalog:payment_methods"
	catalogCacheTTL        = 5 * time.Minute
)

// CatalogService serves the print service catalog and payment method config.
// Customer-facing reads are cached; admin writes invalidate.
type CatalogService struct {
	services ServiceStore
	methods  PaymentMethodStore
	assets   storage.Disk
}

func NewCatalogService(services ServiceStore, methods PaymentMethodStore, assets storage.Disk) *CatalogService {
	return &CatalogService{services: services, methods: methods, assets: assets}
}

// ─── Customer reads ───────────────────────────────────────────────────────────

// ActiveServices lists active catalog entries, cache-first.
func (s *CatalogService) ActiveServices(ctx context.Context) ([]models.Service, error) {
	var cached []models.Service
	if cache.Get(cacheKeyServices, &cached) {
		metrics.CacheHits.WithLabelValues(cacheKeyServices).Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues(cacheKeyServices).Inc()

	list, err := s.services.All(ctx, true)
	if err != nil {
		return nil, err
	}
	cache.Set(cacheKeyServices, list, catalogCacheTTL)
	return list, nil
}

// PaymentMethods lists active payment methods, cache-first.
func (s *CatalogService) PaymentMethods(ctx context.Context) ([]models.PaymentMethodConfig, error) {
	var cached []models.PaymentMethodConfig
	if cache.Get(cacheKeyPaymentMethods, &cached) {
		metrics.CacheHits.WithLabelValues(cacheKeyPaymentMethods).Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues(cacheKeyPaymentMethods).Inc()

	all, err := s.methods.All(ctx)
	if err != nil {
		return nil, err
	}
	active := collection.Filter(all, func(m models.PaymentMethodConfig) bool { return m.IsActive })
	cache.Set(cacheKeyPaymentMethods, active, catalogCacheTTL)
	return active, nil
}

// ─── Admin catalog management ─────────────────────────────────────────────────

// AllServices lists the full catalog, inactive entries included.
func (s *CatalogService) AllServices(ctx context.Context) ([]models.Service, error) {
	return s.services.All(ctx, false)
}

// CreateService adds a catalog entry.
func (s *CatalogService) CreateService(ctx context.Context, svc models.Service) (models.Service, error) {
	now := time.Now()
	svc.ID = primitive.NewObjectID().Hex()
	svc.CreatedAt = now
	svc.UpdatedAt = now
	if err := s.services.Create(ctx, &svc); err != nil {
		return models.Service{}, err
	}
	cache.Forget(cacheKeyServices)
	return svc, nil
}

// UpdateService merges fields into a catalog entry.
func (s *CatalogService) UpdateService(ctx context.Context, id string, fields bson.M) (models.Service, error) {
	if err := s.services.Update(ctx, id, fields); err != nil {
		return models.Service{}, err
	}
	cache.Forget(cacheKeyServices)
	return s.services.FindByID(ctx, id)
}

// DeleteService removes a catalog entry.
func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	if err := s.services.Delete(ctx, id); err != nil {
		return err
	}
	cache.Forget(cacheKeyServices)
	return nil
}

// ─── Admin payment method management ──────────────────────────────────────────

// AllPaymentMethods lists payment methods including inactive ones.
func (s *CatalogService) AllPaymentMethods(ctx context.Context) ([]models.PaymentMethodConfig, error) {
	return s.methods.All(ctx)
}

// UpdatePaymentMethod merges fields into a payment method config.
func (s *CatalogService) UpdatePaymentMethod(ctx context.Context, id string, fields bson.M) (models.PaymentMethodConfig, error) {
	if err := s.methods.Update(ctx, id, fields); err != nil {
		return models.PaymentMethodConfig{}, err
	}
	cache.Forget(cacheKeyPaymentMethods)
	return s.methods.FindByID(ctx, id)
}

// UploadGCashQR stores a new GCash QR image and points the gcash method at it.
func (s *CatalogService) UploadGCashQR(ctx context.Context, fileName string, content []byte) (models.PaymentMethodConfig, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return models.PaymentMethodConfig{}, fmt.Errorf("%w: %q (QR images accept png, jpg, jpeg)", ErrDisallowedExtension, fileName)
	}

	path := "qr/gcash" + ext
	if err := s.assets.Put(path, content); err != nil {
		return models.PaymentMethodConfig{}, fmt.Errorf("services: store qr image: %w", err)
	}

	return s.UpdatePaymentMethod(ctx, string(models.MethodGCash), bson.M{
		"gcashQrUrl": s.assets.URL(path),
	})
}

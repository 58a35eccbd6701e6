package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/pkg/bind"
	"github.com/printipid/printipid/pkg/response"
	"github.com/printipid/printipid/pkg/validate"
)

// CatalogController serves the print service catalog and payment method
// configuration. Reads are public; writes are admin-only.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ─── Public reads ─────────────────────────────────────────────────────────────

// Services lists active catalog entries.
// GET /api/services
func (c *CatalogController) Services(w http.ResponseWriter, r *http.Request) {
	list, err := c.catalog.ActiveServices(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, list)
}

// PaymentMethods lists active payment methods with their pay-to details.
// GET /api/payment-methods
func (c *CatalogController) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	list, err := c.catalog.PaymentMethods(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, list)
}

// ─── Admin catalog management ─────────────────────────────────────────────────

// AllServices lists the full catalog including inactive entries.
// GET /api/admin/services
func (c *CatalogController) AllServices(w http.ResponseWriter, r *http.Request) {
	list, err := c.catalog.AllServices(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, list)
}

type createServiceRequest struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Description  string  `json:"description" validate:"nullable,max=500"`
	BasePrice    float64 `json:"basePrice" validate:"nullable,gte=0"`
	PricePerPage float64 `json:"pricePerPage" validate:"nullable,gte=0"`
	IsActive     bool    `json:"isActive"`
}

// CreateService adds a catalog entry.
// POST /api/admin/services
func (c *CatalogController) CreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	svc, err := c.catalog.CreateService(r.Context(), models.Service{
		Name:         req.Name,
		Description:  req.Description,
		BasePrice:    req.BasePrice,
		PricePerPage: req.PricePerPage,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Created(w, svc)
}

type updateServiceRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	BasePrice    *float64 `json:"basePrice"`
	PricePerPage *float64 `json:"pricePerPage"`
	IsActive     *bool    `json:"isActive"`
}

// UpdateService merges the provided fields into a catalog entry.
// PUT /api/admin/services/{id}
func (c *CatalogController) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req updateServiceRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.BasePrice != nil {
		fields["basePrice"] = *req.BasePrice
	}
	if req.PricePerPage != nil {
		fields["pricePerPage"] = *req.PricePerPage
	}
	if req.IsActive != nil {
		fields["isActive"] = *req.IsActive
	}
	if len(fields) == 0 {
		response.ValidationError(w, map[string]string{"body": "No updatable fields provided."})
		return
	}

	svc, err := c.catalog.UpdateService(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, svc)
}

// DeleteService removes a catalog entry.
// DELETE /api/admin/services/{id}
func (c *CatalogController) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"deleted": chi.URLParam(r, "id")})
}

// ─── Admin payment method management ──────────────────────────────────────────

// AllPaymentMethods lists payment methods including inactive ones.
// GET /api/admin/payment-methods
func (c *CatalogController) AllPaymentMethods(w http.ResponseWriter, r *http.Request) {
	list, err := c.catalog.AllPaymentMethods(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, list)
}

type updatePaymentMethodRequest struct {
	Name        *string `json:"name"`
	IsActive    *bool   `json:"isActive"`
	GCashNumber *string `json:"gcashNumber"`
	GCashName   *string `json:"gcashName"`
}

// UpdatePaymentMethod merges fields into a payment method config.
// PUT /api/admin/payment-methods/{id}
func (c *CatalogController) UpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req updatePaymentMethodRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.IsActive != nil {
		fields["isActive"] = *req.IsActive
	}
	if req.GCashNumber != nil {
		fields["gcashNumber"] = *req.GCashNumber
	}
	if req.GCashName != nil {
		fields["gcashName"] = *req.GCashName
	}
	if len(fields) == 0 {
		response.ValidationError(w, map[string]string{"body": "No updatable fields provided."})
		return
	}

	method, err := c.catalog.UpdatePaymentMethod(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, method)
}

type uploadQRRequest struct {
	FileName string `json:"fileName" validate:"required"`
	Content  string `json:"content" validate:"required"` // base64 or data URL
}

// UploadGCashQR replaces the GCash QR image customers scan to pay.
// POST /api/admin/payment-methods/gcash/qr
func (c *CatalogController) UploadGCashQR(w http.ResponseWriter, r *http.Request) {
	var req uploadQRRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	content, err := decodeBase64(req.Content)
	if err != nil {
		response.ValidationError(w, map[string]string{"content": "The QR image is not valid base64."})
		return
	}

	method, err := c.catalog.UploadGCashQR(r.Context(), req.FileName, content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, method)
}

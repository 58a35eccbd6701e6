package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/pkg/docstore"
	"github.com/printipid/printipid/pkg/middleware"
	"github.com/printipid/printipid/pkg/workerpool"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_KEY", "controller-test-key")
	os.Exit(m.Run())
}

// ─── Fakes ────────────────────────────────────────────────────────────────────

type fakeOrderStore struct {
	orders map[string]models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]models.Order{}}
}

func (f *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	f.orders[order.ID] = *order
	return nil
}

func (f *fakeOrderStore) FindByID(_ context.Context, id string) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, docstore.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderStore) FindByUser(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrderStore) All(_ context.Context, status string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if status == "" || string(o.Status) == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateCAS(_ context.Context, id string, expectedVersion int64, fields bson.M) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, docstore.ErrNotFound
	}
	if o.Version != expectedVersion {
		return models.Order{}, docstore.ErrVersionConflict
	}
	for k, v := range fields {
		switch k {
		case "status":
			o.Status = v.(models.OrderStatus)
		case "statusHistory":
			o.StatusHistory = v.([]models.StatusEntry)
		case "updatedAt":
			o.UpdatedAt = v.(time.Time)
		case "payment.status":
			o.Payment.Status = v.(models.PaymentStatus)
		case "payment.receiptUrl":
			o.Payment.ReceiptURL = v.(string)
		case "payment.referenceNo":
			o.Payment.ReferenceNo = v.(string)
		}
	}
	o.Version++
	f.orders[id] = o
	return o, nil
}

func (f *fakeOrderStore) Delete(_ context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return docstore.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

type discardDisk struct{}

func (discardDisk) Put(string, []byte) error                { return nil }
func (discardDisk) PutStream(string, io.Reader) error       { return nil }
func (discardDisk) Get(string) ([]byte, error)              { return nil, os.ErrNotExist }
func (discardDisk) GetStream(string) (io.ReadCloser, error) { return nil, os.ErrNotExist }
func (discardDisk) Exists(string) bool                      { return false }
func (discardDisk) Missing(string) bool                     { return true }
func (discardDisk) Size(string) (int64, error)              { return 0, os.ErrNotExist }
func (discardDisk) LastModified(string) (time.Time, error)  { return time.Time{}, os.ErrNotExist }
func (discardDisk) URL(path string) string                  { return "mem://" + path }
func (discardDisk) Delete(string) error                     { return nil }
func (discardDisk) Copy(string, string) error               { return nil }
func (discardDisk) Move(string, string) error               { return nil }
func (discardDisk) Files(string) ([]string, error)          { return nil, nil }
func (discardDisk) MakeDirectory(string) error              { return nil }

// ─── Helpers ──────────────────────────────────────────────────────────────────

func newTestControllers(t *testing.T) (*OrderController, *AdminController, *fakeOrderStore) {
	t.Helper()
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	store := newFakeOrderStore()
	orderSvc := services.NewOrderService(store, services.NewAttachmentService(pool), discardDisk{})
	return NewOrderController(orderSvc), NewAdminController(orderSvc, nil, nil), store
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func submitBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"customerName":  "Juan dela Cruz",
		"customerEmail": "juan@example.com",
		"paperSize":     "A4",
		"colorMode":     "bw",
		"paperType":     "bond",
		"copies":        3,
		"pages":         10,
		"paymentMethod": "pay_on_shop",
		"documents": []map[string]string{
			{"fileName": "thesis.pdf", "content": base64.StdEncoding.EncodeToString([]byte("%PDF"))},
		},
	})
	require.NoError(t, err)
	return body
}

type orderEnvelope struct {
	Status int `json:"status"`
	Data   struct {
		Order         models.Order `json:"order"`
		TrackingToken string       `json:"trackingToken"`
	} `json:"data"`
	Errors map[string]string `json:"errors"`
}

// ─── Submission ───────────────────────────────────────────────────────────────

func TestSubmitCreatesOrder(t *testing.T) {
	ctl, _, store := newTestControllers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(submitBody(t)))
	req = middleware.WithUser(req, "user-1", models.RoleCustomer)
	w := httptest.NewRecorder()

	ctl.Submit(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env orderEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "user-1", env.Data.Order.UserID)
	assert.Equal(t, 30.0, env.Data.Order.TotalAmount)
	assert.Empty(t, env.Data.TrackingToken, "authenticated submissions get no tracking token")
	assert.Len(t, store.orders, 1)
}

func TestSubmitAnonymousReturnsTrackingToken(t *testing.T) {
	ctl, _, _ := newTestControllers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(submitBody(t)))
	w := httptest.NewRecorder()

	ctl.Submit(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env orderEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, models.GuestUserID, env.Data.Order.UserID)
	assert.NotEmpty(t, env.Data.TrackingToken)
}

func TestSubmitValidatesPrintOptions(t *testing.T) {
	ctl, _, _ := newTestControllers(t)

	body, _ := json.Marshal(map[string]interface{}{
		"customerName":  "Juan",
		"paperSize":     "A5", // not offered
		"colorMode":     "bw",
		"paperType":     "bond",
		"copies":        1,
		"pages":         1,
		"paymentMethod": "pay_on_shop",
		"documents": []map[string]string{
			{"fileName": "a.pdf", "content": "aGk="},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctl.Submit(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var env orderEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Contains(t, env.Errors, "paperSize")
}

func TestSubmitRejectsDisallowedDocument(t *testing.T) {
	ctl, _, _ := newTestControllers(t)

	body, _ := json.Marshal(map[string]interface{}{
		"customerName":  "Juan",
		"paperSize":     "A4",
		"colorMode":     "bw",
		"paperType":     "bond",
		"copies":        1,
		"pages":         1,
		"paymentMethod": "pay_on_shop",
		"documents": []map[string]string{
			{"fileName": "virus.exe", "content": "aGk="},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctl.Submit(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// ─── Ownership ────────────────────────────────────────────────────────────────

func TestShowEnforcesOwnership(t *testing.T) {
	ctl, _, store := newTestControllers(t)

	store.orders["ord-1"] = models.Order{ID: "ord-1", UserID: "user-1", Version: 1}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ord-1", nil)
	req = withURLParam(req, "id", "ord-1")
	req = middleware.WithUser(req, "user-2", models.RoleCustomer)
	w := httptest.NewRecorder()

	ctl.Show(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/orders/ord-1", nil)
	req = withURLParam(req, "id", "ord-1")
	req = middleware.WithUser(req, "admin-1", models.RoleAdmin)
	w = httptest.NewRecorder()

	ctl.Show(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

// ─── Admin transitions ────────────────────────────────────────────────────────

func TestAdminUpdateStatus(t *testing.T) {
	_, admin, store := newTestControllers(t)

	store.orders["ord-1"] = models.Order{
		ID: "ord-1", UserID: "user-1", Status: models.StatusPending, Version: 1,
	}

	body, _ := json.Marshal(map[string]interface{}{"status": "processing", "version": 1})
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/ord-1/status", bytes.NewReader(body))
	req = withURLParam(req, "id", "ord-1")
	req = middleware.WithUser(req, "admin-1", models.RoleAdmin)
	w := httptest.NewRecorder()

	admin.UpdateStatus(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusProcessing, store.orders["ord-1"].Status)
}

func TestAdminUpdateStatusStaleVersionConflicts(t *testing.T) {
	_, admin, store := newTestControllers(t)

	store.orders["ord-1"] = models.Order{
		ID: "ord-1", UserID: "user-1", Status: models.StatusPending, Version: 5,
	}

	body, _ := json.Marshal(map[string]interface{}{"status": "processing", "version": 4})
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/ord-1/status", bytes.NewReader(body))
	req = withURLParam(req, "id", "ord-1")
	req = middleware.WithUser(req, "admin-1", models.RoleAdmin)
	w := httptest.NewRecorder()

	admin.UpdateStatus(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminUpdateStatusIllegalTransitionConflicts(t *testing.T) {
	_, admin, store := newTestControllers(t)

	store.orders["ord-1"] = models.Order{
		ID: "ord-1", UserID: "user-1", Status: models.StatusCompleted, Version: 1,
	}

	body, _ := json.Marshal(map[string]interface{}{"status": "processing"})
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/ord-1/status", bytes.NewReader(body))
	req = withURLParam(req, "id", "ord-1")
	req = middleware.WithUser(req, "admin-1", models.RoleAdmin)
	w := httptest.NewRecorder()

	admin.UpdateStatus(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminOrdersRejectsUnknownStatusFilter(t *testing.T) {
	_, admin, _ := newTestControllers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=bogus", nil)
	req = middleware.WithUser(req, "admin-1", models.RoleAdmin)
	w := httptest.NewRecorder()

	admin.Orders(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
}

func TestAdminVerifyPayment(t *testing.T) {
	_, admin, store := newTestControllers(t)

	store.orders["ord-1"] = models.Order{
		ID: "ord-1", UserID: "user-1", Status: models.StatusPending,
		Payment: models.Payment{Status: models.PaymentPending}, Version: 1,
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/orders/ord-1/payment/verify", nil)
	req = withURLParam(req, "id", "ord-1")
	req = middleware.WithUser(req, "admin-1", models.RoleAdmin)
	w := httptest.NewRecorder()

	admin.VerifyPayment(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.PaymentPaid, store.orders["ord-1"].Payment.Status)
}

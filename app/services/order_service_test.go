package services

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/docstore"
	"github.com/printipid/printipid/pkg/workerpool"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_KEY", "order-service-test-key")
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

// memDisk is an in-memory storage.Disk for tests.
type memDisk struct {
	files map[string][]byte
}

func newMemDisk() *memDisk { return &memDisk{files: map[string][]byte{}} }

func (d *memDisk) Put(path string, content []byte) error {
	d.files[path] = content
	return nil
}

func (d *memDisk) PutStream(path string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return d.Put(path, b)
}

func (d *memDisk) Get(path string) ([]byte, error) {
	b, ok := d.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

func (d *memDisk) GetStream(path string) (io.ReadCloser, error) {
	b, err := d.Get(path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(string(b))), nil
}

func (d *memDisk) Exists(path string) bool  { _, ok := d.files[path]; return ok }
func (d *memDisk) Missing(path string) bool { return !d.Exists(path) }

func (d *memDisk) Size(path string) (int64, error) {
	b, err := d.Get(path)
	return int64(len(b)), err
}

func (d *memDisk) LastModified(string) (time.Time, error) { return time.Now(), nil }
func (d *memDisk) URL(path string) string                 { return "mem://" + path }

func (d *memDisk) Delete(path string) error {
	delete(d.files, path)
	return nil
}

func (d *memDisk) Copy(src, dst string) error {
	b, err := d.Get(src)
	if err != nil {
		return err
	}
	return d.Put(dst, b)
}

func (d *memDisk) Move(src, dst string) error {
	if err := d.Copy(src, dst); err != nil {
		return err
	}
	return d.Delete(src)
}

func (d *memDisk) Files(string) ([]string, error) { return nil, nil }
func (d *memDisk) MakeDirectory(string) error     { return nil }

// ─── Helpers ──────────────────────────────────────────────────────────────────

func newTestOrderService(t *testing.T) (*OrderService, *fakeOrderStore, *memDisk) {
	t.Helper()
	pool := workerpool.New(4)
	t.Cleanup(pool.Shutdown)
	store := newFakeOrderStore()
	disk := newMemDisk()
	return NewOrderService(store, NewAttachmentService(pool), disk), store, disk
}

func validSubmitInput() SubmitOrderInput {
	return SubmitOrderInput{
		CustomerName:  "Juan dela Cruz",
		CustomerEmail: "juan@example.com",
		Options: models.PrintOptions{
			PaperSize: "A4",
			ColorMode: "bw",
			PaperType: "bond",
			Copies:    3,
			Pages:     10,
		},
		PaymentMethod: models.MethodPayOnShop,
		Files: []FileInput{
			{Name: "thesis.pdf", Content: []byte("%PDF-1.7 fake")},
		},
	}
}

// ─── Submission ───────────────────────────────────────────────────────────────

func TestSubmitComputesTotalOnce(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)

	// 10 pages * 3 copies * default unit rate of 1.
	assert.Equal(t, 30.0, order.TotalAmount)
	assert.Equal(t, 30.0, order.Payment.Amount)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.Payment.Status)
	assert.Equal(t, int64(1), order.Version)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, "pending", order.StatusHistory[0].Status)
	require.Len(t, order.Documents, 1)
	assert.True(t, strings.HasPrefix(order.Documents[0].FileData, "data:application/pdf;base64,"))
}

func TestSubmitRecordsGCashReference(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	in := validSubmitInput()
	in.PaymentMethod = models.MethodGCash
	in.ReferenceNo = "GC-12345"

	order, err := svc.Submit(context.Background(), "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, order.Payment.Status)
	assert.Equal(t, "GC-12345", order.Payment.ReferenceNo)
}

func TestSubmitAnonymousRecordsGuestUser(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "", validSubmitInput())
	require.NoError(t, err)
	assert.Equal(t, models.GuestUserID, order.UserID)
}

func TestSubmitRejectsDisallowedExtension(t *testing.T) {
	svc, store, _ := newTestOrderService(t)

	in := validSubmitInput()
	in.Files = []FileInput{
		{Name: "thesis.pdf", Content: []byte("ok")},
		{Name: "resume.exe", Content: []byte("nope")},
	}

	_, err := svc.Submit(context.Background(), "user-1", in)
	require.ErrorIs(t, err, ErrDisallowedExtension)
	assert.Empty(t, store.orders, "a rejected batch must not create an order")
}

func TestAllOrdersRejectsUnknownStatusFilter(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	_, err := svc.AllOrders(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)
}

// ─── Status transitions ───────────────────────────────────────────────────────

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusProcessing, "admin-1", "", order.Version)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, updated.Status)
	assert.Equal(t, int64(2), updated.Version)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, "processing", updated.StatusHistory[1].Status)
	assert.Equal(t, "admin-1", updated.StatusHistory[1].UpdatedBy)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)

	// pending -> ready skips processing.
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusReady, "admin-1", "", 0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusTerminalOrdersNeverMove(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled, "admin-1", "out of stock", 0)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusPending, "admin-1", "", 0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusVersionConflict(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)

	// First writer wins.
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusProcessing, "admin-1", "", order.Version)
	require.NoError(t, err)

	// Second writer still holds the stale version.
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled, "admin-2", "", order.Version)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

// ─── Payment review ───────────────────────────────────────────────────────────

func TestVerifyPaymentIsIdempotent(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	in := validSubmitInput()
	in.PaymentMethod = models.MethodGCash
	in.ReferenceNo = "GC-1"
	order, err := svc.Submit(context.Background(), "user-1", in)
	require.NoError(t, err)

	first, err := svc.VerifyPayment(context.Background(), order.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, first.Payment.Status)

	// Re-verifying keeps the payment paid but still stamps updatedAt.
	second, err := svc.VerifyPayment(context.Background(), order.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, second.Payment.Status)
	assert.Len(t, second.StatusHistory, len(first.StatusHistory), "re-verifying must not grow the audit trail")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt), "re-verifying must stamp updatedAt")
}

func TestVerifyPaymentRejectsUnpaid(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)

	rejected, err := svc.RejectPayment(context.Background(), order.ID, "admin-1", "no reference")
	require.NoError(t, err)
	require.Equal(t, models.PaymentUnpaid, rejected.Payment.Status)

	// Unpaid orders need a resubmitted proof before they can be verified.
	_, err = svc.VerifyPayment(context.Background(), order.ID, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectPaymentKeepsReasonInAuditTrail(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	in := validSubmitInput()
	in.PaymentMethod = models.MethodGCash
	in.ReferenceNo = "GC-1"
	order, err := svc.Submit(context.Background(), "user-1", in)
	require.NoError(t, err)

	updated, err := svc.RejectPayment(context.Background(), order.ID, "admin-1", "reference not found")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentUnpaid, updated.Payment.Status)
	last := updated.StatusHistory[len(updated.StatusHistory)-1]
	assert.Equal(t, "payment_rejected", last.Status)
	assert.Equal(t, "reference not found", last.Remarks)
}

func TestSubmitReceiptResubmitsAfterRejection(t *testing.T) {
	svc, _, disk := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)

	rejected, err := svc.RejectPayment(context.Background(), order.ID, "admin-1", "blurry screenshot")
	require.NoError(t, err)
	require.Equal(t, models.PaymentUnpaid, rejected.Payment.Status)

	updated, err := svc.SubmitReceipt(context.Background(), order.ID, "user-1", models.RoleCustomer, "receipt.png", []byte("png-bytes"), "GC-99")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPending, updated.Payment.Status)
	assert.Equal(t, "GC-99", updated.Payment.ReferenceNo)
	assert.Equal(t, "mem://receipts/"+order.ID+".png", updated.Payment.ReceiptURL)
	assert.True(t, disk.Exists("receipts/"+order.ID+".png"))
}

func TestSubmitReceiptRejectsOtherUsersOrder(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)

	_, err = svc.SubmitReceipt(context.Background(), order.ID, "user-2", models.RoleCustomer, "receipt.png", []byte("x"), "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitReceiptRejectsPaidOrder(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)
	_, err = svc.VerifyPayment(context.Background(), order.ID, "admin-1")
	require.NoError(t, err)

	_, err = svc.SubmitReceipt(context.Background(), order.ID, "user-1", models.RoleCustomer, "receipt.png", []byte("x"), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// ─── Ownership and tracking ───────────────────────────────────────────────────

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "user-1", validSubmitInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), order.ID, "user-1", models.RoleCustomer)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), order.ID, "user-2", models.RoleCustomer)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(context.Background(), order.ID, "admin-1", models.RoleAdmin)
	assert.NoError(t, err)
}

func TestTrackingTokenRoundTrip(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.Submit(context.Background(), "", validSubmitInput())
	require.NoError(t, err)

	token, err := svc.TrackingToken(order.ID)
	require.NoError(t, err)

	tracked, err := svc.Track(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, order.ID, tracked.ID)

	_, err = svc.Track(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidTrackingToken)
}

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
	"github.com/printipid/printipid/config"
	"github.com/printipid/printipid/pkg/crypt"
	"github.com/printipid/printipid/pkg/event"
	"github.com/printipid/printipid/pkg/metrics"
	"github.com/printipid/printipid/pkg/storage"
)

// Event names fired by the order service. Listeners are registered at boot.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventPaymentVerified    = "payment.verified"
	EventPaymentRejected    = "payment.rejected"
)

// trackingClaims is the encrypted payload of a guest tracking token.
type trackingClaims struct {
	OrderID  string `json:"orderId"`
	IssuedAt int64  `json:"iat"`
}

// SubmitOrderInput carries everything needed to create an order.
type SubmitOrderInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Options       models.PrintOptions
	PaymentMethod models.PaymentMethod
	ReferenceNo   string
	Files         []FileInput
}

// OrderService owns the order lifecycle: submission, status transitions,
// payment review and receipt uploads.
type OrderService struct {
	orders      OrderStore
	attachments *AttachmentService
	receipts    storage.Disk
}

func NewOrderService(orders OrderStore, attachments *AttachmentService, receipts storage.Disk) *OrderService {
	return &OrderService{orders: orders, attachments: attachments, receipts: receipts}
}

// ─── Submission ───────────────────────────────────────────────────────────────

// Submit creates a new order. userID is "" for anonymous submissions, which
// are recorded under the shared guest identity. The total is computed once at
// submission and never recomputed.
func (s *OrderService) Submit(ctx context.Context, userID string, in SubmitOrderInput) (models.Order, error) {
	if userID == "" {
		userID = models.GuestUserID
	}

	if in.Options.Pages < 1 || in.Options.Copies < 1 {
		return models.Order{}, fmt.Errorf("services: pages and copies must be at least 1")
	}

	docs, err := s.attachments.EncodeBatch(in.Files)
	if err != nil {
		return models.Order{}, err
	}

	total := float64(in.Options.Pages) * float64(in.Options.Copies) * config.PrintUnitRate()

	now := time.Now()
	order := models.Order{
		ID:            primitive.NewObjectID().Hex(),
		UserID:        userID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		Status:        models.StatusPending,
		Documents:     docs,
		PrintOptions:  in.Options,
		// Every new order awaits payment review, even zero totals and
		// pay-on-shop. Verification or rejection moves it from here.
		Payment: models.Payment{
			Method:      in.PaymentMethod,
			Amount:      total,
			Status:      models.PaymentPending,
			ReferenceNo: in.ReferenceNo,
		},
		TotalAmount: total,
		StatusHistory: []models.StatusEntry{{
			Status:    string(models.StatusPending),
			UpdatedBy: userID,
			Timestamp: now,
		}},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		return models.Order{}, err
	}

	metrics.OrdersCreated.WithLabelValues(string(in.PaymentMethod)).Inc()
	event.Fire(EventOrderCreated, order)
	return order, nil
}

// ─── Reads ────────────────────────────────────────────────────────────────────

// Get returns one order, enforcing ownership: admins see everything,
// customers only their own orders.
func (s *OrderService) Get(ctx context.Context, id, requesterID, role string) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if role != models.RoleAdmin && order.UserID != requesterID {
		return models.Order{}, ErrForbidden
	}
	return order, nil
}

// OrdersForUser returns a customer's own orders, newest first.
func (s *OrderService) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// AllOrders returns every order, optionally filtered by status (admin view).
func (s *OrderService) AllOrders(ctx context.Context, status string) ([]models.Order, error) {
	if status != "" && !models.OrderStatus(status).Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidStatusFilter, status)
	}
	return s.orders.All(ctx, status)
}

// ─── Status transitions ───────────────────────────────────────────────────────

// UpdateStatus moves an order to a new status. Transitions are validated
// against the lifecycle table; terminal orders never move. expectedVersion
// implements optimistic locking: 0 means "whatever is current".
func (s *OrderService) UpdateStatus(ctx context.Context, id string, to models.OrderStatus, actorID, remarks string, expectedVersion int64) (models.Order, error) {
	if !to.Valid() {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if expectedVersion == 0 {
		expectedVersion = order.Version
	}

	if !models.CanTransition(order.Status, to) {
		return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}

	now := time.Now()
	history := append(order.StatusHistory, models.StatusEntry{
		Status:    string(to),
		UpdatedBy: actorID,
		Remarks:   remarks,
		Timestamp: now,
	})

	updated, err := s.orders.UpdateCAS(ctx, id, expectedVersion, bson.M{
		"status":        to,
		"statusHistory": history,
		"updatedAt":     now,
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrderTransitions.WithLabelValues(string(order.Status), string(to)).Inc()
	event.Fire(EventOrderStatusChanged, updated)
	return updated, nil
}

// ─── Payment review ───────────────────────────────────────────────────────────

// VerifyPayment marks an order's payment as paid. Verifying an already-paid
// order is a no-op, not an error. Cancelled orders cannot be verified.
func (s *OrderService) VerifyPayment(ctx context.Context, id, adminID string) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status == models.StatusCancelled {
		return models.Order{}, fmt.Errorf("%w: cannot verify payment on a cancelled order", ErrInvalidTransition)
	}

	now := time.Now()

	// Re-verifying a paid order keeps everything as is but still stamps
	// updatedAt. No event, no metrics, nothing material changed.
	if order.Payment.Status == models.PaymentPaid {
		return s.orders.UpdateCAS(ctx, id, order.Version, bson.M{"updatedAt": now})
	}
	// Only payments awaiting review can be verified. Unpaid orders need a
	// resubmitted proof first.
	if order.Payment.Status != models.PaymentPending {
		return models.Order{}, fmt.Errorf("%w: cannot verify a payment that is %s", ErrInvalidTransition, order.Payment.Status)
	}

	history := append(order.StatusHistory, models.StatusEntry{
		Status:    "payment_verified",
		UpdatedBy: adminID,
		Timestamp: now,
	})

	updated, err := s.orders.UpdateCAS(ctx, id, order.Version, bson.M{
		"payment.status": models.PaymentPaid,
		"statusHistory":  history,
		"updatedAt":      now,
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.PaymentsReviewed.WithLabelValues("verified").Inc()
	event.Fire(EventPaymentVerified, updated)
	return updated, nil
}

// RejectPayment sends an order's payment back to unpaid. The reason is kept
// in the audit trail only.
func (s *OrderService) RejectPayment(ctx context.Context, id, adminID, reason string) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status == models.StatusCancelled {
		return models.Order{}, fmt.Errorf("%w: cannot review payment on a cancelled order", ErrInvalidTransition)
	}

	now := time.Now()
	history := append(order.StatusHistory, models.StatusEntry{
		Status:    "payment_rejected",
		UpdatedBy: adminID,
		Remarks:   reason,
		Timestamp: now,
	})

	updated, err := s.orders.UpdateCAS(ctx, id, order.Version, bson.M{
		"payment.status": models.PaymentUnpaid,
		"statusHistory":  history,
		"updatedAt":      now,
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.PaymentsReviewed.WithLabelValues("rejected").Inc()
	event.Fire(EventPaymentRejected, updated)
	return updated, nil
}

// SubmitReceipt attaches GCash proof of payment to an order and moves the
// payment to pending review. Customers may resubmit after a rejection.
func (s *OrderService) SubmitReceipt(ctx context.Context, id, requesterID, role, fileName string, content []byte, referenceNo string) (models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if role != models.RoleAdmin && order.UserID != requesterID {
		return models.Order{}, ErrForbidden
	}
	if order.Payment.Status == models.PaymentPaid {
		return models.Order{}, fmt.Errorf("%w: payment already verified", ErrInvalidTransition)
	}
	if err := s.attachments.ValidateReceiptName(fileName); err != nil {
		return models.Order{}, err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	path := "receipts/" + order.ID + ext
	if err := s.receipts.Put(path, content); err != nil {
		return models.Order{}, fmt.Errorf("services: store receipt: %w", err)
	}

	now := time.Now()
	history := append(order.StatusHistory, models.StatusEntry{
		Status:    "payment_submitted",
		UpdatedBy: requesterID,
		Timestamp: now,
	})

	fields := bson.M{
		"payment.status":     models.PaymentPending,
		"payment.receiptUrl": s.receipts.URL(path),
		"statusHistory":      history,
		"updatedAt":          now,
	}
	if referenceNo != "" {
		fields["payment.referenceNo"] = referenceNo
	}

	return s.orders.UpdateCAS(ctx, id, order.Version, fields)
}

// ─── Guest tracking ───────────────────────────────────────────────────────────

// TrackingToken issues an opaque encrypted token a guest can use to look up
// their order without an account.
func (s *OrderService) TrackingToken(orderID string) (string, error) {
	return crypt.EncryptJSON(trackingClaims{OrderID: orderID, IssuedAt: time.Now().Unix()})
}

// Track resolves a tracking token to its order.
func (s *OrderService) Track(ctx context.Context, token string) (models.Order, error) {
	var claims trackingClaims
	if err := crypt.DecryptJSON(token, &claims); err != nil {
		return models.Order{}, ErrInvalidTrackingToken
	}
	order, err := s.orders.FindByID(ctx, claims.OrderID)
	if err != nil {
		return models.Order{}, ErrInvalidTrackingToken
	}
	return order, nil
}

// ─── Admin housekeeping ───────────────────────────────────────────────────────

// Delete removes an order permanently (admin only; the route enforces role).
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if _, err := s.orders.FindByID(ctx, id); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

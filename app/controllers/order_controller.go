package controllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/pkg/bind"
	"github.com/printipid/printipid/pkg/event"
	"github.com/printipid/printipid/pkg/middleware"
	"github.com/printipid/printipid/pkg/response"
	"github.com/printipid/printipid/pkg/sse"
	"github.com/printipid/printipid/pkg/validate"
)

// OrderController handles customer-facing order endpoints, including the
// per-order SSE update stream.
type OrderController struct {
	orders *services.OrderService

	subsMu sync.Mutex
	subs   map[string]map[chan models.Order]struct{} // orderID -> subscribers
}

func NewOrderController(orders *services.OrderService) *OrderController {
	c := &OrderController{
		orders: orders,
		subs:   map[string]map[chan models.Order]struct{}{},
	}

	// Any order mutation wakes that order's SSE subscribers.
	for _, name := range []string{
		services.EventOrderStatusChanged,
		services.EventPaymentVerified,
		services.EventPaymentRejected,
	} {
		event.Listen(name, func(payload interface{}) {
			if order, ok := payload.(models.Order); ok {
				c.notify(order)
			}
		})
	}
	return c
}

// ─── Submission ───────────────────────────────────────────────────────────────

type documentUpload struct {
	FileName string `json:"fileName" validate:"required"`
	Content  string `json:"content" validate:"required"` // base64 or data URL
}

type submitOrderRequest struct {
	CustomerName   string           `json:"customerName" validate:"required,max=120"`
	CustomerEmail  string           `json:"customerEmail" validate:"nullable,email"`
	CustomerPhone  string           `json:"customerPhone" validate:"nullable,max=32"`
	PaperSize      string           `json:"paperSize" validate:"required,in=A4,Letter,Legal,A3"`
	ColorMode      string           `json:"colorMode" validate:"required,in=bw,color"`
	PaperType      string           `json:"paperType" validate:"required,in=bond,glossy,matte"`
	Copies         int              `json:"copies" validate:"required,gte=1"`
	Pages          int              `json:"pages" validate:"required,gte=1"`
	Orientation    string           `json:"orientation" validate:"nullable,in=portrait,landscape"`
	PickupDateTime *time.Time       `json:"pickupDateTime"`
	Note           string           `json:"note" validate:"nullable,max=500"`
	PaymentMethod  string           `json:"paymentMethod" validate:"required,in=gcash,pay_on_shop"`
	ReferenceNo    string           `json:"referenceNo" validate:"nullable,max=64"`
	Documents      []documentUpload `json:"documents" validate:"required"`
}

type submitOrderResponse struct {
	Order         models.Order `json:"order"`
	TrackingToken string       `json:"trackingToken,omitempty"`
}

// Submit creates a new order. Authenticated customers get it attached to
// their account; anonymous callers get a tracking token instead.
// POST /api/orders
func (c *OrderController) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	files := make([]services.FileInput, 0, len(req.Documents))
	for _, d := range req.Documents {
		content, err := decodeBase64(d.Content)
		if err != nil {
			response.ValidationError(w, map[string]string{
				"documents": "The document " + d.FileName + " is not valid base64.",
			})
			return
		}
		files = append(files, services.FileInput{Name: d.FileName, Content: content})
	}

	userID, _ := middleware.UserIDFromCtx(r)
	order, err := c.orders.Submit(r.Context(), userID, services.SubmitOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Options: models.PrintOptions{
			PaperSize:      req.PaperSize,
			ColorMode:      req.ColorMode,
			PaperType:      req.PaperType,
			Copies:         req.Copies,
			Pages:          req.Pages,
			Orientation:    req.Orientation,
			PickupDateTime: req.PickupDateTime,
			Note:           req.Note,
		},
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		ReferenceNo:   req.ReferenceNo,
		Files:         files,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := submitOrderResponse{Order: order}
	if order.UserID == models.GuestUserID {
		token, err := c.orders.TrackingToken(order.ID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		resp.TrackingToken = token
	}
	response.Created(w, resp)
}

// ─── Reads ────────────────────────────────────────────────────────────────────

// Mine lists the caller's orders, newest first.
// GET /api/orders
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	orders, err := c.orders.OrdersForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, orders)
}

// Show returns one order the caller owns (admins see any).
// GET /api/orders/{id}
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r)
	role, _ := middleware.RoleFromCtx(r)

	order, err := c.orders.Get(r.Context(), chi.URLParam(r, "id"), userID, role)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, order)
}

// Track resolves a guest tracking token.
// GET /api/orders/track/{token}
func (c *OrderController) Track(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.Track(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, order)
}

// ─── Receipts ─────────────────────────────────────────────────────────────────

type submitReceiptRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	Content     string `json:"content" validate:"required"` // base64 or data URL
	ReferenceNo string `json:"referenceNo" validate:"nullable,max=64"`
}

// SubmitReceipt attaches GCash proof of payment to the caller's order.
// POST /api/orders/{id}/receipt
func (c *OrderController) SubmitReceipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	role, _ := middleware.RoleFromCtx(r)

	var req submitReceiptRequest
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
		response.ValidationError(w, map[string]string{"content": "The receipt is not valid base64."})
		return
	}

	order, err := c.orders.SubmitReceipt(r.Context(), chi.URLParam(r, "id"), userID, role, req.FileName, content, req.ReferenceNo)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, order)
}

// ─── SSE updates ──────────────────────────────────────────────────────────────

// Events streams live updates for one order over Server-Sent Events.
// Guests authenticate with ?token=<trackingToken>; customers with a bearer
// token and ownership of the order.
// GET /api/orders/{id}/events
func (c *OrderController) Events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var order models.Order
	var err error
	if token := r.URL.Query().Get("token"); token != "" {
		order, err = c.orders.Track(r.Context(), token)
		if err == nil && order.ID != id {
			err = services.ErrInvalidTrackingToken
		}
	} else {
		userID, ok := middleware.UserIDFromCtx(r)
		if !ok {
			response.Unauthorized(w)
			return
		}
		role, _ := middleware.RoleFromCtx(r)
		order, err = c.orders.Get(r.Context(), id, userID, role)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	stream := sse.New(w, r)
	ch := c.subscribe(order.ID)
	defer c.unsubscribe(order.ID, ch)

	_ = stream.Send("order", order)

	keepalive := time.NewTicker(15 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case updated := <-ch:
			if err := stream.Send("order", updated); err != nil {
				return
			}
		case <-keepalive.C:
			stream.Comment("keepalive")
		}
	}
}

func (c *OrderController) subscribe(orderID string) chan models.Order {
	ch := make(chan models.Order, 8)
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	if c.subs[orderID] == nil {
		c.subs[orderID] = map[chan models.Order]struct{}{}
	}
	c.subs[orderID][ch] = struct{}{}
	return ch
}

func (c *OrderController) unsubscribe(orderID string, ch chan models.Order) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	delete(c.subs[orderID], ch)
	if len(c.subs[orderID]) == 0 {
		delete(c.subs, orderID)
	}
}

func (c *OrderController) notify(order models.Order) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for ch := range c.subs[order.ID] {
		select {
		case ch <- order:
		default:
			// Slow subscriber, drop the update. The next one will catch up.
		}
	}
}

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/pkg/bind"
	"github.com/printipid/printipid/pkg/collection"
	"github.com/printipid/printipid/pkg/event"
	"github.com/printipid/printipid/pkg/middleware"
	"github.com/printipid/printipid/pkg/resource"
	"github.com/printipid/printipid/pkg/response"
	"github.com/printipid/printipid/pkg/validate"
	"github.com/printipid/printipid/pkg/ws"
)

// AdminController handles order management, payment review and user
// administration. Every route is behind the admin role.
type AdminController struct {
	orders *services.OrderService
	auth   *services.AuthService
	feed   *ws.Hub
}

// NewAdminController wires the live order feed: every order event is pushed
// to connected admin dashboards.
func NewAdminController(orders *services.OrderService, auth *services.AuthService, feed *ws.Hub) *AdminController {
	c := &AdminController{orders: orders, auth: auth, feed: feed}

	if feed != nil {
		for _, name := range []string{
			services.EventOrderCreated,
			services.EventOrderStatusChanged,
			services.EventPaymentVerified,
			services.EventPaymentRejected,
		} {
			name := name
			event.Listen(name, func(payload interface{}) {
				order, ok := payload.(models.Order)
				if !ok {
					return
				}
				msg, err := json.Marshal(map[string]interface{}{
					"event": name,
					"order": order,
				})
				if err != nil {
					return
				}
				feed.Broadcast <- msg
			})
		}
	}
	return c
}

// ─── Orders ───────────────────────────────────────────────────────────────────

// Orders lists order summaries, optionally filtered by ?status= and paged
// with ?page= / ?perPage=. Inline documents are omitted from the list shape.
// GET /api/admin/orders
func (c *AdminController) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.AllOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 20)
	pageItems := collection.Paginate(orders, page, perPage)

	resource.CollectionOf(orderSummaryResource{}, pageItems).
		WithPagination(resource.Pagination{Page: page, PerPage: perPage, Total: int64(len(orders))}).
		Respond(w)
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

type updateStatusRequest struct {
	Status  string `json:"status" validate:"required,in=pending,processing,ready,completed,cancelled"`
	Remarks string `json:"remarks" validate:"nullable,max=500"`
	Version int64  `json:"version" validate:"nullable,gte=1"`
}

// UpdateStatus moves an order through its lifecycle.
// PATCH /api/admin/orders/{id}/status
func (c *AdminController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserIDFromCtx(r)

	var req updateStatusRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"),
		models.OrderStatus(req.Status), adminID, req.Remarks, req.Version)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, order)
}

// VerifyPayment marks an order's payment as paid.
// POST /api/admin/orders/{id}/payment/verify
func (c *AdminController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserIDFromCtx(r)

	order, err := c.orders.VerifyPayment(r.Context(), chi.URLParam(r, "id"), adminID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, order)
}

type rejectPaymentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// RejectPayment sends a payment back to unpaid with a reason.
// POST /api/admin/orders/{id}/payment/reject
func (c *AdminController) RejectPayment(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserIDFromCtx(r)

	var req rejectPaymentRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.RejectPayment(r.Context(), chi.URLParam(r, "id"), adminID, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, order)
}

// DeleteOrder removes an order permanently.
// DELETE /api/admin/orders/{id}
func (c *AdminController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := c.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, map[string]string{"deleted": chi.URLParam(r, "id")})
}

// ─── Users ────────────────────────────────────────────────────────────────────

// Users lists every registered user.
// GET /api/admin/users
func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	users, err := c.auth.Users(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, users)
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,in=admin,customer"`
}

// SetRole changes a user's role.
// PATCH /api/admin/users/{id}/role
func (c *AdminController) SetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.SetRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Success(w, user)
}

// ─── Live feed ────────────────────────────────────────────────────────────────

// Feed upgrades to a WebSocket that receives every order event as it happens.
// GET /api/admin/orders/feed
func (c *AdminController) Feed(w http.ResponseWriter, r *http.Request) {
	if c.feed == nil {
		response.Error(w, http.StatusServiceUnavailable, "Live feed is not enabled")
		return
	}
	ws.Upgrade(w, r, c.feed)
}

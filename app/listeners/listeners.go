// Package listeners wires domain events to their side effects. Register is
// called once at boot, after the queue workers are up.
package listeners

import (
	"github.com/printipid/printipid/app/jobs"
	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/pkg/event"
	"github.com/printipid/printipid/pkg/logger"
	"github.com/printipid/printipid/pkg/queue"
)

// Register hooks every order event to its notification job. Emails go
// through the queue so a slow SMTP server never blocks a request.
func Register() {
	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		dispatch(&jobs.OrderStatusEmailJob{
			OrderID:      order.ID,
			Email:        order.CustomerEmail,
			CustomerName: order.CustomerName,
			Status:       string(order.Status),
			Remarks:      lastRemarks(order),
		})
	})

	event.Listen(services.EventPaymentVerified, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		dispatch(&jobs.PaymentReviewEmailJob{
			OrderID:      order.ID,
			Email:        order.CustomerEmail,
			CustomerName: order.CustomerName,
			Verified:     true,
		})
	})

	event.Listen(services.EventPaymentRejected, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		dispatch(&jobs.PaymentReviewEmailJob{
			OrderID:      order.ID,
			Email:        order.CustomerEmail,
			CustomerName: order.CustomerName,
			Verified:     false,
			Reason:       lastRemarks(order),
		})
	})
}

func dispatch(job queue.Job) {
	if err := queue.Dispatch(job); err != nil {
		logger.Error("listeners: dispatch failed", "job", job, "error", err)
	}
}

// lastRemarks returns the remarks of the newest audit entry, where the
// order service records transition notes and rejection reasons.
func lastRemarks(order models.Order) string {
	if len(order.StatusHistory) == 0 {
		return ""
	}
	return order.StatusHistory[len(order.StatusHistory)-1].Remarks
}

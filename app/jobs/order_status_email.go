// Package jobs defines the background jobs dispatched onto the queue.
// Register must be called once at boot so workers can deserialize them.
package jobs

import (
	"fmt"

	"github.com/printipid/printipid/pkg/notification"
	"github.com/printipid/printipid/pkg/queue"
)

// Register makes every job type known to the queue workers.
func Register() {
	queue.Register("*jobs.OrderStatusEmailJob", func() queue.Job { return &OrderStatusEmailJob{} })
	queue.Register("*jobs.PaymentReviewEmailJob", func() queue.Job { return &PaymentReviewEmailJob{} })
	queue.Register("*jobs.DailySalesSummaryJob", func() queue.Job { return &DailySalesSummaryJob{} })
}

// statusBlurbs is the customer-facing line for each order status.
var statusBlurbs = map[string]string{
	"pending":    "We received your order and will start printing soon.",
	"processing": "Your order is being printed.",
	"ready":      "Your order is ready for pickup!",
	"completed":  "Your order has been picked up. Thank you!",
	"cancelled":  "Your order has been cancelled.",
}

// OrderStatusEmailJob emails the customer after an order status change.
// Orders without a customer email (guest drop-offs) are skipped silently.
type OrderStatusEmailJob struct {
	OrderID      string `json:"orderId"`
	Email        string `json:"email"`
	CustomerName string `json:"customerName"`
	Status       string `json:"status"`
	Remarks      string `json:"remarks"`
}

func (j *OrderStatusEmailJob) Handle() error {
	if j.Email == "" {
		return nil
	}
	errs := notification.Send(j.Email, &orderStatusNotification{job: j})
	if len(errs) > 0 {
		return fmt.Errorf("jobs: order status email for %s: %w", j.OrderID, errs[0])
	}
	return nil
}

type orderStatusNotification struct {
	job *OrderStatusEmailJob
}

func (n *orderStatusNotification) Via() []string { return []string{"mail"} }

func (n *orderStatusNotification) ToMail() notification.MailData {
	blurb := statusBlurbs[n.job.Status]
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order <strong>%s</strong> is now <strong>%s</strong>.</p><p>%s</p>",
		n.job.CustomerName, n.job.OrderID, n.job.Status, blurb,
	)
	if n.job.Remarks != "" {
		body += fmt.Sprintf("<p>Note from the shop: %s</p>", n.job.Remarks)
	}
	return notification.MailData{
		Subject: fmt.Sprintf("Order %s is now %s", n.job.OrderID, n.job.Status),
		Body:    body,
		Text:    fmt.Sprintf("Hi %s, your order %s is now %s. %s", n.job.CustomerName, n.job.OrderID, n.job.Status, blurb),
	}
}

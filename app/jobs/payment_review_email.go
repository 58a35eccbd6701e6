package jobs

import (
	"fmt"

	"github.com/printipid/printipid/pkg/notification"
)

// PaymentReviewEmailJob emails the customer after an admin verifies or
// rejects their payment proof.
type PaymentReviewEmailJob struct {
	OrderID      string `json:"orderId"`
	Email        string `json:"email"`
	CustomerName string `json:"customerName"`
	Verified     bool   `json:"verified"`
	Reason       string `json:"reason"`
}

func (j *PaymentReviewEmailJob) Handle() error {
	if j.Email == "" {
		return nil
	}
	errs := notification.Send(j.Email, &paymentReviewNotification{job: j})
	if len(errs) > 0 {
		return fmt.Errorf("jobs: payment review email for %s: %w", j.OrderID, errs[0])
	}
	return nil
}

type paymentReviewNotification struct {
	job *PaymentReviewEmailJob
}

func (n *paymentReviewNotification) Via() []string { return []string{"mail"} }

func (n *paymentReviewNotification) ToMail() notification.MailData {
	if n.job.Verified {
		return notification.MailData{
			Subject: fmt.Sprintf("Payment confirmed for order %s", n.job.OrderID),
			Body: fmt.Sprintf(
				"<p>Hi %s,</p><p>We confirmed your payment for order <strong>%s</strong>. We'll get printing!</p>",
				n.job.CustomerName, n.job.OrderID,
			),
		}
	}
	return notification.MailData{
		Subject: fmt.Sprintf("Payment issue on order %s", n.job.OrderID),
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>We could not verify your payment for order <strong>%s</strong>: %s.</p><p>Please submit a new receipt.</p>",
			n.job.CustomerName, n.job.OrderID, n.job.Reason,
		),
	}
}

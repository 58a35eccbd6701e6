package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/printipid/printipid/app/repositories"
	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/pkg/notification"
)

// DailySalesSummaryJob posts the day's sales figures to the shop's Slack
// channel. The scheduler dispatches it near closing time.
type DailySalesSummaryJob struct {
	Date string `json:"date"` // YYYY-MM-DD, local
}

func (j *DailySalesSummaryJob) Handle() error {
	day, err := time.ParseInLocation("2006-01-02", j.Date, time.Local)
	if err != nil {
		return fmt.Errorf("jobs: daily summary: bad date %q: %w", j.Date, err)
	}
	// Aggregate as of end of that day.
	asOf := day.Add(23*time.Hour + 59*time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orders, err := repositories.NewOrderRepository().All(ctx, "")
	if err != nil {
		return fmt.Errorf("jobs: daily summary: load orders: %w", err)
	}
	stats := services.ComputeStats(orders, asOf)

	errs := notification.Send("", &salesSummaryNotification{date: j.Date, stats: stats})
	if len(errs) > 0 {
		return fmt.Errorf("jobs: daily summary: %w", errs[0])
	}
	return nil
}

type salesSummaryNotification struct {
	date  string
	stats services.Stats
}

func (n *salesSummaryNotification) Via() []string { return []string{"slack"} }

func (n *salesSummaryNotification) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("Sales summary for %s", n.date),
		Attachments: []notification.SlackAttachment{{
			Color: "good",
			Title: fmt.Sprintf("₱%.2f today (%d orders)", n.stats.DailySales, n.stats.TodayOrderCount),
			Text: fmt.Sprintf(
				"Total sales to date: ₱%.2f | Pending payments: %d (₱%.2f) | Processing: %d | Active today: %d",
				n.stats.TotalSales, n.stats.PendingPayments, n.stats.PendingAmount,
				n.stats.ProcessingOrders, n.stats.ActiveOrders,
			),
			Footer: "printipid daily summary",
		}},
	}
}

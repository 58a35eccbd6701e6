package services

import (
	"context"
	"time"

	"github.com/printipid/printipid/app/models"
)

// Stats is the dashboard aggregate for a set of orders. For the admin view
// the input is every order; for a customer it is their own orders and
// TotalSales reads as total spent.
type Stats struct {
	TotalOrders      int     `json:"totalOrders"`
	CompletedOrders  int     `json:"completedOrders"`
	ProcessingOrders int     `json:"processingOrders"`
	PendingPayments  int     `json:"pendingPayments"`
	PendingAmount    float64 `json:"pendingAmount"`
	PaidOrders       int     `json:"paidOrders"`
	TotalSales       float64 `json:"totalSales"`
	DailySales       float64 `json:"dailySales"`
	TodayOrderCount  int     `json:"todayOrderCount"`
	ActiveOrders     int     `json:"activeOrders"`
}

// floorToDay truncates t to local midnight.
func floorToDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// ComputeStats aggregates orders in a single pass. Pure and deterministic:
// "today" means the order's createdAt falls on the same local calendar day
// as now. No counters are materialized; callers re-scan per request.
func ComputeStats(orders []models.Order, now time.Time) Stats {
	var s Stats
	today := floorToDay(now)

	for _, o := range orders {
		s.TotalOrders++

		switch o.Status {
		case models.StatusCompleted:
			s.CompletedOrders++
		case models.StatusProcessing:
			s.ProcessingOrders++
		}

		createdToday := floorToDay(o.CreatedAt).Equal(today)

		switch o.Payment.Status {
		case models.PaymentPending:
			s.PendingPayments++
			s.PendingAmount += o.TotalAmount
		case models.PaymentPaid:
			s.PaidOrders++
			s.TotalSales += o.TotalAmount
			if createdToday {
				s.DailySales += o.TotalAmount
				s.TodayOrderCount++
			}
		}

		if createdToday && (o.Status == models.StatusPending || o.Status == models.StatusReady) {
			s.ActiveOrders++
		}
	}

	return s
}

// StatsService produces dashboard aggregates from the order store.
type StatsService struct {
	orders OrderStore
}

func NewStatsService(orders OrderStore) *StatsService {
	return &StatsService{orders: orders}
}

// ForAdmin aggregates across every order.
func (s *StatsService) ForAdmin(ctx context.Context) (Stats, error) {
	orders, err := s.orders.All(ctx, "")
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(orders, time.Now()), nil
}

// ForUser aggregates across one customer's orders.
func (s *StatsService) ForUser(ctx context.Context, userID string) (Stats, error) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(orders, time.Now()), nil
}

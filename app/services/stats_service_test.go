package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/printipid/printipid/app/models"
)

func order(status models.OrderStatus, payStatus models.PaymentStatus, total float64, createdAt time.Time) models.Order {
	return models.Order{
		Status:      status,
		Payment:     models.Payment{Status: payStatus, Amount: total},
		TotalAmount: total,
		CreatedAt:   createdAt,
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)

	orders := []models.Order{
		order(models.StatusCompleted, models.PaymentPaid, 60, yesterday),
		order(models.StatusProcessing, models.PaymentPaid, 40, now),
		order(models.StatusPending, models.PaymentPending, 50, now),
	}

	s := ComputeStats(orders, now)

	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 1, s.CompletedOrders)
	assert.Equal(t, 1, s.ProcessingOrders)
	assert.Equal(t, 2, s.PaidOrders)
	assert.Equal(t, 100.0, s.TotalSales)
	assert.Equal(t, 1, s.PendingPayments)
	assert.Equal(t, 50.0, s.PendingAmount)
	// Only the paid order created today counts toward daily figures.
	assert.Equal(t, 40.0, s.DailySales)
	assert.Equal(t, 1, s.TodayOrderCount)
	// The pending order created today is the only active one.
	assert.Equal(t, 1, s.ActiveOrders)
}

func TestComputeStatsDayBoundary(t *testing.T) {
	// 00:05 local: an order paid at 23:55 the previous day must not count as today.
	now := time.Date(2026, 3, 14, 0, 5, 0, 0, time.Local)
	lateYesterday := time.Date(2026, 3, 13, 23, 55, 0, 0, time.Local)
	earlyToday := time.Date(2026, 3, 14, 0, 1, 0, 0, time.Local)

	orders := []models.Order{
		order(models.StatusCompleted, models.PaymentPaid, 10, lateYesterday),
		order(models.StatusPending, models.PaymentPaid, 20, earlyToday),
	}

	s := ComputeStats(orders, now)

	assert.Equal(t, 30.0, s.TotalSales)
	assert.Equal(t, 20.0, s.DailySales)
	assert.Equal(t, 1, s.TodayOrderCount)
	assert.Equal(t, 1, s.ActiveOrders)
}

func TestComputeStatsEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil, time.Now()))
}

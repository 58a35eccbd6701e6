package models_test

import (
	"testing"

	"github.com/printipid/printipid/app/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusReady, false},
		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusProcessing, models.StatusReady, true},
		{models.StatusProcessing, models.StatusCompleted, true},
		{models.StatusProcessing, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusPending, false},
		{models.StatusReady, models.StatusCompleted, true},
		{models.StatusReady, models.StatusCancelled, true},
		{models.StatusReady, models.StatusProcessing, false},
		{models.StatusCompleted, models.StatusPending, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusProcessing, false},
	}

	for _, c := range cases {
		got := models.CanTransition(c.from, c.to)
		assert.Equalf(t, c.want, got, "%s -> %s", c.from, c.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, models.StatusCompleted.IsTerminal())
	assert.True(t, models.StatusCancelled.IsTerminal())
	assert.False(t, models.StatusPending.IsTerminal())
	assert.False(t, models.StatusProcessing.IsTerminal())
	assert.False(t, models.StatusReady.IsTerminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, models.StatusPending.Valid())
	assert.False(t, models.OrderStatus("shipped").Valid())
}

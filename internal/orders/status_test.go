package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid(), "status %s", s)
		assert.NotEmpty(t, s.Text())
	}
	assert.False(t, Status("refunded").Valid())
	assert.False(t, Status("").Valid())
}

func TestStockDelta(t *testing.T) {
	cases := []struct {
		prev, next Status
		want       int
	}{
		{StatusPending, StatusConfirmed, -1},
		{StatusShipped, StatusConfirmed, -1}, // any not-yet-confirmed source decrements
		{StatusConfirmed, StatusConfirmed, 0},
		{StatusConfirmed, StatusCancelled, +1},
		{StatusPending, StatusCancelled, 0},
		{StatusShipped, StatusCancelled, 0},
		{StatusConfirmed, StatusShipped, 0},
		{StatusShipped, StatusDelivered, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StockDelta(tc.prev, tc.next), "%s -> %s", tc.prev, tc.next)
	}
}

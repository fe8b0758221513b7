package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/stock"
)

type fakeAdjuster struct {
	adjustments []stock.Adjustment
	err         error
}

func (f *fakeAdjuster) Adjust(_ context.Context, adj stock.Adjustment) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.adjustments = append(f.adjustments, adj)
	return 0, nil
}

func seededOrder(status Status) *Order {
	return &Order{
		ID:          "ord-1",
		OrderNumber: "#4217",
		Status:      status,
		Customer:    Customer{Name: "أحمد علي", Phone: "0911234567", AreaID: "TIP-1"},
		Items: []Item{
			{ProductID: "p1", Name: "سلسلة ذهبية", Quantity: 3, UnitPrice: 50, LineTotal: 150},
		},
	}
}

func newLifecycle(status Status) (*Lifecycle, *fakeStore, *fakeAdjuster, *fakePublisher) {
	store := &fakeStore{orders: map[string]*Order{"ord-1": seededOrder(status)}}
	adj := &fakeAdjuster{}
	pub := &fakePublisher{}
	return &Lifecycle{Store: store, Stock: adj, Producer: pub, Service: "shop-api"}, store, adj, pub
}

func TestSetStatusInvalidValue(t *testing.T) {
	lc, store, _, _ := newLifecycle(StatusPending)

	_, err := lc.SetStatus(context.Background(), "ord-1", Status("teleported"), "", "", "")
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, MsgInvalidStatus, rej.Msg)
	assert.Empty(t, store.transitions)
}

func TestSetStatusNotFound(t *testing.T) {
	lc, _, _, _ := newLifecycle(StatusPending)

	_, err := lc.SetStatus(context.Background(), "ghost", StatusConfirmed, "", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmDecrementsStockOnce(t *testing.T) {
	lc, _, adj, pub := newLifecycle(StatusPending)

	proj, err := lc.SetStatus(context.Background(), "ord-1", StatusConfirmed, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, proj.Status)
	assert.Equal(t, "تم تأكيد الطلب", proj.StatusText)

	require.Len(t, adj.adjustments, 1)
	assert.Equal(t, stock.Adjustment{
		ProductID: "p1", Delta: -3, Change: stock.ChangePurchase,
		Reason: "order confirmed", OrderID: "ord-1",
	}, adj.adjustments[0])

	assert.Equal(t, []string{events.EventStatusUpdate}, pub.eventTypes())
}

func TestReconfirmIsIdempotentForStock(t *testing.T) {
	lc, _, adj, _ := newLifecycle(StatusPending)

	_, err := lc.SetStatus(context.Background(), "ord-1", StatusConfirmed, "", "", "")
	require.NoError(t, err)
	_, err = lc.SetStatus(context.Background(), "ord-1", StatusConfirmed, "", "", "")
	require.NoError(t, err)

	assert.Len(t, adj.adjustments, 1, "second confirm must not decrement again")
}

func TestCancelAfterConfirmRestoresStock(t *testing.T) {
	lc, _, adj, _ := newLifecycle(StatusConfirmed)

	_, err := lc.SetStatus(context.Background(), "ord-1", StatusCancelled, "", "", "")
	require.NoError(t, err)

	require.Len(t, adj.adjustments, 1)
	assert.Equal(t, +3, adj.adjustments[0].Delta)
	assert.Equal(t, stock.ChangePurchase, adj.adjustments[0].Change)
}

func TestCancelBeforeConfirmLeavesStockAlone(t *testing.T) {
	lc, _, adj, _ := newLifecycle(StatusPending)

	_, err := lc.SetStatus(context.Background(), "ord-1", StatusCancelled, "", "", "")
	require.NoError(t, err)
	assert.Empty(t, adj.adjustments, "stock was never decremented, nothing to restore")
}

func TestStockFailureDoesNotRollBackStatus(t *testing.T) {
	lc, store, adj, pub := newLifecycle(StatusPending)
	adj.err = errors.New("db down")

	proj, err := lc.SetStatus(context.Background(), "ord-1", StatusConfirmed, "", "", "")
	require.NoError(t, err, "status change is committed even when stock fails")
	assert.Equal(t, StatusConfirmed, proj.Status)
	assert.Equal(t, []string{"ord-1"}, store.pending, "order flagged for reconciliation")
	assert.Equal(t, []string{events.EventStatusUpdate}, pub.eventTypes())
}

func TestSetStatusCarriesTrackingFields(t *testing.T) {
	lc, _, _, pub := newLifecycle(StatusConfirmed)

	proj, err := lc.SetStatus(context.Background(), "ord-1", StatusShipped, "TRK-99", "2026-09-03", "اتصل قبل التسليم")
	require.NoError(t, err)
	assert.Equal(t, "TRK-99", proj.TrackingInfo)
	assert.Equal(t, "2026-09-03", proj.EstimatedDelivery)
	assert.Equal(t, "اتصل قبل التسليم", proj.Notes)
	assert.False(t, proj.UpdatedAt.IsZero())

	require.Len(t, pub.envelopes, 1)
}

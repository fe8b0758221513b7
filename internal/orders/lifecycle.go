package orders

import (
	"context"
	"log"
	"time"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
	kafkax "github.com/ahmedharati210-cyber/life-accessories-backend/internal/kafka"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/stock"
)

type StatusStore interface {
	GetOrder(ctx context.Context, id string) (*Order, error)
	TransitionStatus(ctx context.Context, id string, next Status, trackingInfo, estimatedDelivery, notes string) (Status, time.Time, error)
	MarkStockPending(ctx context.Context, id string) error
}

type StockAdjuster interface {
	Adjust(ctx context.Context, adj stock.Adjustment) (int, error)
}

// Lifecycle owns status transitions and their stock reconciliation.
type Lifecycle struct {
	Store    StatusStore
	Stock    StockAdjuster
	Producer events.Publisher
	Service  string
}

// SetStatus applies the transition, reconciles stock where the transition
// calls for it, and fires the status notification. The status commit and the
// stock writes are an explicit two-step: a stock failure marks the order
// stock_pending instead of rolling the status back.
func (lc *Lifecycle) SetStatus(ctx context.Context, id string, next Status, trackingInfo, estimatedDelivery, notes string) (StatusProjection, error) {
	if !next.Valid() {
		return StatusProjection{}, reject(MsgInvalidStatus)
	}

	order, err := lc.Store.GetOrder(ctx, id)
	if err != nil {
		return StatusProjection{}, err
	}

	prev, updatedAt, err := lc.Store.TransitionStatus(ctx, id, next, trackingInfo, estimatedDelivery, notes)
	if err != nil {
		return StatusProjection{}, err
	}

	lc.reconcileStock(ctx, order, prev, next)
	lc.publishStatus(order, next, trackingInfo, estimatedDelivery, notes)

	proj := StatusProjection{
		ID:                order.ID,
		OrderNumber:       order.OrderNumber,
		Status:            next,
		StatusText:        next.Text(),
		TrackingInfo:      firstNonEmpty(trackingInfo, order.TrackingInfo),
		EstimatedDelivery: firstNonEmpty(estimatedDelivery, order.EstimatedDelivery),
		Notes:             firstNonEmpty(notes, order.Notes),
		UpdatedAt:         updatedAt,
	}
	return proj, nil
}

// reconcileStock decrements on first confirmation and restores on
// cancel-after-confirm; every other transition leaves stock alone. The
// previous-status guard keeps a repeated confirm from decrementing twice.
func (lc *Lifecycle) reconcileStock(ctx context.Context, order *Order, prev, next Status) {
	direction := StockDelta(prev, next)
	if direction == 0 {
		return
	}

	reason := "order confirmed"
	if direction > 0 {
		reason = "order cancelled after confirmation"
	}

	failed := false
	for _, it := range order.Items {
		_, err := lc.Stock.Adjust(ctx, stock.Adjustment{
			ProductID: it.ProductID,
			Delta:     direction * it.Quantity,
			Change:    stock.ChangePurchase,
			Reason:    reason,
			OrderID:   order.ID,
		})
		if err != nil {
			failed = true
			log.Printf("stock adjust order=%s product=%s delta=%d: %v",
				order.ID, it.ProductID, direction*it.Quantity, err)
		}
	}
	if failed {
		if err := lc.Store.MarkStockPending(ctx, order.ID); err != nil {
			log.Printf("mark stock pending order=%s: %v", order.ID, err)
		}
	}
}

func (lc *Lifecycle) publishStatus(order *Order, next Status, trackingInfo, estimatedDelivery, notes string) {
	payload := events.StatusUpdatePayload{
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		CustomerName:      order.Customer.Name,
		CustomerPhone:     order.Customer.Phone,
		CustomerEmail:     order.Customer.Email,
		Status:            string(next),
		StatusText:        next.Text(),
		TrackingInfo:      firstNonEmpty(trackingInfo, order.TrackingInfo),
		EstimatedDelivery: firstNonEmpty(estimatedDelivery, order.EstimatedDelivery),
		Notes:             firstNonEmpty(notes, order.Notes),
	}
	env := events.NewEnvelope(events.EventStatusUpdate, lc.Service, order.ID, kafkax.MustMarshal(payload))
	lc.Producer.Publish(events.PartitionKey(order.ID), kafkax.MustMarshal(env),
		events.Headers(events.EventStatusUpdate)...)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

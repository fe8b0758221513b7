package stock

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
	kafkax "github.com/ahmedharati210-cyber/life-accessories-backend/internal/kafka"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/redisx"
)

// Alerter publishes the low/out-of-stock admin notification, at most once
// per calendar day across the whole catalog.
type Alerter struct {
	Redis    *redis.Client
	Producer events.Publisher
	Service  string
}

// MaybeNotify is best-effort: every failure is logged and swallowed so the
// stock adjustment that triggered it never fails on alerting.
func (a *Alerter) MaybeNotify(ctx context.Context, ledger *Ledger) {
	day := time.Now().UTC().Format("2006-01-02")
	key := fmt.Sprintf(redisx.KeyStockAlertDay, day)

	acquired, err := redisx.AcquireOnce(ctx, a.Redis, key, redisx.TTLStockAlertDay)
	if err != nil {
		log.Printf("stock alert lock: %v", err)
		return
	}
	if !acquired {
		return // already alerted today
	}

	low, err := ledger.LowStock(ctx)
	if err != nil {
		log.Printf("stock alert query: %v", err)
		return
	}
	if len(low) == 0 {
		return
	}

	payload := events.StockAlertPayload{}
	for _, p := range low {
		payload.Products = append(payload.Products, events.LowStockProduct{
			ProductID: p.ID, Name: p.Name, Stock: p.Stock,
		})
	}
	env := events.NewEnvelope(events.EventStockAlert, a.Service, "", kafkax.MustMarshal(payload))
	a.Producer.Publish([]byte(day), kafkax.MustMarshal(env), events.Headers(events.EventStockAlert)...)
	log.Printf("low stock alert published: %d products", len(low))
}

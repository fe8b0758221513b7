package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
	kafkax "github.com/ahmedharati210-cyber/life-accessories-backend/internal/kafka"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/redisx"
)

// Consumer turns notification jobs from Kafka into dispatcher calls.
// Delivery is best-effort: a failed channel is logged and the offset still
// commits, messages are never retried.
type Consumer struct {
	Dispatcher *Dispatcher
	Redis      *redis.Client
	Service    string
}

// Handle is plugged into the Kafka consumer worker pool.
func (c *Consumer) Handle(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup on event_id so a redelivered job does not re-send
	dkey := fmt.Sprintf(redisx.KeyDedup, c.Service, env.EventID)
	if exists, _ := redisx.Exists(ctx, c.Redis, dkey); exists {
		return nil
	}
	_ = c.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	res, err := c.dispatch(ctx, env)
	if err != nil {
		log.Printf("notification %s order=%s: %v", env.EventType, env.CorrelationID, err)
		return nil
	}
	if !res.Success {
		log.Printf("notification %s order=%s failed: %s",
			env.EventType, env.CorrelationID, strings.Join(res.Errors, "; "))
	}
	return nil
}

func (c *Consumer) dispatch(ctx context.Context, env events.Envelope) (Result, error) {
	switch env.EventType {
	case events.EventOrderConfirmation:
		p, err := kafkax.UnwrapPayload[events.OrderPlacedPayload](env.Payload)
		if err != nil {
			return Result{}, err
		}
		return c.Dispatcher.SendConfirmation(ctx, p), nil

	case events.EventAdminAlert:
		p, err := kafkax.UnwrapPayload[events.OrderPlacedPayload](env.Payload)
		if err != nil {
			return Result{}, err
		}
		return c.Dispatcher.SendAdminAlert(ctx, p), nil

	case events.EventStatusUpdate:
		p, err := kafkax.UnwrapPayload[events.StatusUpdatePayload](env.Payload)
		if err != nil {
			return Result{}, err
		}
		return c.Dispatcher.SendStatusUpdate(ctx, p), nil

	case events.EventStockAlert:
		p, err := kafkax.UnwrapPayload[events.StockAlertPayload](env.Payload)
		if err != nil {
			return Result{}, err
		}
		return c.Dispatcher.SendStockAlert(ctx, p), nil

	default:
		return Result{Success: true}, nil // ignore unknown kinds
	}
}

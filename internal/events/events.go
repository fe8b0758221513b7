// Package events defines the notification job contract carried over Kafka
// between the API and the notifier.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	EventOrderConfirmation = "OrderConfirmation"
	EventAdminAlert        = "AdminAlert"
	EventStatusUpdate      = "StatusUpdate"
	EventStockAlert        = "StockAlert"
)

const TopicNotifications = "shop.notifications"

// Partition key = order_id so all jobs for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// Publisher is the non-blocking publish side; satisfied by kafka.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

func NewEnvelope(eventType, producer, correlationID string, payload json.RawMessage) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       payload,
	}
}

func Headers(eventType string) []kafkago.Header {
	return []kafkago.Header{
		{Key: "x-event-type", Value: []byte(eventType)},
		{Key: "x-event-version", Value: []byte("1")},
	}
}

// ---- Payload types per event ----

type ItemSnapshot struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type OrderPlacedPayload struct {
	OrderID       string         `json:"order_id"`
	OrderNumber   string         `json:"order_number"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	CustomerEmail string         `json:"customer_email,omitempty"`
	AreaName      string         `json:"area_name"`
	Items         []ItemSnapshot `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	DeliveryFee   float64        `json:"delivery_fee"`
	Total         float64        `json:"total"`
	IPAddress     string         `json:"ip_address,omitempty"`
	RiskScore     int            `json:"risk_score"`
}

type StatusUpdatePayload struct {
	OrderID           string `json:"order_id"`
	OrderNumber       string `json:"order_number"`
	CustomerName      string `json:"customer_name"`
	CustomerPhone     string `json:"customer_phone"`
	CustomerEmail     string `json:"customer_email,omitempty"`
	Status            string `json:"status"`
	StatusText        string `json:"status_text"`
	TrackingInfo      string `json:"tracking_info,omitempty"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

type LowStockProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

type StockAlertPayload struct {
	Products []LowStockProduct `json:"products"`
}

package orders

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
	kafkax "github.com/ahmedharati210-cyber/life-accessories-backend/internal/kafka"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/risk"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/shipping"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/stock"
)

const (
	totalTolerance = 0.01

	ipWindow    = 24 * time.Hour
	phoneWindow = 7 * 24 * time.Hour

	orderNumberAttempts = 5
)

var phonePattern = regexp.MustCompile(`^09\d{8}$`)

type SubmitItem struct {
	ID        string  `json:"id"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
}

type SubmitRequest struct {
	Items       []SubmitItem `json:"items"`
	Customer    Customer     `json:"customer"`
	Subtotal    float64      `json:"subtotal"`
	DeliveryFee float64      `json:"deliveryFee"`
	Total       float64      `json:"total"`
}

// RejectError carries the user-facing message for a 4xx-equivalent
// rejection. Anything else that Submit returns maps to a generic 5xx.
type RejectError struct {
	Msg     string
	Details any
}

func (e *RejectError) Error() string { return e.Msg }

func reject(msg string) *RejectError { return &RejectError{Msg: msg} }

type OrderStore interface {
	InsertOrder(ctx context.Context, o *Order) error
	CountOrdersFromIP(ctx context.Context, ip string, window time.Duration) (int, error)
	CountDistinctIPsForPhone(ctx context.Context, phone string, window time.Duration) (int, error)
}

type ProductSource interface {
	ProductsByID(ctx context.Context, ids []string) (map[string]stock.Product, error)
}

type AreaSource interface {
	Area(id string) (shipping.Area, bool)
}

// Intake validates an incoming order request, checks stock, scores risk,
// persists the order, and hands notification jobs to the producer. The
// response never waits on notification delivery.
type Intake struct {
	Store    OrderStore
	Products ProductSource
	Areas    AreaSource
	Producer events.Publisher
	Service  string
}

// Submit runs the whole intake pipeline and returns the persisted order.
func (in *Intake) Submit(ctx context.Context, req SubmitRequest, meta RequestMeta) (*Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	area, ok := in.Areas.Area(req.Customer.AreaID)
	if !ok || !area.IsAvailable {
		return nil, reject(MsgInvalidArea)
	}

	ids := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ID)
	}
	products, err := in.Products.ProductsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	avail := stock.CheckAvailability(products, toItemQuantities(req.Items))
	if !avail.Valid {
		return nil, &RejectError{Msg: shortageMessage(avail.Unavailable), Details: avail.Unavailable}
	}

	assessment := in.assess(ctx, req, meta)
	if assessment.Blocked {
		// generic message outward; real reason stays in the logs
		log.Printf("order blocked: ip=%s score=%d reasons=%q",
			meta.IP, assessment.Score, strings.Join(assessment.Reasons, "; "))
		return nil, reject(MsgSecurityRejected)
	}
	if assessment.NeedsReview() {
		log.Printf("high-risk order flagged for review: ip=%s score=%d reasons=%q",
			meta.IP, assessment.Score, strings.Join(assessment.Reasons, "; "))
	}

	order := buildOrder(req, meta, products, assessment)
	if err := in.insertWithFreshNumber(ctx, order); err != nil {
		return nil, err
	}

	in.publishPlaced(order, area)
	return order, nil
}

// assess gathers the historical signals and runs the pure scorer. Signal
// lookups degrade to zero on failure: a broken fraud heuristic must not take
// order intake down with it.
func (in *Intake) assess(ctx context.Context, req SubmitRequest, meta RequestMeta) risk.Assessment {
	s := risk.Signals{
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Referer:   meta.Referer,
		Phone:     req.Customer.Phone,
		Total:     req.Total,
	}
	var err error
	if s.OrdersFromIP24h, err = in.Store.CountOrdersFromIP(ctx, meta.IP, ipWindow); err != nil {
		log.Printf("risk signal orders-by-ip: %v", err)
	}
	if s.DistinctIPsForPhone7d, err = in.Store.CountDistinctIPsForPhone(ctx, req.Customer.Phone, phoneWindow); err != nil {
		log.Printf("risk signal ips-by-phone: %v", err)
	}
	return risk.Score(s)
}

func (in *Intake) insertWithFreshNumber(ctx context.Context, o *Order) error {
	var err error
	for i := 0; i < orderNumberAttempts; i++ {
		o.OrderNumber = NewOrderNumber()
		err = in.Store.InsertOrder(ctx, o)
		if err != ErrOrderNumberTaken {
			return err
		}
	}
	return fmt.Errorf("exhausted order number attempts: %w", err)
}

func (in *Intake) publishPlaced(o *Order, area shipping.Area) {
	payload := events.OrderPlacedPayload{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.Customer.Name,
		CustomerPhone: o.Customer.Phone,
		CustomerEmail: o.Customer.Email,
		AreaName:      area.Name,
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		IPAddress:     o.IPAddress,
		RiskScore:     o.RiskScore,
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, events.ItemSnapshot{
			ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity,
			UnitPrice: it.UnitPrice, LineTotal: it.LineTotal,
		})
	}
	raw := kafkax.MustMarshal(payload)

	for _, kind := range []string{events.EventOrderConfirmation, events.EventAdminAlert} {
		env := events.NewEnvelope(kind, in.Service, o.ID, raw)
		in.Producer.Publish(events.PartitionKey(o.ID), kafkax.MustMarshal(env), events.Headers(kind)...)
	}
}

func validateRequest(req SubmitRequest) *RejectError {
	if len(req.Items) == 0 {
		return reject(MsgEmptyItems)
	}
	c := req.Customer
	if c.Name == "" || c.Phone == "" || c.AreaID == "" {
		return reject(MsgMissingCustomer)
	}
	if !phonePattern.MatchString(c.Phone) {
		return reject(MsgInvalidPhone)
	}
	if req.Subtotal <= 0 {
		return reject(MsgInvalidSubtotal)
	}
	if req.DeliveryFee < 0 {
		return reject(MsgInvalidFee)
	}
	if req.Total <= 0 || math.Abs(req.Total-(req.Subtotal+req.DeliveryFee)) > totalTolerance {
		return reject(MsgTotalMismatch)
	}
	return nil
}

func toItemQuantities(items []SubmitItem) []stock.ItemQuantity {
	out := make([]stock.ItemQuantity, 0, len(items))
	for _, it := range items {
		out = append(out, stock.ItemQuantity{ProductID: it.ID, Quantity: it.Qty})
	}
	return out
}

func shortageMessage(shortages []stock.Shortage) string {
	parts := make([]string, 0, len(shortages))
	for _, s := range shortages {
		parts = append(parts, fmt.Sprintf("%s (مطلوب %d، متوفر %d)", s.Name, s.Requested, s.Available))
	}
	return MsgStockPrefix + strings.Join(parts, "، ")
}

// buildOrder snapshots item names and unit prices from the current product
// rows; they are never re-derived after this point.
func buildOrder(req SubmitRequest, meta RequestMeta, products map[string]stock.Product, a risk.Assessment) *Order {
	o := &Order{
		ID:          uuid.NewString(),
		Customer:    req.Customer,
		Subtotal:    req.Subtotal,
		DeliveryFee: req.DeliveryFee,
		Total:       req.Total,
		Status:      StatusPending,
		IPAddress:   meta.IP,
		UserAgent:   meta.UserAgent,
		Referer:     meta.Referer,
		RiskScore:   a.Score,
		RiskReason:  strings.Join(a.Reasons, "; "),
	}
	for _, it := range req.Items {
		p := products[it.ID]
		o.Items = append(o.Items, Item{
			ProductID: it.ID,
			Name:      p.Name,
			Quantity:  it.Qty,
			UnitPrice: p.Price,
			LineTotal: p.Price * float64(it.Qty),
		})
	}
	return o
}

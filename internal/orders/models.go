package orders

import "time"

type Customer struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	AreaID      string `json:"area"`
	AddressNote string `json:"address_note,omitempty"`
}

// Item is a line item with name and unit price snapshotted at order time;
// later product edits never alter historical orders.
type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type Order struct {
	ID          string   `json:"id"`
	OrderNumber string   `json:"order_number"`
	Items       []Item   `json:"items"`
	Customer    Customer `json:"customer"`

	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`

	Status Status `json:"status"`

	IPAddress  string `json:"ip_address,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	Referer    string `json:"referer,omitempty"`
	RiskScore  int    `json:"risk_score"`
	RiskReason string `json:"risk_reason,omitempty"`

	TrackingInfo      string `json:"tracking_info,omitempty"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
	Notes             string `json:"notes,omitempty"`

	// StockPending marks a confirmed order whose stock reconciliation
	// failed and awaits operator attention.
	StockPending bool `json:"stock_pending,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequestMeta is the security/audit context captured from the HTTP request.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referer   string
}

// StatusProjection is what GET /orders/{id}/status exposes.
type StatusProjection struct {
	ID                string    `json:"id"`
	OrderNumber       string    `json:"order_number"`
	Status            Status    `json:"status"`
	StatusText        string    `json:"status_text"`
	TrackingInfo      string    `json:"tracking_info,omitempty"`
	EstimatedDelivery string    `json:"estimated_delivery,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

package redisx

import "time"

const (
	// Cache of the order status projection: order_status:{order_id}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing on the notifier: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Daily low-stock alert lock: stock_alert_sent:{YYYY-MM-DD}
	// One admin alert per calendar day across the whole catalog.
	KeyStockAlertDay = "stock_alert_sent:%s"
)

var (
	TTLStatusCache   = 5 * time.Minute
	TTLDedup         = 48 * time.Hour
	TTLStockAlertDay = 24 * time.Hour
)

package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var statusText = map[Status]string{
	StatusPending:   "قيد الانتظار",
	StatusConfirmed: "تم تأكيد الطلب",
	StatusShipped:   "تم شحن الطلب",
	StatusDelivered: "تم توصيل الطلب",
	StatusCancelled: "تم إلغاء الطلب",
}

func (s Status) Valid() bool {
	_, ok := statusText[s]
	return ok
}

// Text returns the customer-facing Arabic display text for the status.
func (s Status) Text() string {
	return statusText[s]
}

// StockDelta reports how a prev->next transition reconciles stock:
// +1 means restore each line quantity, -1 means decrement, 0 means no touch.
// Re-confirming an already-confirmed order is a no-op so stock is never
// decremented twice.
func StockDelta(prev, next Status) int {
	switch {
	case next == StatusConfirmed && prev != StatusConfirmed:
		return -1
	case next == StatusCancelled && prev == StatusConfirmed:
		return +1
	default:
		return 0
	}
}

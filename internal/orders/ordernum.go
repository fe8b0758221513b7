package orders

import (
	"fmt"
	"math/rand/v2"
)

// NewOrderNumber draws the short human-readable number: "#" + 4 digits in
// 1000-9999. Uniqueness is enforced by the orders.order_number index; the
// intake retries on collision.
func NewOrderNumber() string {
	return fmt.Sprintf("#%d", 1000+rand.IntN(9000))
}

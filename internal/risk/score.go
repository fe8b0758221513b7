// Package risk computes the order fraud/abuse score. Score is a pure
// function: all historical lookups happen at the caller, so the rules stay
// unit-testable without a database.
package risk

import "strings"

const (
	// BlockThreshold is a hard cutoff: at or above it the order never
	// reaches persistence.
	BlockThreshold = 50
	// ReviewThreshold flags the order for manual review without blocking.
	ReviewThreshold = 30

	highValueTotal = 1000
)

var botSignatures = []string{
	"bot", "crawler", "spider", "scraper", "curl", "wget", "python", "java",
}

// Signals is everything the scorer looks at for one request.
type Signals struct {
	IP        string
	UserAgent string
	Referer   string
	Phone     string
	Total     float64

	// Trailing-window lookups, read from persisted orders by the caller.
	OrdersFromIP24h       int
	DistinctIPsForPhone7d int
}

type Assessment struct {
	Score   int
	Blocked bool
	Reasons []string
}

// NeedsReview reports whether the order should be flagged for manual review
// (elevated but below the block cutoff).
func (a Assessment) NeedsReview() bool {
	return !a.Blocked && a.Score >= ReviewThreshold
}

// Score applies the additive heuristic. Rules are independent; each one that
// fires adds its points and its reason.
func Score(s Signals) Assessment {
	var a Assessment

	switch {
	case s.OrdersFromIP24h >= 5:
		a.add(40, "5+ orders from same IP in 24h")
	case s.OrdersFromIP24h >= 3:
		a.add(20, "3+ orders from same IP in 24h")
	}

	ua := strings.ToLower(s.UserAgent)
	if ua == "" {
		a.add(15, "missing user agent")
	} else if sig, ok := matchSignature(ua); ok {
		a.add(30, "automation signature in user agent: "+sig)
	}

	if s.DistinctIPsForPhone7d > 3 {
		a.add(25, "phone used from more than 3 IPs in 7d")
	}

	if s.Total > highValueTotal {
		a.add(10, "high order total")
	}

	if s.Referer == "" {
		a.add(5, "missing referer")
	}

	if a.Score > 100 {
		a.Score = 100
	}
	a.Blocked = a.Score >= BlockThreshold
	return a
}

func (a *Assessment) add(points int, reason string) {
	a.Score += points
	a.Reasons = append(a.Reasons, reason)
}

func matchSignature(lowerUA string) (string, bool) {
	for _, sig := range botSignatures {
		if strings.Contains(lowerUA, sig) {
			return sig, true
		}
	}
	return "", false
}

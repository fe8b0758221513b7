package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const browserUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

func cleanSignals() Signals {
	return Signals{
		IP:        "41.252.10.10",
		UserAgent: browserUA,
		Referer:   "https://life-accessories.ly/checkout",
		Phone:     "0911234567",
		Total:     110,
	}
}

func TestCleanRequestScoresZero(t *testing.T) {
	a := Score(cleanSignals())
	assert.Equal(t, 0, a.Score)
	assert.False(t, a.Blocked)
	assert.False(t, a.NeedsReview())
	assert.Empty(t, a.Reasons)
}

func TestIPVelocityTiers(t *testing.T) {
	s := cleanSignals()

	s.OrdersFromIP24h = 2
	assert.Equal(t, 0, Score(s).Score)

	s.OrdersFromIP24h = 3
	assert.Equal(t, 20, Score(s).Score)

	s.OrdersFromIP24h = 5
	assert.Equal(t, 40, Score(s).Score)
}

func TestUserAgentRules(t *testing.T) {
	s := cleanSignals()

	s.UserAgent = ""
	a := Score(s)
	assert.Equal(t, 15, a.Score)

	for _, ua := range []string{"curl/8.5.0", "python-requests/2.31", "Googlebot/2.1", "Wget/1.21"} {
		s.UserAgent = ua
		a = Score(s)
		assert.Equal(t, 30, a.Score, "ua=%s", ua)
	}
}

func TestPhoneFromManyIPs(t *testing.T) {
	s := cleanSignals()
	s.DistinctIPsForPhone7d = 3
	assert.Equal(t, 0, Score(s).Score)

	s.DistinctIPsForPhone7d = 4
	assert.Equal(t, 25, Score(s).Score)
}

func TestHighTotalAndMissingReferer(t *testing.T) {
	s := cleanSignals()
	s.Total = 1500
	assert.Equal(t, 10, Score(s).Score)

	s.Referer = ""
	assert.Equal(t, 15, Score(s).Score)
}

func TestBlockThreshold(t *testing.T) {
	s := cleanSignals()
	s.OrdersFromIP24h = 5 // +40
	s.Referer = ""        // +5
	a := Score(s)
	assert.Equal(t, 45, a.Score)
	assert.False(t, a.Blocked)
	assert.True(t, a.NeedsReview())

	s.Total = 2000 // +10 -> 55
	a = Score(s)
	assert.Equal(t, 55, a.Score)
	assert.True(t, a.Blocked)
}

// Adding any one triggering condition never lowers the score.
func TestMonotonicity(t *testing.T) {
	base := cleanSignals()
	base.OrdersFromIP24h = 3
	before := Score(base).Score

	stronger := []Signals{base, base, base, base}
	stronger[0].OrdersFromIP24h = 5
	stronger[1].UserAgent = "curl/8.5.0"
	stronger[2].DistinctIPsForPhone7d = 10
	stronger[3].Total = 5000

	for i, s := range stronger {
		assert.GreaterOrEqual(t, Score(s).Score, before, "case %d", i)
	}
}

func TestScoreCappedAt100(t *testing.T) {
	a := Score(Signals{
		UserAgent:             "curl/8.5.0",
		OrdersFromIP24h:       9,
		DistinctIPsForPhone7d: 9,
		Total:                 5000,
	})
	assert.Equal(t, 100, a.Score)
	assert.True(t, a.Blocked)
}

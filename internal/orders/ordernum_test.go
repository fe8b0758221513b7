package orders

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderNumberFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		n := NewOrderNumber()
		require.Regexp(t, `^#\d{4}$`, n)

		v, err := strconv.Atoi(n[1:])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 1000)
		assert.LessOrEqual(t, v, 9999)
	}
}

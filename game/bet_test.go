package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckBet(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		bet    float64
		tokens float64
		valid  bool
	}{
		{name: "valid bet", bet: 40, tokens: 100, valid: true},
		{name: "exact balance", bet: 100, tokens: 100, valid: true},
		{name: "fractional bet", bet: 0.5, tokens: 1, valid: true},
		{name: "zero bet", bet: 0, tokens: 100, valid: false},
		{name: "negative bet", bet: -5, tokens: 100, valid: false},
		{name: "nan bet", bet: math.NaN(), tokens: 100, valid: false},
		{name: "positive infinity", bet: math.Inf(1), tokens: 100, valid: false},
		{name: "negative infinity", bet: math.Inf(-1), tokens: 100, valid: false},
		{name: "exceeds balance", bet: 101, tokens: 100, valid: false},
		{name: "zero balance", bet: 1, tokens: 0, valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckBet(tc.bet, tc.tokens)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidBet)
			}
		})
	}
}

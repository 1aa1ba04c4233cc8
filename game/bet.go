package game

import (
	"fmt"
	"math"
)

// CheckBet validates a wager amount against the player's available token
// balance. It has no side effects and must be called before any ledger debit.
func CheckBet(bet, tokens float64) error {
	if math.IsNaN(bet) || math.IsInf(bet, 0) {
		return fmt.Errorf("%w: bet is not a number", ErrInvalidBet)
	}
	if bet <= 0 {
		return fmt.Errorf("%w: bet is not a valid amount", ErrInvalidBet)
	}
	if tokens < bet {
		return fmt.Errorf("%w: not enough tokens", ErrInvalidBet)
	}
	return nil
}

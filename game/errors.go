package game

import "errors"

// Validation failures below are declined silently towards the client: no error
// event, no broadcast, no state change. Only ErrRateLimited surfaces, as a
// "blocked" event. Callers log the reason instead of forwarding it.
var (
	ErrInvalidBet          = errors.New("invalid bet")
	ErrGameNotFound        = errors.New("game not found")
	ErrGameFull            = errors.New("game full")
	ErrSelfJoinDenied      = errors.New("self join denied")
	ErrCreateLimitExceeded = errors.New("create limit exceeded")
	ErrRateLimited         = errors.New("rate limited")
)

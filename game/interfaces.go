package game

import (
	"context"

	"github.com/HermesDE/caseclickerWS/domain"
)

// Ledger is the persisted balance gateway. Increments must be applied
// atomically at the storage layer and must not let tokens go negative.
type Ledger interface {
	FindStats(ctx context.Context, userId string) (domain.UserStats, error)
	EnsureStats(ctx context.Context, userId string) error
	Increment(ctx context.Context, userId, field string, delta float64) (domain.UserStats, error)
}

// HandshakeVerifier turns a signed session token into a connection identity.
// A token that fails verification is rejected at handshake, before any game
// logic runs.
type HandshakeVerifier interface {
	Verify(token string) (PlayerRef, error)
}

// Broadcaster delivers outbound events to every connected client.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// Resolver draws the winning slot for a full coinflip game.
type Resolver interface {
	Resolve(g *CoinflipGame) WinnerSlot
}

// BotNamer supplies synthetic guest identities on demand.
type BotNamer interface {
	Next() PlayerRef
}

// NetworkSession abstracts one client connection for the pumps.
type NetworkSession interface {
	Close(reason string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

package game

import (
	"math/rand"
	"sync"
	"time"
)

// CoinFlipper draws winners from a uniform source. Not cryptographic; good
// enough for a casual game, and swappable behind Resolver for tests.
type CoinFlipper struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewCoinFlipper() *CoinFlipper {
	return &CoinFlipper{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func NewSeededCoinFlipper(seed int64) *CoinFlipper {
	return &CoinFlipper{rng: rand.New(rand.NewSource(seed))}
}

// Resolve gives each side exactly probability 0.5.
func (c *CoinFlipper) Resolve(g *CoinflipGame) WinnerSlot {
	c.mu.Lock()
	v := c.rng.Float64()
	c.mu.Unlock()

	if v < 0.5 {
		return WinnerHost
	}
	return WinnerGuest
}

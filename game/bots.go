package game

import (
	"fmt"
	"math/rand"
	"sync"
)

var botNames = []string{
	"CrateCrusher",
	"TokenTitan",
	"LuckyLasse",
	"SkinSniper",
	"FlipFiend",
	"CaseKing",
	"PixelPirat",
	"ClickerClaus",
	"BetBarbara",
	"GambleGreta",
}

// RandomBotNamer hands out synthetic guest identities. Bots carry no user id
// and therefore never touch the ledger.
type RandomBotNamer struct {
	mu  sync.Mutex
	rng *rand.Rand
	n   int
}

func NewRandomBotNamer(seed int64) *RandomBotNamer {
	return &RandomBotNamer{rng: rand.New(rand.NewSource(seed))}
}

func (b *RandomBotNamer) Next() PlayerRef {
	b.mu.Lock()
	name := botNames[b.rng.Intn(len(botNames))]
	b.n++
	avatar := fmt.Sprintf("/bots/avatar-%d.png", b.n%8)
	b.mu.Unlock()

	return PlayerRef{Name: name, Image: avatar, Bot: true}
}

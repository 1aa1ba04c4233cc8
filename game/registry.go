package game

import "sync"

// Registry is the in-memory collection of active games. It is the sole holder
// of a game's existence; removal is the game's destruction event. Listing
// preserves insertion order so the lobby stays stable oldest-first.
type Registry struct {
	mu    sync.RWMutex
	games map[string]Game
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]Game),
	}
}

// Create inserts a freshly generated game. Ids are uuids minted right before
// insertion, so a collision is an invariant violation, not an expected error.
func (r *Registry) Create(g Game) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[g.ID()]; exists {
		panic("registry: duplicate game id " + g.ID())
	}
	r.games[g.ID()] = g
	r.order = append(r.order, g.ID())
}

func (r *Registry) Find(id string) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

// ListPublic returns a consistent snapshot of all non-private games in
// insertion order.
func (r *Registry) ListPublic() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Game, 0, len(r.order))
	for _, id := range r.order {
		g, ok := r.games[id]
		if !ok || g.Private() {
			continue
		}
		list = append(list, g)
	}
	return list
}

// Remove deletes a game. Removing an absent id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[id]; !ok {
		return
	}
	delete(r.games, id)
	for i, gid := range r.order {
		if gid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// CountWaitingHostedBy reports how many waiting coinflip games the given user
// currently hosts. Callers use it together with their own pending-create
// bookkeeping to enforce the host cap. Games are snapshotted before their
// per-game locks are taken; cancel and removal take the locks in the other
// order and would deadlock otherwise.
func (r *Registry) CountWaitingHostedBy(userId string) int {
	r.mu.RLock()
	coinflips := make([]*CoinflipGame, 0, len(r.games))
	for _, g := range r.games {
		if cf, ok := g.(*CoinflipGame); ok {
			coinflips = append(coinflips, cf)
		}
	}
	r.mu.RUnlock()

	count := 0
	for _, cf := range coinflips {
		cf.mu.Lock()
		if !cf.removed && cf.Status == StatusWaiting && cf.Host.Id == userId {
			count++
		}
		cf.mu.Unlock()
	}
	return count
}

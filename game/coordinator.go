package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultGracePeriod keeps a settled game visible before it is purged.
	DefaultGracePeriod = 8 * time.Second
	// DefaultMaxHostedGames caps concurrently waiting games per host.
	DefaultMaxHostedGames = 3
)

// Ledger field names the coordinator increments.
const (
	FieldMoney      = "money"
	FieldTokens     = "tokens"
	FieldGamesWon   = "gamesWon"
	FieldGamesLost  = "gamesLost"
	FieldTokensWon  = "tokensWon"
	FieldTokensLost = "tokensLost"
)

// Coordinator owns the lifecycle of every wagering game: escrow, fill,
// resolution, payout and expiry. It is the only component that mutates a
// game's status, participants or winner.
type Coordinator struct {
	registry  *Registry
	ledger    Ledger
	broadcast Broadcaster
	resolver  Resolver
	bots      BotNamer

	grace     time.Duration
	maxHosted int

	mu      sync.Mutex
	pending map[string]int // in-flight creates per host, so the cap holds across ledger round-trips
}

func NewCoordinator(registry *Registry, ledger Ledger, broadcast Broadcaster, resolver Resolver, bots BotNamer) *Coordinator {
	return &Coordinator{
		registry:  registry,
		ledger:    ledger,
		broadcast: broadcast,
		resolver:  resolver,
		bots:      bots,
		grace:     DefaultGracePeriod,
		maxHosted: DefaultMaxHostedGames,
		pending:   make(map[string]int),
	}
}

// SetGracePeriod overrides the post-resolution visibility window.
func (c *Coordinator) SetGracePeriod(d time.Duration) {
	c.grace = d
}

// ListGames returns the public lobby snapshot, oldest first. Coinflips are
// copied under their per-game lock so a concurrent join can never tear a
// listed entry; case battles are immutable after creation and listed as-is.
func (c *Coordinator) ListGames() []Game {
	games := c.registry.ListPublic()
	list := make([]Game, 0, len(games))
	for _, g := range games {
		if cf, ok := g.(*CoinflipGame); ok {
			list = append(list, cf.Snapshot())
			continue
		}
		list = append(list, g)
	}
	return list
}

// CreateCoinflip escrows the host's stake and opens a waiting game. Any
// validation failure declines silently: the stake is untouched, nothing is
// broadcast and no registry entry appears.
func (c *Coordinator) CreateCoinflip(ctx context.Context, host PlayerRef, bet float64) (*CoinflipGame, error) {
	stats, err := c.ledger.FindStats(ctx, host.Id)
	if err != nil {
		return nil, fmt.Errorf("create coinflip: %w", err)
	}

	if err := CheckBet(bet, stats.Tokens); err != nil {
		log.Debug().Str("userId", host.Id).Float64("bet", bet).Err(err).Msg("createGame declined")
		return nil, err
	}

	if err := c.reserveCreate(host.Id); err != nil {
		log.Debug().Str("userId", host.Id).Err(err).Msg("createGame declined")
		return nil, err
	}
	defer c.releaseCreate(host.Id)

	// Escrow before the game exists. If the debit fails nothing was mutated.
	if _, err := c.ledger.Increment(ctx, host.Id, FieldTokens, -bet); err != nil {
		return nil, fmt.Errorf("escrow host stake: %w", err)
	}

	game := &CoinflipGame{
		Id:      uuid.NewString(),
		Host:    host,
		Bet:     bet,
		Status:  StatusWaiting,
		Created: time.Now(),
	}
	c.registry.Create(game)
	// The game is joinable the instant it is registered, so the announcement
	// carries a snapshot rather than the live object.
	c.broadcast.Broadcast(EventNewGame, game.Snapshot())
	return game, nil
}

func (c *Coordinator) reserveCreate(hostId string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	open := c.registry.CountWaitingHostedBy(hostId) + c.pending[hostId]
	if open >= c.maxHosted {
		return ErrCreateLimitExceeded
	}
	c.pending[hostId]++
	return nil
}

func (c *Coordinator) releaseCreate(hostId string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending[hostId]--
	if c.pending[hostId] <= 0 {
		delete(c.pending, hostId)
	}
}

// CancelGame refunds the host's stake and destroys a still-waiting game.
// Non-host requesters and already-filled games decline silently.
func (c *Coordinator) CancelGame(ctx context.Context, id, requesterId string) error {
	g, ok := c.registry.Find(id)
	if !ok {
		log.Debug().Str("gameId", id).Msg("deleteGame declined: not found")
		return ErrGameNotFound
	}
	cf, ok := g.(*CoinflipGame)
	if !ok {
		return ErrGameNotFound
	}

	cf.mu.Lock()
	defer cf.mu.Unlock()

	if cf.removed || cf.Status != StatusWaiting {
		return ErrGameNotFound
	}
	if cf.Host.Id != requesterId {
		log.Debug().Str("gameId", id).Str("userId", requesterId).Msg("deleteGame declined: not host")
		return ErrGameNotFound
	}

	// Refund first. If the ledger call fails the game stays intact.
	if _, err := c.ledger.Increment(ctx, requesterId, FieldTokens, cf.Bet); err != nil {
		return fmt.Errorf("refund host stake: %w", err)
	}

	cf.removed = true
	c.registry.Remove(id)
	c.broadcast.Broadcast(EventDeleteGame, cf.snapshotLocked())
	return nil
}

// JoinCoinflip fills the guest slot, escrows the guest's stake when human,
// resolves the flip and settles the pot. Repeated joins on a full game are
// no-ops.
func (c *Coordinator) JoinCoinflip(ctx context.Context, id string, joiner PlayerRef) (*CoinflipGame, error) {
	g, ok := c.registry.Find(id)
	if !ok {
		log.Debug().Str("gameId", id).Msg("joinGame declined: not found")
		return nil, ErrGameNotFound
	}
	cf, ok := g.(*CoinflipGame)
	if !ok {
		return nil, ErrGameNotFound
	}

	cf.mu.Lock()
	defer cf.mu.Unlock()

	if cf.removed {
		return nil, ErrGameNotFound
	}
	if cf.Status != StatusWaiting || cf.Guest != nil {
		log.Debug().Str("gameId", id).Msg("joinGame declined: full")
		return nil, ErrGameFull
	}
	if !joiner.IsBot() && joiner.Id == cf.Host.Id {
		log.Debug().Str("gameId", id).Str("userId", joiner.Id).Msg("joinGame declined: self join")
		return nil, ErrSelfJoinDenied
	}

	if !joiner.IsBot() {
		stats, err := c.ledger.FindStats(ctx, joiner.Id)
		if err != nil {
			return nil, fmt.Errorf("join coinflip: %w", err)
		}
		if err := CheckBet(cf.Bet, stats.Tokens); err != nil {
			log.Debug().Str("gameId", id).Str("userId", joiner.Id).Err(err).Msg("joinGame declined")
			return nil, err
		}
		// Escrow the guest stake; on failure the game stays waiting.
		if _, err := c.ledger.Increment(ctx, joiner.Id, FieldTokens, -cf.Bet); err != nil {
			return nil, fmt.Errorf("escrow guest stake: %w", err)
		}
	}

	cf.Guest = &joiner
	cf.Status = StatusFull

	winner := c.resolver.Resolve(cf)
	cf.Winner = &winner
	c.settle(ctx, cf, winner)

	c.broadcast.Broadcast(EventJoinedGame, cf.snapshotLocked())
	c.scheduleRemoval(cf)
	return cf, nil
}

// JoinCoinflipBot fills the guest slot with a synthetic participant.
func (c *Coordinator) JoinCoinflipBot(ctx context.Context, id string) (*CoinflipGame, error) {
	return c.JoinCoinflip(ctx, id, c.bots.Next())
}

// settle pays the full pot to the winner and records win/loss statistics for
// the human participants. Tokens paid out always equal tokens escrowed. The
// game is already committed to resolved here, so ledger faults are logged
// rather than unwound.
func (c *Coordinator) settle(ctx context.Context, cf *CoinflipGame, winner WinnerSlot) {
	pot := cf.Bet * 2

	winnerRef, loserRef := cf.Host, *cf.Guest
	if winner == WinnerGuest {
		winnerRef, loserRef = loserRef, winnerRef
	}

	if !winnerRef.IsBot() {
		for field, delta := range map[string]float64{
			FieldTokens:    pot,
			FieldTokensWon: cf.Bet,
			FieldGamesWon:  1,
		} {
			if _, err := c.ledger.Increment(ctx, winnerRef.Id, field, delta); err != nil {
				log.Error().Str("gameId", cf.Id).Str("userId", winnerRef.Id).Str("field", field).Err(err).Msg("payout failed")
			}
		}
	}

	if !loserRef.IsBot() {
		// The loser already paid at escrow time; only stats change.
		for field, delta := range map[string]float64{
			FieldTokensLost: cf.Bet,
			FieldGamesLost:  1,
		} {
			if _, err := c.ledger.Increment(ctx, loserRef.Id, field, delta); err != nil {
				log.Error().Str("gameId", cf.Id).Str("userId", loserRef.Id).Str("field", field).Err(err).Msg("loss stats failed")
			}
		}
	}
}

// scheduleRemoval purges a resolved game after the grace period and tells
// clients to drop it. Fire-and-forget: if the process dies first the game was
// already settled and immutable.
func (c *Coordinator) scheduleRemoval(cf *CoinflipGame) {
	time.AfterFunc(c.grace, func() {
		cf.mu.Lock()
		cf.removed = true
		snap := cf.snapshotLocked()
		cf.mu.Unlock()

		c.registry.Remove(cf.Id)
		c.broadcast.Broadcast(EventDeleteGame, snap)
	})
}

// CreateCaseBattle constructs a case battle in waiting state with the host as
// sole roster entry. Only creation and listing exist; the battle price is not
// escrowed here. Public battles are announced to the lobby, private ones are
// only reachable by direct id.
func (c *Coordinator) CreateCaseBattle(cfg CaseBattleConfig, host PlayerRef) *CaseBattleGame {
	game := &CaseBattleGame{
		Id:          uuid.NewString(),
		Teams:       cfg.Teams,
		PlayerCount: cfg.PlayerCount,
		IsPrivate:   cfg.IsPrivate,
		BattlePrice: cfg.BattlePrice,
		Rounds:      len(cfg.Cases),
		Status:      StatusWaiting,
		Cases:       cfg.Cases,
		Players:     []PlayerRef{host},
		OpenedSkins: []string{},
		Created:     time.Now(),
	}
	c.registry.Create(game)

	if !game.IsPrivate {
		c.broadcast.Broadcast(EventNewGame, game)
	}
	return game
}

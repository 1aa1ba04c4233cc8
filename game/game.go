package game

import (
	"sync"
	"time"
)

type GameStatus string

const (
	StatusWaiting GameStatus = "waiting"
	StatusFull    GameStatus = "full"
)

type WinnerSlot string

const (
	WinnerHost  WinnerSlot = "host"
	WinnerGuest WinnerSlot = "guest"
)

// PlayerRef identifies a participant. It is taken verbatim from the verified
// connection identity; bots carry an empty Id and have no ledger account.
type PlayerRef struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Bot   bool   `json:"bot,omitempty"`
}

func (p PlayerRef) IsBot() bool {
	return p.Bot
}

// Game is what the registry holds. Both wager modes implement it.
type Game interface {
	ID() string
	Private() bool
	CreatedAt() time.Time
}

// CoinflipGame is a 1v1 coin flip. All multi-step mutations (join, cancel)
// must hold mu; the registry lock is not enough because ledger round-trips
// happen mid-transition.
type CoinflipGame struct {
	Id      string      `json:"id"`
	Host    PlayerRef   `json:"host"`
	Guest   *PlayerRef  `json:"guest"`
	Bet     float64     `json:"bet"`
	Status  GameStatus  `json:"status"`
	Winner  *WinnerSlot `json:"winner"`
	Created time.Time   `json:"created"`

	mu      sync.Mutex
	removed bool
}

func (g *CoinflipGame) ID() string           { return g.Id }
func (g *CoinflipGame) Private() bool        { return false }
func (g *CoinflipGame) CreatedAt() time.Time { return g.Created }

// snapshotLocked copies the game into a detached value that is safe to
// marshal or hand to clients while the original keeps mutating. Callers must
// hold mu.
func (g *CoinflipGame) snapshotLocked() *CoinflipGame {
	snap := &CoinflipGame{
		Id:      g.Id,
		Host:    g.Host,
		Bet:     g.Bet,
		Status:  g.Status,
		Created: g.Created,
	}
	if g.Guest != nil {
		guest := *g.Guest
		snap.Guest = &guest
	}
	if g.Winner != nil {
		winner := *g.Winner
		snap.Winner = &winner
	}
	return snap
}

// Snapshot is snapshotLocked for callers that do not hold mu.
func (g *CoinflipGame) Snapshot() *CoinflipGame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// CaseBattleGame mirrors the case battle object the lobby renders. Joining and
// round resolution are not implemented; battles only get created and listed.
type CaseBattleGame struct {
	Id          string      `json:"id"`
	Teams       int         `json:"teams"`
	PlayerCount int         `json:"playerCount"`
	IsPrivate   bool        `json:"isPrivate"`
	BattlePrice float64     `json:"battlePrice"`
	Rounds      int         `json:"rounds"`
	Status      GameStatus  `json:"status"`
	Cases       []string    `json:"cases"`
	Players     []PlayerRef `json:"players"`
	OpenedSkins []string    `json:"openedSkins"`
	Created     time.Time   `json:"created"`
}

func (g *CaseBattleGame) ID() string           { return g.Id }
func (g *CaseBattleGame) Private() bool        { return g.IsPrivate }
func (g *CaseBattleGame) CreatedAt() time.Time { return g.Created }

// CaseBattleConfig is the raw createGame payload for a case battle. The source
// performs no validation beyond numeric coercion; that behavior is kept.
type CaseBattleConfig struct {
	Teams       int      `json:"teams"`
	PlayerCount int      `json:"playerCount"`
	IsPrivate   bool     `json:"isPrivate"`
	BattlePrice float64  `json:"battlePrice"`
	Cases       []string `json:"cases"`
}

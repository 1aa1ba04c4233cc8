package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/HermesDE/caseclickerWS/domain"
	"github.com/stretchr/testify/mock"
)

// --- Ledger (testify mock, for asserting absence of calls) ---

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) FindStats(ctx context.Context, userId string) (domain.UserStats, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).(domain.UserStats), args.Error(1)
}

func (m *MockLedger) EnsureStats(ctx context.Context, userId string) error {
	args := m.Called(ctx, userId)
	return args.Error(0)
}

func (m *MockLedger) Increment(ctx context.Context, userId, field string, delta float64) (domain.UserStats, error) {
	args := m.Called(ctx, userId, field, delta)
	return args.Get(0).(domain.UserStats), args.Error(1)
}

// --- Ledger (in-memory fake, for balance arithmetic scenarios) ---

type memLedger struct {
	mu    sync.Mutex
	users map[string]*domain.UserStats
}

func newMemLedger() *memLedger {
	return &memLedger{users: make(map[string]*domain.UserStats)}
}

func (l *memLedger) seed(stats domain.UserStats) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := stats
	l.users[stats.UserId] = &s
}

func (l *memLedger) FindStats(ctx context.Context, userId string) (domain.UserStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.users[userId]
	if !ok {
		return domain.UserStats{}, domain.ErrUserNotFound
	}
	return *s, nil
}

func (l *memLedger) EnsureStats(ctx context.Context, userId string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.users[userId]; !ok {
		l.users[userId] = &domain.UserStats{UserId: userId, MoneyPerClick: 1}
	}
	return nil
}

func (l *memLedger) Increment(ctx context.Context, userId, field string, delta float64) (domain.UserStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.users[userId]
	if !ok {
		return domain.UserStats{}, domain.ErrUserNotFound
	}

	switch field {
	case FieldMoney:
		s.Money += delta
	case FieldTokens:
		if s.Tokens+delta < 0 {
			return domain.UserStats{}, domain.ErrInsufficientBalance
		}
		s.Tokens += delta
	case FieldGamesWon:
		s.GamesWon += int64(delta)
	case FieldGamesLost:
		s.GamesLost += int64(delta)
	case FieldTokensWon:
		s.TokensWon += delta
	case FieldTokensLost:
		s.TokensLost += delta
	default:
		return domain.UserStats{}, fmt.Errorf("unknown field %s", field)
	}
	return *s, nil
}

func (l *memLedger) tokens(userId string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.users[userId].Tokens
}

func (l *memLedger) stats(userId string) domain.UserStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.users[userId]
}

func (l *memLedger) has(userId string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.users[userId]
	return ok
}

// --- Broadcaster ---

type recordedEvent struct {
	event string
	data  any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(event string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{event: event, data: data})
}

func (b *recordingBroadcaster) count(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (b *recordingBroadcaster) last() (recordedEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return recordedEvent{}, false
	}
	return b.events[len(b.events)-1], true
}

// --- Resolver ---

type fixedResolver struct {
	slot WinnerSlot
}

func (r fixedResolver) Resolve(g *CoinflipGame) WinnerSlot {
	return r.slot
}

// --- BotNamer ---

type stubBots struct {
	ref PlayerRef
}

func (b stubBots) Next() PlayerRef {
	return b.ref
}

// --- HandshakeVerifier ---

type stubVerifier struct {
	token  string
	player PlayerRef
}

func (v stubVerifier) Verify(token string) (PlayerRef, error) {
	if token != v.token {
		return PlayerRef{}, domain.ErrInvalidTokenSignature
	}
	return v.player, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/HermesDE/caseclickerWS/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// statsColumns whitelists the increment targets. Field names arrive from game
// logic, never from clients, but identifiers cannot be bound parameters so
// they are mapped explicitly.
var statsColumns = map[string]string{
	"money":         "money",
	"moneyPerClick": "money_per_click",
	"tokens":        "tokens",
	"gamesWon":      "games_won",
	"gamesLost":     "games_lost",
	"tokensWon":     "tokens_won",
	"tokensLost":    "tokens_lost",
}

var ErrUnknownField = errors.New("unknown stats field")

const statsSelect = "user_id, money, money_per_click, tokens, games_won, games_lost, tokens_won, tokens_lost"

// PostgresLedger is the persisted balance gateway. All increments are single
// atomic UPDATEs; a token debit that would go negative matches no row and
// surfaces as an insufficient balance error.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresLedger(ctx context.Context, connString string) (*PostgresLedger, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresLedger{pool: pool}, nil
}

func (pl *PostgresLedger) Close() {
	pl.pool.Close()
}

func (pl *PostgresLedger) FindStats(ctx context.Context, userId string) (domain.UserStats, error) {
	row := pl.pool.QueryRow(ctx, "SELECT "+statsSelect+" FROM userstats WHERE user_id = $1", userId)

	stats, err := scanStats(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.UserStats{}, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.UserStats{}, err
		default:
			return domain.UserStats{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return stats, nil
}

// EnsureStats inserts a default row for first-time connections. Existing rows
// are left untouched.
func (pl *PostgresLedger) EnsureStats(ctx context.Context, userId string) error {
	_, err := pl.pool.Exec(ctx,
		"INSERT INTO userstats(user_id) VALUES($1) ON CONFLICT (user_id) DO NOTHING", userId)

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return nil
}

// Increment applies one atomic delta to a stats field and returns the updated
// row. Negative token deltas never drive the balance below zero: the predicate
// rejects the update instead, even under concurrent debits.
func (pl *PostgresLedger) Increment(ctx context.Context, userId, field string, delta float64) (domain.UserStats, error) {
	column, ok := statsColumns[field]
	if !ok {
		return domain.UserStats{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	query := fmt.Sprintf(
		"UPDATE userstats SET %s = %s + $2 WHERE user_id = $1 AND %s + $2 >= 0 RETURNING %s",
		column, column, column, statsSelect)

	row := pl.pool.QueryRow(ctx, query, userId, delta)

	stats, err := scanStats(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// Either the user is unknown or the delta would go negative.
			return domain.UserStats{}, domain.ErrInsufficientBalance
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.UserStats{}, err
		default:
			return domain.UserStats{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return stats, nil
}

func scanStats(row pgx.Row) (domain.UserStats, error) {
	var stats domain.UserStats
	err := row.Scan(
		&stats.UserId,
		&stats.Money,
		&stats.MoneyPerClick,
		&stats.Tokens,
		&stats.GamesWon,
		&stats.GamesLost,
		&stats.TokensWon,
		&stats.TokensLost,
	)
	return stats, err
}

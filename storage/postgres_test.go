package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/HermesDE/caseclickerWS/domain"
	"github.com/HermesDE/caseclickerWS/migrations"
	"github.com/HermesDE/caseclickerWS/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var ledger *storage.PostgresLedger

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}

	ledger, err = storage.NewPostgresLedger(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	// Cleanup
	ledger.Close()
	postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func TestPostgresLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("EnsureStats", func(t *testing.T) {
		err := ledger.EnsureStats(ctx, "user-1")
		require.NoError(t, err)

		stats, err := ledger.FindStats(ctx, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, "user-1", stats.UserId)
		assert.Equal(t, float64(0), stats.Tokens)
		assert.Equal(t, float64(1), stats.MoneyPerClick)
	})

	t.Run("EnsureStats_ExistingRowUntouched", func(t *testing.T) {
		require.NoError(t, ledger.EnsureStats(ctx, "user-2"))
		_, err := ledger.Increment(ctx, "user-2", "tokens", 50)
		require.NoError(t, err)

		require.NoError(t, ledger.EnsureStats(ctx, "user-2"))
		stats, err := ledger.FindStats(ctx, "user-2")
		assert.NoError(t, err)
		assert.Equal(t, float64(50), stats.Tokens)
	})

	t.Run("FindStats_NotFound", func(t *testing.T) {
		_, err := ledger.FindStats(ctx, "ghost-user")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("Increment_Money", func(t *testing.T) {
		require.NoError(t, ledger.EnsureStats(ctx, "user-3"))

		stats, err := ledger.Increment(ctx, "user-3", "money", 2.5)
		assert.NoError(t, err)
		assert.Equal(t, float64(2.5), stats.Money)

		stats, err = ledger.Increment(ctx, "user-3", "money", 2.5)
		assert.NoError(t, err)
		assert.Equal(t, float64(5), stats.Money)
	})

	t.Run("Increment_TokenDebitCannotGoNegative", func(t *testing.T) {
		require.NoError(t, ledger.EnsureStats(ctx, "user-4"))
		_, err := ledger.Increment(ctx, "user-4", "tokens", 30)
		require.NoError(t, err)

		_, err = ledger.Increment(ctx, "user-4", "tokens", -31)
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

		// The failed debit left the balance untouched.
		stats, err := ledger.FindStats(ctx, "user-4")
		require.NoError(t, err)
		assert.Equal(t, float64(30), stats.Tokens)

		stats, err = ledger.Increment(ctx, "user-4", "tokens", -30)
		assert.NoError(t, err)
		assert.Equal(t, float64(0), stats.Tokens)
	})

	t.Run("Increment_UnknownUser", func(t *testing.T) {
		_, err := ledger.Increment(ctx, "ghost-user", "tokens", 10)
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	})

	t.Run("Increment_UnknownField", func(t *testing.T) {
		_, err := ledger.Increment(ctx, "user-1", "passwordHash'; DROP TABLE userstats;--", 1)
		assert.ErrorIs(t, err, storage.ErrUnknownField)
	})

	t.Run("Increment_StatFields", func(t *testing.T) {
		require.NoError(t, ledger.EnsureStats(ctx, "user-5"))

		_, err := ledger.Increment(ctx, "user-5", "gamesWon", 1)
		require.NoError(t, err)
		_, err = ledger.Increment(ctx, "user-5", "tokensWon", 40)
		require.NoError(t, err)
		_, err = ledger.Increment(ctx, "user-5", "gamesLost", 1)
		require.NoError(t, err)
		stats, err := ledger.Increment(ctx, "user-5", "tokensLost", 40)
		require.NoError(t, err)

		assert.Equal(t, int64(1), stats.GamesWon)
		assert.Equal(t, int64(1), stats.GamesLost)
		assert.Equal(t, float64(40), stats.TokensWon)
		assert.Equal(t, float64(40), stats.TokensLost)
	})
}

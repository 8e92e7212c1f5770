package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"time"

	"innkeep/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// Connection holds separate pools so reads can be pointed at a replica.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type retryPolicy struct {
	attempts int
	wait     time.Duration
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres
	policy := retryPolicy{attempts: max(pg.MaxRetry, 1), wait: time.Duration(pg.RetryWaitTime) * time.Second}

	return &Connection{
		Read:  mustOpen("read", pg.Read, pg.Prefix, policy),
		Write: mustOpen("write", pg.Write, pg.Prefix, policy),
	}
}

func mustOpen(role string, endpoint config.PostgresEndpoint, prefix string, policy retryPolicy) *sqlx.DB {
	logCtx := log.With().
		Str("role", role).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("database", endpoint.DatabaseName(prefix)).
		Logger()

	for attempt := 1; attempt <= policy.attempts; attempt++ {
		db, err := open(endpoint, prefix)
		if err == nil {
			logCtx.Info().Int("maxOpen", endpoint.MaxOpenConns).Msg("Connected to database")

			return db
		}

		logCtx.Error().Err(err).Int("attempt", attempt).Int("maxAttempts", policy.attempts).Msg("Failed connecting to database")

		if attempt < policy.attempts {
			time.Sleep(policy.wait)
		}
	}

	logCtx.Fatal().Msg("Giving up connecting to database")

	return nil
}

func open(endpoint config.PostgresEndpoint, prefix string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", endpoint.URL(prefix, nil))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	db.SetMaxOpenConns(endpoint.MaxOpenConns)
	db.SetMaxIdleConns(min(endpoint.MaxIdleConns, endpoint.MaxOpenConns))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping: %w", err)
	}

	return db, nil
}

// Close releases both pools.
func (c *Connection) Close() {
	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection")
		}
	}
}

package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"innkeep/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

// ConnectionString builds the golang-migrate URL for the write database.
func ConnectionString(config *config.Config) string {
	return config.DB.Postgres.Write.URL(config.DB.Postgres.Prefix, url.Values{
		"x-migrations-table": {config.DB.Postgres.MigrationTable},
	})
}

var actions = map[string]struct {
	run     func(*migrate.Migrate) error
	message string
}{
	ActionUp:     {run: (*migrate.Migrate).Up, message: "Database migrations completed successfully"},
	ActionDown:   {run: func(m *migrate.Migrate) error { return m.Steps(-1) }, message: "Database migration rolled back successfully"},
	ActionStepUp: {run: func(m *migrate.Migrate) error { return m.Steps(1) }, message: "Database migration applied successfully"},
	ActionDrop:   {run: (*migrate.Migrate).Down, message: "Database migrations rolled back successfully"},
}

func Runner(config *config.Config, action string) error {
	step, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	mig, err := migrate.New(migrationSource, ConnectionString(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := step.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg(step.message)

	return nil
}

// AutoMigrate applies pending migrations on boot when enabled.
func AutoMigrate(config *config.Config) error {
	if !config.DB.Postgres.AutoMigrate {
		return nil
	}

	return Runner(config, ActionUp)
}

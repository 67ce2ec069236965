package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"vrent/config"
	"vrent/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"

	defaultSourceURL = "file://migrations/postgres"
)

var ErrUnknownAction = errors.New("unknown migration action")

// MigrationURL is the write DSN with the migrations table appended.
func MigrationURL(cfg *config.Config) string {
	dsn := postgres.DSN(
		cfg.DB.Postgres.Write.Username,
		cfg.DB.Postgres.Write.Password,
		cfg.DB.Postgres.Write.Host,
		cfg.DB.Postgres.Write.Port,
		postgres.DatabaseName(*cfg, cfg.DB.Postgres.Write.Name),
		cfg.DB.Postgres.Write.SSLMode,
	)

	if cfg.DB.Postgres.MigrationTable == "" {
		return dsn
	}

	return dsn + "&x-migrations-table=" + url.QueryEscape(cfg.DB.Postgres.MigrationTable)
}

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(defaultSourceURL, MigrationURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(cfg *config.Config, action string) error {
	mig, err := getConnection(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	return run(mig, action)
}

func run(mig *migrate.Migrate, action string) error {
	var err error

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDown:
		err = mig.Steps(-1)
	case ActionDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	version, dirty, verr := mig.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", verr)
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, ActionStepUp)
}

func Down(cfg *config.Config) error {
	return Runner(cfg, ActionDown)
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, ActionDrop)
}

package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"

	"hostel/config"
	"hostel/migrations"
)

const migrationsDir = "postgres"

// Migration actions understood by Runner.
const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
)

type action struct {
	run  func(*migrate.Migrate) error
	done string
}

var actions = map[string]action{
	ActionUp:     {run: (*migrate.Migrate).Up, done: "Database migrations completed successfully"},
	ActionDown:   {run: func(m *migrate.Migrate) error { return m.Steps(-1) }, done: "Rolled back the last migration"},
	ActionStepUp: {run: func(m *migrate.Migrate) error { return m.Steps(1) }, done: "Applied the next migration"},
	ActionDrop:   {run: (*migrate.Migrate).Down, done: "Rolled back every migration"},
}

// DatabaseURL builds the golang-migrate URL of the write database.
func DatabaseURL(cfg *config.Config) string {
	pg := cfg.DB.Postgres
	w := pg.Write

	query := url.Values{}
	query.Set("sslmode", w.SSLMode)

	if pg.MigrationTable != "" {
		query.Set("x-migrations-table", pg.MigrationTable)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(w.Username, w.Password),
		Host:     net.JoinHostPort(w.Host, w.Port),
		Path:     pg.Prefix + w.Name,
		RawQuery: query.Encode(),
	}

	return u.String()
}

func newMigrate(cfg *config.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.Postgres, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, DatabaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Runner applies one of the Action* constants to the write database.
func Runner(cfg *config.Config, name string) error {
	act, known := actions[name]
	if !known && name != ActionVersion {
		return fmt.Errorf("unknown migration action %q", name)
	}

	mig, err := newMigrate(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrate instance")
		}
	}()

	if name == ActionVersion {
		version, dirty, err := mig.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("read migration version: %w", err)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

		return nil
	}

	if err := act.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s: %w", name, err)
	}

	log.Info().Str("action", name).Msg(act.done)

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}

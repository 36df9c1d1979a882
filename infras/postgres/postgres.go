package postgres

//go:generate go run go.uber.org/mock/mockgen -source=./postgres.go -destination=./mocks/postgres_mock.go -package=mocks

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"hostel/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresMaxIdleTime       = 5 * time.Minute
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens the write pool and the read pool. Without a configured read
// host both share the write pool.
func New(cfg *config.Config) *Connection {
	write := writeEndpoint(cfg)
	conn := &Connection{Write: connect(write, cfg.DB.Postgres.MaxRetry, cfg.DB.Postgres.RetryWaitTime)}

	read, ok := readEndpoint(cfg)
	if !ok {
		log.Info().Msg("No read replica configured, reads use the write pool")

		conn.Read = conn.Write

		return conn
	}

	conn.Read = connect(read, cfg.DB.Postgres.MaxRetry, cfg.DB.Postgres.RetryWaitTime)

	return conn
}

// Close closes both pools once.
func (c *Connection) Close() error {
	err := c.Write.Close()
	if c.Read != c.Write {
		err = errors.Join(err, c.Read.Close())
	}

	return err //nolint:wrapcheck
}

// Transactor runs a function inside a single write transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(conn *Connection) Transactor {
	return &transactor{db: conn.Write}
}

func (t *transactor) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to roll back transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type endpoint struct {
	name     string
	host     string
	port     string
	username string
	password string
	database string
	sslMode  string
}

func writeEndpoint(cfg *config.Config) endpoint {
	w := cfg.DB.Postgres.Write

	return endpoint{"write", w.Host, w.Port, w.Username, w.Password, cfg.DB.Postgres.Prefix + w.Name, w.SSLMode}
}

func readEndpoint(cfg *config.Config) (endpoint, bool) {
	r := cfg.DB.Postgres.Read
	if r.Host == "" {
		return endpoint{}, false
	}

	return endpoint{"read", r.Host, r.Port, r.Username, r.Password, cfg.DB.Postgres.Prefix + r.Name, r.SSLMode}, true
}

func (e endpoint) dsn() string {
	query := url.Values{}
	if e.sslMode != "" {
		query.Set("sslmode", e.sslMode)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.username, e.password),
		Host:     net.JoinHostPort(e.host, e.port),
		Path:     e.database,
		RawQuery: query.Encode(),
	}

	return u.String()
}

// connect retries until the database answers. The process cannot serve
// anything without it, so running out of attempts is fatal.
func connect(e endpoint, maxRetry, waitSeconds int) *sqlx.DB {
	attempts := max(maxRetry, 1)
	logger := log.With().Str("name", e.name).Str("host", e.host).Str("port", e.port).Str("dbName", e.database).Logger()

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect("postgres", e.dsn())
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxIdleTime(postgresMaxIdleTime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logger.Fatal().Int("attempts", attempts).Msg("Could not connect to database")

	return nil
}

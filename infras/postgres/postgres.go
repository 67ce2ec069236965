package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"vrent/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresDriverName        = "postgres"
)

var ErrConnectionExhausted = errors.New("postgres connection retries exhausted")

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Transactor runs fn inside a single write transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
}

func New(config *config.Config) (*Connection, error) {
	read, err := CreatePostgresReadConn(*config)
	if err != nil {
		return nil, err
	}

	write, err := CreatePostgresWriteConn(*config)
	if err != nil {
		_ = read.Close()

		return nil, err
	}

	return &Connection{
		Read:  read,
		Write: write,
	}, nil
}

// NewFromDB wraps a single handle for both roles. Used by tools and tests.
func NewFromDB(db *sqlx.DB) *Connection {
	return &Connection{Read: db, Write: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (c *Connection) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write database unreachable: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read database unreachable: %w", err)
	}

	return nil
}

func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close())
}

// DatabaseName applies the configured prefix to baseName.
func DatabaseName(config config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) (*sqlx.DB, error) {
	return CreatePostgresConnection(
		"write",
		config.DB.Postgres.Write.Username,
		config.DB.Postgres.Write.Password,
		config.DB.Postgres.Write.Host,
		config.DB.Postgres.Write.Port,
		DatabaseName(config, config.DB.Postgres.Write.Name),
		config.DB.Postgres.Write.SSLMode,
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(config config.Config) (*sqlx.DB, error) {
	return CreatePostgresConnection(
		"read",
		config.DB.Postgres.Read.Username,
		config.DB.Postgres.Read.Password,
		config.DB.Postgres.Read.Host,
		config.DB.Postgres.Read.Port,
		DatabaseName(config, config.DB.Postgres.Read.Name),
		config.DB.Postgres.Read.SSLMode,
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// DSN builds the connection url shared by the app and the migration tool.
func DSN(username, password, host, port, dbName, sslMode string) string {
	descriptor := url.URL{
		Scheme:   postgresDriverName,
		User:     url.UserPassword(username, password),
		Host:     net.JoinHostPort(host, port),
		Path:     dbName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}

	return descriptor.String()
}

// CreatePostgresConnection creates a database connection.
func CreatePostgresConnection(name, username, password, host, port, dbName, sslMode string, maxRetry, waitTime int) (*sqlx.DB, error) {
	descriptor := DSN(username, password, host, port, dbName, sslMode)

	var lastErr error

	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect(postgresDriverName, descriptor)
		if err == nil {
			log.
				Info().
				Str("name", name).
				Str("host", host).
				Str("port", port).
				Str("dbName", dbName).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			return sqlDB, nil
		}

		lastErr = err

		log.
			Error().
			Err(err).
			Str("name", name).
			Str("host", host).
			Str("port", port).
			Str("dbName", dbName).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil, fmt.Errorf("%w (%s): %w", ErrConnectionExhausted, name, lastErr)
}

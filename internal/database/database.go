// Package database manages the MySQL connection used as a record source.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dbsmedya/ndjson2csv/internal/config"
	"github.com/dbsmedya/ndjson2csv/internal/logger"
)

// OpenFunc opens a *sql.DB for a DSN. It matches sql.Open with the driver
// name bound.
type OpenFunc func(dsn string) (*sql.DB, error)

func openMySQL(dsn string) (*sql.DB, error) {
	return sql.Open("mysql", dsn)
}

// Manager owns the source connection.
type Manager struct {
	DB *sql.DB

	config     *config.DatabaseConfig
	log        *logger.Logger
	open       OpenFunc
	maxRetries int
	backoff    time.Duration
}

// Option customises a Manager.
type Option func(*Manager)

// WithOpener replaces the function used to open connections.
func WithOpener(open OpenFunc) Option {
	return func(m *Manager) { m.open = open }
}

// WithRetry sets the number of connection attempts and the initial backoff
// between them. The backoff doubles after each failed attempt.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(m *Manager) {
		if attempts > 0 {
			m.maxRetries = attempts
		}
		m.backoff = backoff
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.DatabaseConfig, opts ...Option) *Manager {
	m := &Manager{
		config:     cfg,
		log:        logger.NewNop(),
		open:       openMySQL,
		maxRetries: 3,
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect opens and verifies the source connection.
func (m *Manager) Connect(ctx context.Context) error {
	db, err := m.connectWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	m.DB = db
	return nil
}

// connectWithRetry attempts to connect with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context) (*sql.DB, error) {
	var err error
	backoff := m.backoff

	for i := 0; i < m.maxRetries; i++ {
		var db *sql.DB
		db, err = m.connect()
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				return db, nil
			}
			db.Close()
		}

		if i < m.maxRetries-1 {
			m.log.Warnw("database connection failed, retrying",
				"attempt", i+1,
				"backoff", backoff,
				"error", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", m.maxRetries, err)
}

// connect creates a database handle and sizes its pool.
func (m *Manager) connect() (*sql.DB, error) {
	db, err := m.open(BuildDSN(m.config))
	if err != nil {
		return nil, err
	}

	if m.config.MaxConnections > 0 {
		db.SetMaxOpenConns(m.config.MaxConnections)
	}
	if m.config.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(m.config.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// BuildDSN constructs a MySQL DSN from configuration.
func BuildDSN(cfg *config.DatabaseConfig) string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dsn.DBName = cfg.Database
	dsn.ParseTime = true

	switch cfg.TLS {
	case "disable":
		dsn.TLSConfig = "false"
	case "required":
		dsn.TLSConfig = "true"
	default:
		dsn.TLSConfig = "preferred"
	}

	return dsn.FormatDSN()
}

// Close closes the connection if it is open.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	if err := m.DB.Close(); err != nil {
		return fmt.Errorf("source close: %w", err)
	}
	m.DB = nil
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.DB == nil {
		return fmt.Errorf("source ping failed: not connected")
	}
	if err := m.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("source ping failed: %w", err)
	}
	return nil
}

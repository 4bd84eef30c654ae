package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tableside/internal/config"
	"tableside/internal/logger"
)

const createKVTableSQL = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

const (
	getKVSQL = `SELECT value FROM kv WHERE key = $1`

	upsertKVSQL = `
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	deleteKVSQL = `DELETE FROM kv WHERE key = $1`
)

// PostgresStore persists keys in a single kv table
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgresStore connects to PostgreSQL and ensures the kv table exists
func NewPostgresStore(cfg *config.Config, log *logger.Logger) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure connection pool settings
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	// Try to connect with retries
	var pool *pgxpool.Pool
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err == nil {
			// Test the connection
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = pool.Ping(ctx)
			cancel()
			if err == nil {
				break
			}
			pool.Close()
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			log.Error("db_connection_failed",
				fmt.Sprintf("Failed to connect to database, retrying in %v", waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	s := &PostgresStore{
		pool:   pool,
		logger: log,
	}

	if err := s.ensureSchema(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createKVTableSQL); err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	s.logger.Info("schema_ready", "kv table is ready", "startup", nil)
	return nil
}

// Get returns the value for key and whether the key exists
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, getKVSQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes the value for key, replacing any previous value
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.pool.Exec(ctx, upsertKVSQL, key, value); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes key entirely
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, deleteKVSQL, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Ping tests the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var errNoPool = errors.New("store: no connection pool")

// Options tunes the pgx pool. Zero values keep the pgxpool defaults, except
// StatementCacheCapacity where zero disables the cache.
type Options struct {
	MaxConns               int32
	MinConns               int32
	MaxConnIdleTime        time.Duration
	MaxConnLifetime        time.Duration
	ConnTimeout            time.Duration
	StatementCacheCapacity int
	Logger                 *zap.Logger
}

// Store owns the catalogue's Postgres pool.
type Store struct {
	pool        *pgxpool.Pool
	logger      *zap.Logger
	pingTimeout time.Duration
}

// New opens a pool for dbURL and pings it before returning.
func New(ctx context.Context, dbURL string, opts Options) (*Store, error) {
	logger := namedLogger(opts.Logger)

	cfg, err := poolConfig(dbURL, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("opening connection pool",
		zap.String("host", cfg.ConnConfig.Host),
		zap.String("database", cfg.ConnConfig.Database),
		zap.Int32("max_conns", cfg.MaxConns),
		zap.Int32("min_conns", cfg.MinConns),
		zap.Int("statement_cache", cfg.ConnConfig.StatementCacheCapacity),
	)

	dialCtx, cancel := withOptionalTimeout(ctx, opts.ConnTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("connection pool ready")
	return &Store{pool: pool, logger: logger, pingTimeout: opts.ConnTimeout}, nil
}

// NewWithPool wraps a pool whose lifecycle belongs to the caller.
func NewWithPool(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: namedLogger(logger)}
}

func poolConfig(dbURL string, opts Options) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB_URL: %w", err)
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}

	conn := cfg.ConnConfig
	if opts.StatementCacheCapacity > 0 {
		conn.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		conn.StatementCacheCapacity = opts.StatementCacheCapacity
	} else {
		conn.DefaultQueryExecMode = pgx.QueryExecModeDescribeExec
		conn.StatementCacheCapacity = 0
	}
	return cfg, nil
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func namedLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.Named("store")
}

// Close releases the pool. Safe on a nil Store.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.logger.Info("closing connection pool")
	s.pool.Close()
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return errNoPool
	}
	pingCtx, cancel := withOptionalTimeout(ctx, s.pingTimeout)
	defer cancel()
	return s.pool.Ping(pingCtx)
}

// Pool returns the underlying pool for repositories.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Stats returns a pool snapshot, or nil when there is no pool.
func (s *Store) Stats() *pgxpool.Stat {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Stat()
}

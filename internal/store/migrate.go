package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/Clark-Hu/filmdb/db"
)

type migrationLogger struct {
	logger *zap.Logger
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrationLogger) Verbose() bool {
	return l.logger.Core().Enabled(zap.DebugLevel)
}

// Migrate applies every pending schema migration embedded in the binary.
// dbURL is a regular postgres:// or postgresql:// connection string.
func Migrate(dbURL string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("migrate")

	src, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(dbURL))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("close migrate", zap.NamedError("source_error", srcErr), zap.NamedError("db_error", dbErr))
		}
	}()
	m.Log = migrationLogger{logger: logger}

	start := time.Now()
	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("no new migrations to apply")
		return nil
	case err != nil:
		version, dirty, _ := m.Version()
		logger.Error("migration failed", zap.Error(err), zap.Uint("version", version), zap.Bool("dirty", dirty))
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("applied migrations", zap.Uint("version", version), zap.Duration("elapsed", time.Since(start)))
	return nil
}

// migrationURL rewrites the scheme so golang-migrate picks its pgx/v5 driver.
func migrationURL(dbURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dbURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(dbURL, prefix)
		}
	}
	return dbURL
}

// Command migrate applies the SQL migrations under migrations/ to the
// configured PostgreSQL database.
package main

import (
	"errors"
	"fmt"
	"os"

	"market-stall/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	migrationsPath := pflag.StringP("migrations-path", "m", "migrations", "path to the migration files")
	databaseURL := pflag.StringP("database-url", "d", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	down := pflag.Bool("down", false, "roll back one migration instead of migrating up")
	pflag.Parse()

	logger := config.NewLogger(config.LoggerConfig{Level: "info", Format: "console"})

	url := *databaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return errors.New("--database-url flag or DATABASE_URL is required")
	}

	m, err := migrate.New(
		fmt.Sprintf("file://%s", *migrationsPath),
		"pgx5://"+trimScheme(url),
	)
	if err != nil {
		return fmt.Errorf("failed to initialise migrator: %w", err)
	}
	defer m.Close()

	m.Log = &migrationLogger{logger: logger}

	if *down {
		err = m.Steps(-1)
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("no migrations to apply")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info().Msg("migrations applied")
	return nil
}

// trimScheme strips the postgres:// scheme so the URL can be re-prefixed
// with the pgx5 driver scheme.
func trimScheme(url string) string {
	for _, scheme := range []string{"postgres://", "postgresql://", "pgx5://"} {
		if len(url) > len(scheme) && url[:len(scheme)] == scheme {
			return url[len(scheme):]
		}
	}
	return url
}

// migrationLogger adapts zerolog to the migrate.Logger interface.
type migrationLogger struct {
	logger zerolog.Logger
}

func (l *migrationLogger) Printf(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}

func (l *migrationLogger) Verbose() bool {
	return true
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/01moynul/aitools-golang/internal/config"
	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
)

// OpenDB opens the primary connection pool described by cfg and verifies it with a ping.
func OpenDB(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	return OpenDBWithDSN(ctx, cfg, cfg.DSN)
}

// OpenDBWithDSN opens a pool for dsn using the pool settings in cfg.
func OpenDBWithDSN(ctx context.Context, cfg config.DBConfig, dsn string) (*sql.DB, error) {
	// 1. Normalize the DSN and open a new connection pool.
	dsn, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	// 2. Configure the connection pool settings.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// 3. Ping the database to verify the connection.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	log.Info().
		Int("max_open_conns", cfg.MaxOpenConns).
		Dur("conn_max_lifetime", cfg.ConnMaxLifetime).
		Msg("Database connection pool established")
	return db, nil
}

// NormalizeDSN forces parseTime and UTC so DATETIME columns scan into
// time.Time whatever the deployed DSN says.
func NormalizeDSN(dsn string) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN(), nil
}

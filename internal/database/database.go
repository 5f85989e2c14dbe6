package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/01moynul/shopsphere-golang/internal/config"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

// OpenDB initializes the primary Read/Write connection pool from configuration.
func OpenDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sql.DB, error) {
	return OpenDBWithDSN(ctx, cfg.DBDSN, PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
}

// PoolOptions tunes the database/sql connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenDBWithDSN creates and verifies a connection pool for any MySQL DSN.
// The DSN must carry parseTime=true so DATETIME columns scan into time.Time.
func OpenDBWithDSN(ctx context.Context, dsn string, opts PoolOptions, log zerolog.Logger) (*sql.DB, error) {
	// 1. Open a new connection pool.
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// 2. Configure the connection pool settings.
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	// 3. Ping the database to verify the connection.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Error().Err(err).Msg("error connecting to database")
		db.Close()
		return nil, err
	}

	log.Info().
		Int("max_open_conns", opts.MaxOpenConns).
		Dur("conn_max_lifetime", opts.ConnMaxLifetime).
		Msg("database connection pool established")
	return db, nil
}

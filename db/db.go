package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	_ "modernc.org/sqlite"

	"github.com/padraicbc/dotawatch/config"
	"github.com/padraicbc/dotawatch/models"
)

// Setup opens the configured database and creates any missing tables.
// PostgreSQL is used when a DSN is configured, otherwise a local SQLite file.
func Setup(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	var (
		db  *bun.DB
		err error
	)
	if dsn := cfg.PostgresDSN(); dsn != "" {
		db = OpenPostgres(dsn)
	} else {
		db, err = OpenSQLite(cfg.SQLiteFile())
		if err != nil {
			return nil, err
		}
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := CreateTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenPostgres returns a bun handle for a postgres:// or postgresql:// DSN.
func OpenPostgres(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// OpenSQLite opens path with the pure Go SQLite driver. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// one writer, and :memory: lives only as long as its connection
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateTables creates all tables that do not exist yet.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.MatchRating)(nil),
		(*models.CachedMatch)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		model   interface{}
		name    string
		columns []string
	}{
		{(*models.CachedMatch)(nil), "cached_matches_final_score_idx", []string{"final_score"}},
		{(*models.CachedMatch)(nil), "cached_matches_observed_at_idx", []string{"observed_at"}},
	}
	for _, ix := range indexes {
		if _, err := db.NewCreateIndex().Model(ix.model).Index(ix.name).Column(ix.columns...).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating index %s: %w", ix.name, err)
		}
	}

	return nil
}

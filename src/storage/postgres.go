package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mms-curvature/src/helpers"
	"mms-curvature/src/logger"
	"mms-curvature/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

// PostgresTableSink writes the result table into a shared database, one
// table per run inside a schema named after the executable.
type PostgresTableSink struct {
	DSN    string
	Schema string
	Table  string
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresTableSink(dsn, table string, log *logger.Logger) (*PostgresTableSink, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresTableSink{
		DSN:    dsn,
		Schema: name,
		Table:  table,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresTableSink) Initialize(ctx context.Context) error {
	db, err := sql.Open("postgres", d.DSN)
	if err != nil {
		return helpers.NewDatabaseError("failed to open postgres connection", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return helpers.NewDatabaseError("failed to reach postgres", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, quoteIdent(d.Schema))); err != nil {
		db.Close()
		return helpers.NewDatabaseError(fmt.Sprintf("failed to create schema %s", d.Schema), err)
	}
	d.DB = db

	d.Logger.Info("PostgresTableSink initialized (Schema: %s, Table: %s)", d.Schema, d.Table)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresTableSink) qualified() string {
	return quoteIdent(d.Schema) + "." + quoteIdent(d.Table)
}

// -----------------------------------------------------------------------------

func (d *PostgresTableSink) SaveTable(ctx context.Context, table *models.MResultTable) error {
	if d.DB == nil {
		return helpers.NewDatabaseError(fmt.Sprintf("postgres sink %s not initialized", d.Table), nil)
	}
	if err := table.Validate(); err != nil {
		return helpers.NewValidationError("result table rejected", err)
	}
	if err := d.saveTable(ctx, table); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("failed to save %s", d.qualified()), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresTableSink) saveTable(ctx context.Context, table *models.MResultTable) error {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, d.qualified())); err != nil {
		return fmt.Errorf("failed to drop %s: %w", d.Table, err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(d.qualified(), table, "DOUBLE PRECISION")); err != nil {
		return fmt.Errorf("failed to create %s: %w", d.Table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(d.qualified(), table, func(i int) string {
		return fmt.Sprintf("$%d", i+1)
	}))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range table.Index {
		if _, err := stmt.ExecContext(ctx, rowArgs(table, i)...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresTableSink) Close() error {
	if d.DB == nil {
		return nil
	}
	err := d.DB.Close()
	d.DB = nil
	return err
}

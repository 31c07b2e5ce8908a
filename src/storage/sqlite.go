package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"mms-curvature/src/helpers"
	"mms-curvature/src/logger"
	"mms-curvature/src/models"

	_ "modernc.org/sqlite"
)

// DefaultTableName is the table the result rows land in inside the .db file.
const DefaultTableName = "curvature"

// -----------------------------------------------------------------------------

// SQLiteTableSink writes the result table into a standalone SQLite file.
type SQLiteTableSink struct {
	Path   string
	Table  string
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteTableSink(path string, log *logger.Logger) *SQLiteTableSink {
	return &SQLiteTableSink{
		Path:   path,
		Table:  DefaultTableName,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (d *SQLiteTableSink) Initialize(ctx context.Context) error {
	if dir := filepath.Dir(d.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return helpers.NewDatabaseError(fmt.Sprintf("failed to create %s", dir), err)
		}
	}

	db, err := sql.Open("sqlite", d.Path)
	if err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("failed to open %s", d.Path), err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return helpers.NewDatabaseError(fmt.Sprintf("failed to open %s", d.Path), err)
	}
	d.DB = db

	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// SaveTable replaces the table with the rows of table in one transaction.
func (d *SQLiteTableSink) SaveTable(ctx context.Context, table *models.MResultTable) error {
	if d.DB == nil {
		return helpers.NewDatabaseError(fmt.Sprintf("sqlite sink %s not initialized", d.Path), nil)
	}
	if err := table.Validate(); err != nil {
		return helpers.NewValidationError("result table rejected", err)
	}
	if err := d.saveTable(ctx, table); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("failed to save %s:%s", d.Path, d.Table), err)
	}
	d.Logger.Debug("SQLite: wrote %d rows to %s:%s", len(table.Index), d.Path, d.Table)
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteTableSink) saveTable(ctx context.Context, table *models.MResultTable) error {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	name := quoteIdent(d.Table)
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", d.Table, err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(name, table, "REAL")); err != nil {
		return fmt.Errorf("failed to create %s: %w", d.Table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(name, table, func(int) string { return "?" }))
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

func (d *SQLiteTableSink) Close() error {
	if d.DB == nil {
		return nil
	}
	err := d.DB.Close()
	d.DB = nil
	return err
}

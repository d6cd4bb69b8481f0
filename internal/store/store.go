// =============================================================================
// Gem Stock Importer - Script Execution
// =============================================================================
//
// Runs a built import script against a database as one transaction. Either
// every statement commits or none do; the first failing statement aborts and
// rolls back the whole import.
//
// DRIVERS:
//   - mssql    : github.com/microsoft/go-mssqldb (database/sql "sqlserver")
//   - postgres : github.com/jackc/pgx/v5 (pgxpool)
//   - mysql    : github.com/go-sql-driver/mysql
//   - sqlite   : modernc.org/sqlite
//
// =============================================================================

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/ginjaninja78/gem-stock-importer/internal/sqlwriter"
)

// ErrExecute wraps every failure to execute an import script.
var ErrExecute = errors.New("import script failed")

// Executor runs import scripts.
type Executor interface {
	Execute(ctx context.Context, script *sqlwriter.Script) error
	Close() error
}

// Connect opens a connection for the dialect and checks it with a ping.
//
// PARAMETERS:
//   - dialect: One of the sqlwriter dialect names
//   - dsn: Driver-specific connection string
func Connect(ctx context.Context, dialect, dsn string) (Executor, error) {
	if dialect == sqlwriter.DialectPostgres {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pinging postgres: %w", err)
		}
		return NewPgxExecutor(pool), nil
	}

	driver, err := driverName(dialect)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", dialect, err)
	}

	return NewSQLExecutor(db), nil
}

func driverName(dialect string) (string, error) {
	switch dialect {
	case sqlwriter.DialectMSSQL:
		return "sqlserver", nil
	case sqlwriter.DialectMySQL:
		return "mysql", nil
	case sqlwriter.DialectSQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("no driver for dialect %q", dialect)
}

// =============================================================================
// database/sql
// =============================================================================

// SQLExecutor runs scripts through database/sql.
type SQLExecutor struct {
	db *sql.DB
}

// NewSQLExecutor wraps an open database.
func NewSQLExecutor(db *sql.DB) *SQLExecutor {
	return &SQLExecutor{db: db}
}

// Execute implements Executor.
func (e *SQLExecutor) Execute(ctx context.Context, script *sqlwriter.Script) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrExecute, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: statement %d: %w", ErrExecute, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrExecute, err)
	}
	return nil
}

// Close implements Executor.
func (e *SQLExecutor) Close() error {
	return e.db.Close()
}

// =============================================================================
// pgx
// =============================================================================

// PgxExecutor runs scripts through a pgx pool.
type PgxExecutor struct {
	pool *pgxpool.Pool
}

// NewPgxExecutor wraps an open pool.
func NewPgxExecutor(pool *pgxpool.Pool) *PgxExecutor {
	return &PgxExecutor{pool: pool}
}

// Execute implements Executor.
func (e *PgxExecutor) Execute(ctx context.Context, script *sqlwriter.Script) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrExecute, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, stmt := range statements(script) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: statement %d: %w", ErrExecute, i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrExecute, err)
	}
	return nil
}

// Close implements Executor.
func (e *PgxExecutor) Close() error {
	e.pool.Close()
	return nil
}

// statements returns the session setup followed by the script body.
func statements(script *sqlwriter.Script) []string {
	out := make([]string, 0, len(script.Dialect.Session)+len(script.Statements))
	out = append(out, script.Dialect.Session...)
	out = append(out, script.Statements...)
	return out
}

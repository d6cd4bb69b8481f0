// =============================================================================
// Gem Stock Importer - SQL Dialects
// =============================================================================
//
// A Dialect describes how the import script is written for one database
// engine: the transaction envelope, how text literals are quoted and how
// explicit batch ids are inserted into an identity column.
//
// SUPPORTED DIALECTS:
//   - mssql    : SQL Server / Azure SQL (default). N'' strings, IDENTITY_INSERT.
//   - postgres : OVERRIDING SYSTEM VALUE on batch inserts.
//   - mysql    : backslashes are doubled inside strings.
//   - sqlite
//
// =============================================================================

package sqlwriter

import (
	"fmt"
	"strings"
)

// Dialect names.
const (
	DialectMSSQL    = "mssql"
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

// Destination relations.
const (
	TableInventory = "gem_inventory_items"
	TableBatches   = "gem_usage_batches"
	TableLines     = "gem_usage_lines"
)

// Dialect holds the per-engine script rules.
type Dialect struct {
	Name string

	// Schema prefixes every table name when set, e.g. "dbo".
	Schema string

	// NationalText writes text literals as N'...'.
	NationalText bool

	// EscapeBackslash doubles backslashes inside text literals.
	EscapeBackslash bool

	// Session statements run before the transaction opens in the script file,
	// and as the first statements of the transaction when executed directly.
	Session []string

	// Begin and Commit wrap the statements in Script.Text.
	Begin  []string
	Commit []string

	// IdentityInsert toggles explicit inserts into the batch id column.
	IdentityInsert bool

	// OverridingSystemValue is added to batch inserts so explicit ids win over
	// a generated identity.
	OverridingSystemValue bool
}

// DialectByName returns the dialect for name. An empty name is mssql. For
// mssql an empty schema defaults to "dbo".
func DialectByName(name, schema string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DialectMSSQL, "sqlserver":
		if schema == "" {
			schema = "dbo"
		}
		return Dialect{
			Name:           DialectMSSQL,
			Schema:         schema,
			NationalText:   true,
			Session:        []string{"SET XACT_ABORT ON;"},
			Begin:          []string{"BEGIN TRANSACTION;"},
			Commit:         []string{"COMMIT TRANSACTION;"},
			IdentityInsert: true,
		}, nil

	case DialectPostgres, "postgresql", "pgx":
		return Dialect{
			Name:                  DialectPostgres,
			Schema:                schema,
			Begin:                 []string{"BEGIN;"},
			Commit:                []string{"COMMIT;"},
			OverridingSystemValue: true,
		}, nil

	case DialectMySQL:
		return Dialect{
			Name:            DialectMySQL,
			Schema:          schema,
			EscapeBackslash: true,
			Begin:           []string{"START TRANSACTION;"},
			Commit:          []string{"COMMIT;"},
		}, nil

	case DialectSQLite, "sqlite3":
		return Dialect{
			Name:   DialectSQLite,
			Schema: schema,
			Begin:  []string{"BEGIN TRANSACTION;"},
			Commit: []string{"COMMIT;"},
		}, nil
	}

	return Dialect{}, fmt.Errorf("unsupported dialect %q", name)
}

// Table returns the qualified table name.
func (d Dialect) Table(name string) string {
	if d.Schema == "" {
		return name
	}
	return d.Schema + "." + name
}

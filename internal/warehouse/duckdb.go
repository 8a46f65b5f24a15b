// Package warehouse loads the merged dataset into DuckDB so it can be
// explored with ad-hoc SQL.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/healthtrends/internal/dataset"
)

// DefaultTable is the table name the merged dataset is loaded under.
const DefaultTable = "merged"

// Config holds the connection settings.
type Config struct {
	// Path is the database file. Use ":memory:" or "" for an in-memory database.
	Path   string
	Logger *slog.Logger
}

// Column describes one column of a table.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Position int    `json:"position"`
}

// Metadata describes a table.
type Metadata struct {
	Schema   string   `json:"schema"`
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
	RowCount int64    `json:"row_count"`
}

// Rows wraps sql.Rows returned by Query.
type Rows struct {
	*sql.Rows
}

// DuckDB is a connection to a DuckDB database.
type DuckDB struct {
	db     *sql.DB
	logger *slog.Logger
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// columnTypes maps dataset.Columns to DuckDB types.
var columnTypes = map[string]string{
	dataset.ColCountry:        "VARCHAR",
	dataset.ColYear:           "INTEGER",
	dataset.ColContinent:      "VARCHAR",
	dataset.ColLifeExp:        "DOUBLE",
	dataset.ColGDPPercap:      "DOUBLE",
	dataset.ColPop:            "BIGINT",
	dataset.ColISOAlpha:       "VARCHAR",
	dataset.ColChildMortality: "DOUBLE",
}

// Open connects to DuckDB.
func Open(ctx context.Context, cfg Config) (*DuckDB, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	logger.Debug("duckdb opened", "path", path)
	return &DuckDB{db: db, logger: logger}, nil
}

// NewWithDB wraps an existing connection.
func NewWithDB(db *sql.DB, logger *slog.Logger) *DuckDB {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DuckDB{db: db, logger: logger}
}

// Close closes the connection.
func (d *DuckDB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Exec executes a statement that returns no rows.
func (d *DuckDB) Exec(ctx context.Context, sqlStr string) error {
	if _, err := d.db.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a statement that returns rows. The caller closes them and
// checks rows.Err after iterating.
func (d *DuckDB) Query(ctx context.Context, sqlStr string) (*Rows, error) {
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := d.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &Rows{Rows: rows}, nil
}

// LoadTable creates or replaces table name with the merged columns and
// inserts every row of t in a single transaction.
func (d *DuckDB) LoadTable(ctx context.Context, name string, t *dataset.Table) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}

	defs := make([]string, len(dataset.Columns))
	marks := make([]string, len(dataset.Columns))
	for i, c := range dataset.Columns {
		defs[i] = fmt.Sprintf("%q %s", c, columnTypes[c])
		marks[i] = "?"
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	create := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", name, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range t.Records() {
		if _, err := stmt.ExecContext(ctx, r.Values()...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	d.logger.Debug("table loaded", "table", name, "rows", t.Len())
	return nil
}

// Tables lists the tables and views in the main schema.
func (d *DuckDB) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'main'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}

// Describe returns column metadata and the row count of a table. A
// "schema.table" name selects a schema other than main.
func (d *DuckDB) Describe(ctx context.Context, table string) (*Metadata, error) {
	schema := "main"
	tableName := table
	if parts := strings.Split(table, "."); len(parts) == 2 {
		schema = parts[0]
		tableName = parts[1]
	}
	if !identRe.MatchString(schema) || !identRe.MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	var rowCount int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", schema, tableName)
	if err := d.db.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	return &Metadata{
		Schema:   schema,
		Name:     tableName,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/sijms/go-ora/v2"

	"zipmarket/internal/applog"
	"zipmarket/internal/market"
)

// SourcePrefix marks a dataset path that names an Oracle table instead of a file.
const SourcePrefix = "oracle:"

// dsn builds a properly encoded connection string for Oracle Autonomous Database
func dsn(username, password, host, port, service string, walletLocation string) string {
	if walletLocation != "" {
		// Use wallet-based mTLS connection
		return fmt.Sprintf(
			"oracle://%s:%s@%s:%s/%s?ssl=true&wallet_location=%s",
			url.PathEscape(username), url.PathEscape(password), host, port, service, url.PathEscape(walletLocation))
	}

	return (&url.URL{
		Scheme:   "oracle",
		User:     url.UserPassword(username, password), // escapes automatically
		Host:     host + ":" + port,
		Path:     "/" + service, // keep full service name
		RawQuery: "ssl=true",    // ADB requires TCPS on 1522
	}).String()
}

// DBConfig holds database connection configuration
type DBConfig struct {
	Host           string `mapstructure:"host" yaml:"host"`
	Port           string `mapstructure:"port" yaml:"port"`
	Service        string `mapstructure:"service" yaml:"service"`
	Username       string `mapstructure:"username" yaml:"username"`
	Password       string `mapstructure:"password" yaml:"-"`
	WalletLocation string `mapstructure:"wallet_location" yaml:"wallet_location"`
}

// Database holds the database connection and configuration
type Database struct {
	db     *sql.DB
	config DBConfig
}

// NewDatabase opens and pings a connection.
func NewDatabase(ctx context.Context, config DBConfig) (*Database, error) {
	connStr := dsn(config.Username, config.Password, config.Host, config.Port, config.Service, config.WalletLocation)
	applog.FromContext(ctx).DebugContext(ctx, "Connecting to Oracle", "host", config.Host, "service", config.Service)

	db, err := sql.Open("oracle", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		db:     db,
		config: config,
	}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

var tableName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]*(\.[A-Za-z][A-Za-z0-9_$#]*)?$`)

// LoadTable reads every row of table into a market.Table snapshot. The column
// matching zipColumn (case-insensitively, Oracle upper-cases identifiers) is
// renamed to zipColumn and coerced like a CSV ZIP column.
func (d *Database) LoadTable(ctx context.Context, table, zipColumn string) (*market.Table, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", market.ErrLoad, table)
	}
	rows, err := d.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %w", market.ErrLoad, table, err)
	}
	defer rows.Close()

	header, records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", market.ErrLoad, table, err)
	}
	for i, h := range header {
		if strings.EqualFold(h, zipColumn) {
			header[i] = zipColumn
			break
		}
	}
	applog.FromContext(ctx).DebugContext(ctx, "Loaded table snapshot",
		"table", table, "rows", len(records), "host", d.config.Host, "service", d.config.Service)
	return market.NewTable(header, records, zipColumn)
}

// rowScanner is the part of *sql.Rows that scanRecords needs.
type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanRecords drains rows as text; NULL becomes an empty cell.
func scanRecords(rows rowScanner) ([]string, [][]string, error) {
	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(header) == 0 {
		return nil, nil, errors.New("query returned no columns")
	}

	var records [][]string
	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row %d: %w", len(records)+1, err)
		}
		rec := make([]string, len(header))
		for i, c := range cells {
			if c.Valid {
				rec[i] = c.String
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return header, records, nil
}

// ParseSource splits an "oracle:TABLE" dataset path. ok is false for file paths.
func ParseSource(path string) (table string, ok bool) {
	if !strings.HasPrefix(path, SourcePrefix) {
		return "", false
	}
	return strings.TrimPrefix(path, SourcePrefix), true
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// dialect captures what differs between the SQL engines the store runs on.
type dialect struct {
	name        string
	driver      string
	createTable string
	// returningID means inserts report the new id with RETURNING instead of LastInsertId.
	returningID bool
	// positional means placeholders are $1, $2, ... rather than ?.
	positional bool
	// pragmas are appended to the DSN as _pragma query parameters.
	pragmas []string
	// maxOpenConns caps the pool when the engine allows a single writer; 0 means no cap.
	maxOpenConns int
}

const (
	dialectMySQL    = "mysql"
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

var dialects = map[string]dialect{
	dialectMySQL: {
		name:   dialectMySQL,
		driver: "mysql",
		createTable: `
			CREATE TABLE IF NOT EXISTS addresses (
				id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
				street VARCHAR(255) NOT NULL,
				city VARCHAR(255) NOT NULL,
				state VARCHAR(255) NOT NULL,
				zip CHAR(5) NOT NULL,
				latitude DOUBLE NOT NULL,
				longitude DOUBLE NOT NULL
			);
		`,
	},
	dialectSQLite: {
		name:         dialectSQLite,
		driver:       "sqlite",
		pragmas:      []string{"busy_timeout(5000)"},
		maxOpenConns: 1,
		createTable: `
			CREATE TABLE IF NOT EXISTS addresses (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				street TEXT NOT NULL,
				city TEXT NOT NULL,
				state TEXT NOT NULL,
				zip TEXT NOT NULL,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL
			);
		`,
	},
	dialectPostgres: {
		name:   dialectPostgres,
		driver: "pgx",
		createTable: `
			CREATE TABLE IF NOT EXISTS addresses (
				id BIGSERIAL PRIMARY KEY,
				street TEXT NOT NULL,
				city TEXT NOT NULL,
				state TEXT NOT NULL,
				zip CHAR(5) NOT NULL,
				latitude DOUBLE PRECISION NOT NULL,
				longitude DOUBLE PRECISION NOT NULL
			);
		`,
		returningID: true,
		positional:  true,
	},
}

func dialectFor(name string) (dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported database driver %q", name)
	}
	return d, nil
}

// open opens a pool against dsn with the engine's connection settings applied.
func (d dialect) open(dsn string) (*sql.DB, error) {
	db, err := sql.Open(d.driver, d.withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("error opening %s connection: %w", d.name, err)
	}
	if d.maxOpenConns > 0 {
		db.SetMaxOpenConns(d.maxOpenConns)
	}
	return db, nil
}

// withPragmas adds the dialect's pragmas to dsn unless it already sets them.
func (d dialect) withPragmas(dsn string) string {
	for _, pragma := range d.pragmas {
		name := pragma
		if i := strings.IndexByte(pragma, '('); i >= 0 {
			name = pragma[:i]
		}
		if strings.Contains(dsn, "_pragma="+name) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=" + pragma
	}
	return dsn
}

// rebind rewrites ? placeholders for engines that number their parameters.
func (d dialect) rebind(query string) string {
	if !d.positional {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate creates the addresses table if it does not exist yet. It runs once
// at startup, before NewSQLStore prepares statements against the table.
func Migrate(ctx context.Context, db *sql.DB, d dialect) error {
	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		return fmt.Errorf("error creating addresses table (%s): %w", d.name, err)
	}
	return nil
}

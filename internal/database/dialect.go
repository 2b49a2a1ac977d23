package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// Dialect names the SQL engine behind a *sql.DB.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Rebind rewrites ? placeholders into the engine's native form.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// LockClause returns the row locking suffix for SELECT statements.  SQLite
// has no row locks; its writers are serialized by BEGIN IMMEDIATE instead.
func (d Dialect) LockClause() string {
	if d == SQLite {
		return ""
	}
	return " FOR UPDATE"
}

// Placeholders returns n comma separated ? markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InsertID executes an INSERT written with ? placeholders and returns the
// generated id.  PostgreSQL does not support LastInsertId, so the statement
// is extended with RETURNING id there.
func (d Dialect) InsertID(ctx context.Context, ex Execer, query string, args ...any) (uint64, error) {
	if d == Postgres {
		var id uint64
		err := ex.QueryRowContext(ctx, d.Rebind(query)+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Driver names the SQL backend selected from a DSN
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DriverFor picks the backend from the DSN scheme. Anything that is not a
// postgres URL is handed to sqlite.
func DriverFor(dsn string) Driver {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

type options struct {
	maxOpenConns int
	pingTimeout  time.Duration
}

type Option func(*options)

func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		o.maxOpenConns = n
	}
}

func WithPingTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pingTimeout = d
		}
	}
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*bun.DB, error) {
	o := &options{pingTimeout: 5 * time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	var (
		db  *bun.DB
		err error
	)

	switch DriverFor(dsn) {
	case DriverPostgres:
		var sqldb *sql.DB
		sqldb, err = sql.Open("pgx", dsn)
		if err == nil {
			db = bun.NewDB(sqldb, pgdialect.New())
		}
	default:
		var sqldb *sql.DB
		sqldb, err = sql.Open(sqliteshim.ShimName, dsn)
		if err == nil {
			// sqlite serializes writers; a single connection also keeps
			// shared in-memory databases alive for the life of the pool.
			sqldb.SetMaxOpenConns(1)
			db = bun.NewDB(sqldb, sqlitedialect.New())
		}
	}

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}

	if o.maxOpenConns > 0 {
		db.SetMaxOpenConns(o.maxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, o.pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to connect to database")
	}

	return db, nil
}

// NewInMemory opens a private in-memory sqlite database
func NewInMemory(ctx context.Context) (*bun.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return Open(ctx, dsn)
}

package namedbind

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coderi421/namedbind/internal/valuer"
	"github.com/coderi421/namedbind/internal/valuer/unsafe"
	"github.com/coderi421/namedbind/model"
)

type DBOption func(*DB)

// DB is a *sql.DB together with the middlewares and row mapping used by every
// statement executed against it.
type DB struct {
	core
	db *sql.DB
}

// Open opens a database through database/sql and wraps it.
func Open(driver string, dsn string, opts ...DBOption) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return OpenDB(db, opts...)
}

// OpenDB 可以利用 OpenDB 来传入一个 mock 的 DB
func OpenDB(db *sql.DB, opts ...DBOption) (*DB, error) {
	res := &DB{
		core: core{
			r:          model.NewRegistry(),
			valCreator: unsafe.NewUnsafeValue,
		},
		db: db,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res, nil
}

func MustOpen(driver string, dsn string, opts ...DBOption) *DB {
	db, err := Open(driver, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

func DBWithMiddlewares(mdls ...Middleware) DBOption {
	return func(db *DB) {
		db.mdls = mdls
	}
}

// DBUseReflectValuer 默认使用的是 unsafe 的实现
func DBUseReflectValuer() DBOption {
	return func(db *DB) {
		db.valCreator = valuer.NewReflectValue
	}
}

func DBWithRegistry(r model.Registry) DBOption {
	return func(db *DB) {
		db.r = r
	}
}

// DBWithLenientBinding turns off the per-placeholder arity check. A binder
// that skips or repeats a value then reaches the engine, which reports the
// mismatch as an engine error.
func DBWithLenientBinding() DBOption {
	return func(db *DB) {
		db.lenient = true
	}
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, db: db}, nil
}

// DoTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when fn returns an error or panics.
func (db *DB) DoTx(ctx context.Context,
	fn func(ctx context.Context, tx *Tx) error,
	opts *sql.TxOptions) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	panicked := true
	defer func() {
		if panicked || err != nil {
			if e := tx.Rollback(); e != nil {
				err = errors.Join(err, e)
			}
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	panicked = false
	return err
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) getCore() core {
	return db.core
}

func (db *DB) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

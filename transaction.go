package namedbind

import (
	"context"
	"database/sql"
	"errors"
)

var _ Session = &Tx{}
var _ Session = &DB{}

// Session 代表一个抽象的概念，即会话
// 只有 *DB 和 *Tx 实现了它，语句在哪个会话上执行由调用者决定
type Session interface {
	getCore() core
	queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	execContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Tx struct {
	tx *sql.Tx
	db *DB
}

func (t *Tx) getCore() core {
	return t.db.core
}

func (t *Tx) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

func (t *Tx) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// RollbackIfNotCommit 已经提交或者回滚过的事务不算错误，适合放在 defer 里面
func (t *Tx) RollbackIfNotCommit() error {
	err := t.tx.Rollback()
	if !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

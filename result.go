package namedbind

import (
	"database/sql"

	"github.com/coderi421/namedbind/internal/errs"
)

// Result is the affected-rows descriptor of an Exec.
type Result struct {
	err error
	res sql.Result
}

// LastInsertId 在 sql.Result 的基础上做一层拦截
// 中间件短路之后没有 sql.Result，返回 ErrEmptyResult
func (r Result) LastInsertId() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.res == nil {
		return 0, errs.ErrEmptyResult
	}
	return r.res.LastInsertId()
}

// RowsAffected reports how many rows the statement changed, as counted by
// the driver.
func (r Result) RowsAffected() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.res == nil {
		return 0, errs.ErrEmptyResult
	}
	return r.res.RowsAffected()
}

// Err is the binding, middleware or engine error of the execution, if any.
// An execution short-circuited by a middleware without a result is not an
// error here; RowsAffected and LastInsertId report ErrEmptyResult for it.
func (r Result) Err() error {
	return r.err
}

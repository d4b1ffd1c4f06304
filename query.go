package namedbind

import (
	"context"
	"database/sql"
)

// PreparedQuery is a parsed template plus the binder that supplies its values.
// It does no I/O until Exec and may be executed any number of times; the
// binder is called again on every execution.
//
// The statement's own state never changes after construction, but the binder
// is usually a closure over caller variables and is not assumed to be
// reentrant. Do not execute one PreparedQuery from several goroutines at once;
// give each call site its own statement with a binder over its own values.
type PreparedQuery struct {
	statement
}

// NewPreparedQuery parses template once. A nil binder binds nothing.
func NewPreparedQuery(template string, binder Binder, opts ...StatementOption) (*PreparedQuery, error) {
	s, err := newStatement(template, binder, opts)
	if err != nil {
		return nil, err
	}
	return &PreparedQuery{statement: s}, nil
}

func MustNewPreparedQuery(template string, binder Binder, opts ...StatementOption) *PreparedQuery {
	q, err := NewPreparedQuery(template, binder, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

// Exec runs the statement on sess and reports the affected rows.
func (q *PreparedQuery) Exec(ctx context.Context, sess Session) Result {
	c := sess.getCore()
	qc, err := q.prepare(c, TypeExec)
	if err != nil {
		return Result{err: err}
	}

	res := exec(ctx, sess, c, qc)
	sqlRes, _ := res.Result.(sql.Result)
	return Result{
		err: res.Err,
		res: sqlRes,
	}
}

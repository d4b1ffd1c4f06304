package namedbind

import (
	"context"

	"github.com/coderi421/namedbind/internal/errs"
)

// PreparedQueryAs is a PreparedQuery whose rows decode into T.
//
// The concurrency rules of PreparedQuery apply.
//
// T may be a struct (mapped by column name, see the model package), a type
// whose pointer implements Scannable, or a scalar read from a single column.
type PreparedQueryAs[T any] struct {
	statement
}

func NewPreparedQueryAs[T any](template string, binder Binder, opts ...StatementOption) (*PreparedQueryAs[T], error) {
	s, err := newStatement(template, binder, opts)
	if err != nil {
		return nil, err
	}
	return &PreparedQueryAs[T]{statement: s}, nil
}

func MustNewPreparedQueryAs[T any](template string, binder Binder, opts ...StatementOption) *PreparedQueryAs[T] {
	q, err := NewPreparedQueryAs[T](template, binder, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

// FetchAll returns every row. No rows is an empty slice, not an error.
func (q *PreparedQueryAs[T]) FetchAll(ctx context.Context, sess Session) ([]*T, error) {
	c := sess.getCore()
	qc, err := q.prepare(c, TypeFetchAll)
	if err != nil {
		return nil, err
	}
	res := fetchAll[T](ctx, sess, c, qc)
	if res.Err != nil {
		return nil, res.Err
	}
	ts, _ := res.Result.([]*T)
	if ts == nil {
		ts = []*T{}
	}
	return ts, nil
}

// FetchOne requires exactly one row: zero rows is ErrNoRows and more than one
// is ErrTooManyRows.
func (q *PreparedQueryAs[T]) FetchOne(ctx context.Context, sess Session) (*T, error) {
	c := sess.getCore()
	qc, err := q.prepare(c, TypeFetchOne)
	if err != nil {
		return nil, err
	}
	res := fetchAtMostOne[T](ctx, sess, c, qc, true)
	if res.Err != nil {
		return nil, res.Err
	}
	t, _ := res.Result.(*T)
	if t == nil {
		// 中间件把结果吞掉了
		return nil, errs.NewErrEngine(errs.ErrNoRows)
	}
	return t, nil
}

// FetchOptional returns nil, nil when there is no row, and ErrTooManyRows
// when there is more than one.
func (q *PreparedQueryAs[T]) FetchOptional(ctx context.Context, sess Session) (*T, error) {
	c := sess.getCore()
	qc, err := q.prepare(c, TypeFetchOptional)
	if err != nil {
		return nil, err
	}
	res := fetchAtMostOne[T](ctx, sess, c, qc, false)
	if res.Err != nil {
		return nil, res.Err
	}
	t, _ := res.Result.(*T)
	return t, nil
}

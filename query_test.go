package namedbind

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T, opts ...DBOption) (*DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	db, err := OpenDB(mockDB, opts...)
	require.NoError(t, err)
	return db, mock
}

func valuesBinder(vals map[string]any) Binder {
	return func(b *Builder, name string) *Builder {
		return b.Bind(vals[name])
	}
}

func TestNewPreparedQuery(t *testing.T) {
	q, err := NewPreparedQuery("SELECT * FROM t WHERE a = :a AND b = :b AND c = :a", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = ? AND b = ? AND c = ?", q.SQL())
	assert.Equal(t, []string{":a", ":b", ":a"}, q.Order())

	// Order 返回的是副本
	q.Order()[0] = ":x"
	assert.Equal(t, []string{":a", ":b", ":a"}, q.Order())

	q, err = NewPreparedQuery("SELECT * FROM t WHERE a = :a", nil, WithDialect(PostgreSQL))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1", q.SQL())
}

func TestPreparedQuery_Exec(t *testing.T) {
	mockErr := errors.New("mock error")
	testCases := []struct {
		name      string
		template  string
		binder    Binder
		opts      []DBOption
		mockOrder func(mock sqlmock.Sqlmock)

		wantAffected int64
		wantErr      error
	}{
		{
			name:     "insert",
			template: "INSERT INTO t (a, b) VALUES (:a, :b)",
			binder:   valuesBinder(map[string]any{":a": 1, ":b": 2}),
			mockOrder: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO t (a, b) VALUES (?, ?)").
					WithArgs(1, 2).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			wantAffected: 1,
		},
		{
			name:     "duplicate name bound twice",
			template: "UPDATE t SET a = :a WHERE a <> :a",
			binder:   valuesBinder(map[string]any{":a": "x"}),
			mockOrder: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE t SET a = ? WHERE a <> ?").
					WithArgs("x", "x").
					WillReturnResult(sqlmock.NewResult(0, 3))
			},
			wantAffected: 3,
		},
		{
			name:     "no placeholder",
			template: "DELETE FROM t",
			mockOrder: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM t").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantAffected: 0,
		},
		{
			name:     "map binder",
			template: "INSERT INTO t (a, b) VALUES (:a, :b)",
			binder:   MapBinder(map[string]any{"a": 1, ":b": 2}),
			mockOrder: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO t (a, b) VALUES (?, ?)").
					WithArgs(1, 2).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			wantAffected: 1,
		},
		{
			name:     "binder returns nil",
			template: "DELETE FROM t WHERE id = :id",
			binder: func(b *Builder, name string) *Builder {
				b.Bind(7)
				return nil
			},
			mockOrder: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM t WHERE id = ?").
					WithArgs(7).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantAffected: 1,
		},
		{
			name:      "unbound",
			template:  "INSERT INTO t (a, b) VALUES (:a, :b)",
			binder:    MapBinder(map[string]any{"a": 1}),
			mockOrder: func(mock sqlmock.Sqlmock) {},
			wantErr:   ErrUnboundPlaceholder,
		},
		{
			name:     "overbound",
			template: "INSERT INTO t (a) VALUES (:a)",
			binder: func(b *Builder, name string) *Builder {
				return b.Bind(1).Bind(2)
			},
			mockOrder: func(mock sqlmock.Sqlmock) {},
			wantErr:   ErrPlaceholderOverbound,
		},
		{
			name:     "lenient unbound reaches the engine",
			template: "INSERT INTO t (a, b) VALUES (:a, :b)",
			binder:   MapBinder(map[string]any{"a": 1}),
			opts:     []DBOption{DBWithLenientBinding()},
			mockOrder: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO t (a, b) VALUES (?, ?)").
					WithArgs(1).
					WillReturnError(mockErr)
			},
			wantErr: mockErr,
		},
		{
			name:     "engine error",
			template: "INSERT INTO t (a) VALUES (:a)",
			binder:   MapBinder(map[string]any{"a": 1}),
			mockOrder: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO t (a) VALUES (?)").
					WithArgs(1).
					WillReturnError(mockErr)
			},
			wantErr: mockErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t, tc.opts...)
			tc.mockOrder(mock)

			q, err := NewPreparedQuery(tc.template, tc.binder)
			require.NoError(t, err)

			res := q.Exec(context.Background(), db)
			if tc.wantErr != nil {
				assert.ErrorIs(t, res.Err(), tc.wantErr)
				if errors.Is(tc.wantErr, mockErr) {
					assert.ErrorIs(t, res.Err(), ErrEngine)
				}
				_, err = res.RowsAffected()
				assert.Error(t, err)
			} else {
				require.NoError(t, res.Err())
				affected, err := res.RowsAffected()
				require.NoError(t, err)
				assert.Equal(t, tc.wantAffected, affected)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPreparedQuery_BinderReplay(t *testing.T) {
	db, mock := newMockDB(t)

	var names []string
	a, b := 1, 2
	q, err := NewPreparedQuery("INSERT INTO t (a, b, c) VALUES (:a, :b, :a)",
		func(bd *Builder, name string) *Builder {
			names = append(names, name)
			if name == ":a" {
				return bd.Bind(a)
			}
			return bd.Bind(b)
		})
	require.NoError(t, err)
	// 构造的时候不会调用 binder
	assert.Empty(t, names)

	mock.ExpectExec("INSERT INTO t (a, b, c) VALUES (?, ?, ?)").
		WithArgs(1, 2, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO t (a, b, c) VALUES (?, ?, ?)").
		WithArgs(3, 4, 3).
		WillReturnResult(sqlmock.NewResult(2, 1))

	res := q.Exec(context.Background(), db)
	require.NoError(t, res.Err())
	assert.Equal(t, []string{":a", ":b", ":a"}, names)

	// binder 每次执行都会重新调用，看到的是最新的值
	a, b = 3, 4
	res = q.Exec(context.Background(), db)
	require.NoError(t, res.Err())
	id, err := res.LastInsertId()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, []string{":a", ":b", ":a", ":a", ":b", ":a"}, names)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreparedQueryAs_BinderReplay(t *testing.T) {
	db, mock := newMockDB(t)

	var names []string
	q, err := NewPreparedQueryAs[int64]("SELECT id FROM t WHERE a = :a OR b = :b OR c = :a",
		func(bd *Builder, name string) *Builder {
			names = append(names, name)
			return bd.Bind(len(names))
		})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id FROM t WHERE a = ? OR b = ? OR c = ?").
		WithArgs(1, 2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT id FROM t WHERE a = ? OR b = ? OR c = ?").
		WithArgs(4, 5, 6).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	_, err = q.FetchOne(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{":a", ":b", ":a"}, names)

	ids, err := q.FetchAll(context.Background(), db)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	// 每次执行刚好调用 len(Order) 次
	assert.Equal(t, []string{":a", ":b", ":a", ":a", ":b", ":a"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreparedQuery_Exec_Canceled(t *testing.T) {
	db, mock := newMockDB(t)
	q, err := NewPreparedQuery("DELETE FROM t WHERE id = :id", MapBinder(map[string]any{"id": 1}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := q.Exec(ctx, db)
	assert.ErrorIs(t, res.Err(), ErrEngine)
	assert.ErrorIs(t, res.Err(), context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreparedQuery_Exec_Middleware(t *testing.T) {
	var qcs []*QueryContext
	var order []string
	mdl := func(tag string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, qc *QueryContext) *QueryResult {
				order = append(order, tag)
				qcs = append(qcs, qc)
				return next(ctx, qc)
			}
		}
	}
	db, mock := newMockDB(t, DBWithMiddlewares(mdl("first"), mdl("second")))
	mock.ExpectExec("UPDATE t SET a = ? WHERE id = ?").
		WithArgs("x", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	q, err := NewPreparedQuery("UPDATE t SET a = :a WHERE id = :id",
		MapBinder(map[string]any{"a": "x", "id": 1}))
	require.NoError(t, err)
	res := q.Exec(context.Background(), db)
	require.NoError(t, res.Err())

	assert.Equal(t, []string{"first", "second"}, order)
	qc := qcs[0]
	assert.Equal(t, TypeExec, qc.Type)
	assert.NotEmpty(t, qc.ID)
	assert.Equal(t, []string{":a", ":id"}, qc.Order)
	query, err := qc.Builder.Build()
	require.NoError(t, err)
	assert.Equal(t, &Query{SQL: "UPDATE t SET a = ? WHERE id = ?", Args: []any{"x", 1}}, query)
}

func TestPreparedQuery_Exec_MiddlewareShortCircuit(t *testing.T) {
	blocked := errors.New("blocked")
	testCases := []struct {
		name       string
		res        *QueryResult
		wantErr    error
		wantResErr error // RowsAffected 和 LastInsertId 返回的 error
	}{
		{
			name:       "error",
			res:        &QueryResult{Err: blocked},
			wantErr:    blocked,
			wantResErr: blocked,
		},
		{
			name:       "empty result",
			res:        &QueryResult{},
			wantResErr: ErrEmptyResult,
		},
		{
			name:       "nil result",
			wantErr:    ErrEmptyResult,
			wantResErr: ErrEngine,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t, DBWithMiddlewares(func(next Handler) Handler {
				return func(ctx context.Context, qc *QueryContext) *QueryResult {
					return tc.res
				}
			}))
			res := MustNewPreparedQuery("DELETE FROM t", nil).Exec(context.Background(), db)
			if tc.wantErr != nil {
				assert.ErrorIs(t, res.Err(), tc.wantErr)
			} else {
				assert.NoError(t, res.Err())
			}
			_, err := res.RowsAffected()
			assert.ErrorIs(t, err, tc.wantResErr)
			_, err = res.LastInsertId()
			assert.ErrorIs(t, err, tc.wantResErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDB_DoTx(t *testing.T) {
	q := MustNewPreparedQuery("UPDATE t SET a = :a", MapBinder(map[string]any{"a": 1}))
	mockErr := errors.New("mock error")

	t.Run("commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE t SET a = ?").WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := db.DoTx(context.Background(), func(ctx context.Context, tx *Tx) error {
			return q.Exec(ctx, tx).Err()
		}, nil)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE t SET a = ?").WithArgs(1).WillReturnError(mockErr)
		mock.ExpectRollback()

		err := db.DoTx(context.Background(), func(ctx context.Context, tx *Tx) error {
			return q.Exec(ctx, tx).Err()
		}, nil)
		assert.ErrorIs(t, err, mockErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on panic", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = db.DoTx(context.Background(), func(ctx context.Context, tx *Tx) error {
				panic("boom")
			}, nil)
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(mockErr)

		err := db.DoTx(context.Background(), func(ctx context.Context, tx *Tx) error {
			t.Fatal("must not run")
			return nil
		}, &sql.TxOptions{})
		assert.ErrorIs(t, err, mockErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTx_RollbackIfNotCommit(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.RollbackIfNotCommit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

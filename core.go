package namedbind

import (
	"context"
	"database/sql"

	"github.com/coderi421/namedbind/internal/errs"
	"github.com/coderi421/namedbind/internal/valuer"
	"github.com/coderi421/namedbind/model"
)

type core struct {
	r          model.Registry // 存储 struct 和列之间的映射关系
	valCreator valuer.Creator // 把一行数据写到结构体里面的实现
	mdls       []Middleware
	// lenient 为 true 的时候不检查每个占位符绑定的值的个数
	lenient bool
}

// chain 从后往前包装，mdls[0] 在最外层
func (c core) chain(root Handler) Handler {
	for i := len(c.mdls) - 1; i >= 0; i-- {
		root = c.mdls[i](root)
	}
	return root
}

// run 执行整条链路，中间件返回 nil 的时候转换成 error
func (c core) run(ctx context.Context, qc *QueryContext, root Handler) *QueryResult {
	res := c.chain(root)(ctx, qc)
	if res == nil {
		return &QueryResult{Err: errs.NewErrEngine(errs.ErrEmptyResult)}
	}
	return res
}

func exec(ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	var root Handler = func(ctx context.Context, qc *QueryContext) *QueryResult {
		q, err := qc.Builder.Build()
		if err != nil {
			return &QueryResult{Err: err}
		}
		res, err := sess.execContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return &QueryResult{Err: errs.NewErrEngine(err)}
		}
		return &QueryResult{Result: res}
	}
	return c.run(ctx, qc, root)
}

func fetchAll[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	var root Handler = func(ctx context.Context, qc *QueryContext) *QueryResult {
		rows, err := query(ctx, sess, qc)
		if err != nil {
			return &QueryResult{Err: err}
		}
		defer func() { _ = rows.Close() }()

		res := make([]*T, 0)
		for rows.Next() {
			t, err := decode[T](c, rows)
			if err != nil {
				return &QueryResult{Err: errs.NewErrEngine(err)}
			}
			res = append(res, t)
		}
		if err = rows.Err(); err != nil {
			return &QueryResult{Err: errs.NewErrEngine(err)}
		}
		return &QueryResult{Result: res}
	}
	return c.run(ctx, qc, root)
}

// fetchAtMostOne 供 FetchOne 和 FetchOptional 使用
// 读到第一行之后，只再看一眼有没有第二行
func fetchAtMostOne[T any](ctx context.Context, sess Session, c core, qc *QueryContext, required bool) *QueryResult {
	var root Handler = func(ctx context.Context, qc *QueryContext) *QueryResult {
		rows, err := query(ctx, sess, qc)
		if err != nil {
			return &QueryResult{Err: err}
		}
		defer func() { _ = rows.Close() }()

		if !rows.Next() {
			if err = rows.Err(); err != nil {
				return &QueryResult{Err: errs.NewErrEngine(err)}
			}
			if required {
				return &QueryResult{Err: errs.NewErrEngine(errs.ErrNoRows)}
			}
			return &QueryResult{}
		}

		t, err := decode[T](c, rows)
		if err != nil {
			return &QueryResult{Err: errs.NewErrEngine(err)}
		}
		if rows.Next() {
			return &QueryResult{Err: errs.NewErrEngine(errs.ErrTooManyRows)}
		}
		if err = rows.Err(); err != nil {
			return &QueryResult{Err: errs.NewErrEngine(err)}
		}
		return &QueryResult{Result: t}
	}
	return c.run(ctx, qc, root)
}

func query(ctx context.Context, sess Session, qc *QueryContext) (*sql.Rows, error) {
	q, err := qc.Builder.Build()
	if err != nil {
		return nil, err
	}
	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, errs.NewErrEngine(err)
	}
	return rows, nil
}

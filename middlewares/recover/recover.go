package recover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coderi421/namedbind"
)

// ErrPanic wraps a value recovered from a panic further down the chain.
var ErrPanic = errors.New("namedbind: panic during execution")

type MiddlewareBuilder struct {
	LogFunc func(ctx context.Context, qc *namedbind.QueryContext, err any)
}

// Build 把后面的中间件和解码过程中的 panic 转换成 error
func (m MiddlewareBuilder) Build() namedbind.Middleware {
	return func(next namedbind.Handler) namedbind.Handler {
		return func(ctx context.Context, qc *namedbind.QueryContext) (res *namedbind.QueryResult) {
			defer func() {
				if err := recover(); err != nil {
					// 万一 LogFunc 也 panic，那我们也无能为力了
					if m.LogFunc != nil {
						m.LogFunc(ctx, qc, err)
					} else {
						slog.ErrorContext(ctx, "namedbind: recovered from panic",
							"id", qc.ID, "type", qc.Type, "panic", err)
					}
					res = &namedbind.QueryResult{Err: fmt.Errorf("%w: %v", ErrPanic, err)}
				}
			}()
			return next(ctx, qc)
		}
	}
}

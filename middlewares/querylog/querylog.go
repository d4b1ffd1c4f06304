package querylog

import (
	"context"
	"log/slog"
	"time"

	"github.com/coderi421/namedbind"
)

type MiddlewareBuilder struct {
	logFunc func(query string, args []any)
	logger  *slog.Logger
}

func NewBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{}
}

// LogFunc 在发送给数据库之前调用，只拿到 SQL 和参数
func (m *MiddlewareBuilder) LogFunc(fn func(query string, args []any)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

// Logger sets the slog logger used when no LogFunc is given. It defaults to
// slog.Default().
func (m *MiddlewareBuilder) Logger(l *slog.Logger) *MiddlewareBuilder {
	m.logger = l
	return m
}

func (m *MiddlewareBuilder) Build() namedbind.Middleware {
	return func(next namedbind.Handler) namedbind.Handler {
		return func(ctx context.Context, qc *namedbind.QueryContext) *namedbind.QueryResult {
			q, err := qc.Builder.Build()
			if err != nil {
				return &namedbind.QueryResult{Err: err}
			}
			if m.logFunc != nil {
				m.logFunc(q.SQL, q.Args)
				return next(ctx, qc)
			}

			start := time.Now()
			res := next(ctx, qc)
			l := m.logger
			if l == nil {
				l = slog.Default()
			}
			attrs := []slog.Attr{
				slog.String("id", qc.ID),
				slog.String("type", qc.Type),
				slog.String("sql", q.SQL),
				slog.Any("args", q.Args),
				slog.Duration("duration", time.Since(start)),
			}
			if res.Err != nil {
				attrs = append(attrs, slog.Any("err", res.Err))
				l.LogAttrs(ctx, slog.LevelError, "namedbind: query failed", attrs...)
				return res
			}
			l.LogAttrs(ctx, slog.LevelDebug, "namedbind: query", attrs...)
			return res
		}
	}
}

package opentelemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/coderi421/namedbind"
)

const instrumentationName = "github.com/coderi421/namedbind/middlewares/opentelemetry"

type MiddlewareBuilder struct {
	// Tracer 可以由用户传递进来，不传就用全局的 TracerProvider
	Tracer trace.Tracer
}

func (m MiddlewareBuilder) Build() namedbind.Middleware {
	if m.Tracer == nil {
		m.Tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(next namedbind.Handler) namedbind.Handler {
		return func(ctx context.Context, qc *namedbind.QueryContext) *namedbind.QueryResult {
			ctx, span := m.Tracer.Start(ctx, "namedbind."+qc.Type, trace.WithSpanKind(trace.SpanKindClient))
			defer span.End()

			span.SetAttributes(
				attribute.String("namedbind.id", qc.ID),
				attribute.String("namedbind.type", qc.Type),
				attribute.StringSlice("namedbind.placeholders", qc.Order),
			)
			if q, err := qc.Builder.Build(); err == nil {
				span.SetAttributes(attribute.String("db.statement", q.SQL))
			}

			res := next(ctx, qc)
			if res.Err != nil {
				span.RecordError(res.Err)
				span.SetStatus(codes.Error, res.Err.Error())
			}
			return res
		}
	}
}

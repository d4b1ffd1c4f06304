package prometheus

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coderi421/namedbind"
)

type MiddlewareBuilder struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
	// Registerer 默认是 prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

func (m MiddlewareBuilder) Build() namedbind.Middleware {
	vector := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:      m.Name,
		Subsystem: m.Subsystem,
		Namespace: m.Namespace,
		Help:      m.Help,
		Objectives: map[float64]float64{
			0.5:   0.01,
			0.75:  0.01,
			0.90:  0.01,
			0.99:  0.001,  // 99 线
			0.999: 0.0001, // 999 线
		},
	}, []string{"type", "status"})

	reg := m.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(vector)

	return func(next namedbind.Handler) namedbind.Handler {
		return func(ctx context.Context, qc *namedbind.QueryContext) (res *namedbind.QueryResult) {
			startTime := time.Now()
			defer func() {
				status := "ok"
				if res == nil || res.Err != nil {
					status = "error"
				}
				vector.WithLabelValues(qc.Type, status).
					Observe(float64(time.Since(startTime).Microseconds()))
			}()
			return next(ctx, qc)
		}
	}
}

// Package metrics は gRPC 呼び出しの Prometheus メトリクスを提供します。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics は RPC ごとの件数と処理時間を保持します。
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter
}

// New は reg にメトリクスを登録して返します。
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ems_grpc_requests_total",
			Help: "Total number of handled gRPC requests",
		}, []string{"method", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ems_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "ems_grpc_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		}),
	}
}

// ObserveRequest は 1 件の RPC 結果を記録します。start には処理開始時刻を渡します。
func (m *Metrics) ObserveRequest(method, code string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, code).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// IncrementRateLimited はレート制限で拒否した件数を加算します。
func (m *Metrics) IncrementRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("/ems.employee.v1.EmployeeService/GetEmployee", "OK", time.Now())
	m.ObserveRequest("/ems.employee.v1.EmployeeService/GetEmployee", "OK", time.Now())
	m.ObserveRequest("/ems.employee.v1.EmployeeService/GetEmployee", "NotFound", time.Now())
	m.IncrementRateLimited()

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				byName[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				byName[mf.GetName()] += float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	require.Equal(t, 3.0, byName["ems_grpc_requests_total"])
	require.Equal(t, 3.0, byName["ems_grpc_request_duration_seconds"])
	require.Equal(t, 1.0, byName["ems_grpc_rate_limited_total"])
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveRequest("x", "OK", time.Now())
	m.IncrementRateLimited()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

var (
	RunInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "zoobench_run_info",
		Help: "1 if a benchmark run is currently active",
	}, []string{"namespace", "run_id"})

	LoadRunDuration = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "zoobench_load_run_duration_seconds",
		Help: "Elapsed wall-clock time of the last load run per mode",
	}, []string{"mode"})

	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zoobench_requests_total",
		Help: "Data channel requests issued by the load generator",
	}, []string{"mode", "outcome"})

	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zoobench_errors_total",
		Help: "Total number of errors during benchmark",
	}, []string{"type"})

	PhaseTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zoobench_phase_total",
		Help: "Count of phase markers emitted",
	}, []string{"phase"})

	WorkloadRestarts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "zoobench_workload_restarts",
		Help: "Container restarts of the workload pod",
	})
)

var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(RunInfo)
	Registry.MustRegister(LoadRunDuration)
	Registry.MustRegister(RequestsTotal)
	Registry.MustRegister(ErrorsTotal)
	Registry.MustRegister(PhaseTotal)
	Registry.MustRegister(WorkloadRestarts)
}

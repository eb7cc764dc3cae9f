package metrics

import "time"

func RecordRequest(mode, outcome string) {
	RequestsTotal.WithLabelValues(mode, outcome).Inc()
}

func RecordLoadRun(mode string, elapsed time.Duration) {
	LoadRunDuration.WithLabelValues(mode).Set(elapsed.Seconds())
}

func RecordPhase(name string) {
	PhaseTotal.WithLabelValues(name).Inc()
}

func RecordError(kind string) {
	ErrorsTotal.WithLabelValues(kind).Inc()
}

func RecordSample(sample Sample) {
	WorkloadRestarts.Set(float64(sample.Restarts))
}

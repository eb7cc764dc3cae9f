package benchmark

import (
	"time"

	"k8s-zoo-benchmark/pkg/metrics"
	"k8s-zoo-benchmark/pkg/report"
)

// computeReadyLag measures how long after provision:ready the workload pod
// first reported ready.
func computeReadyLag(samples []metrics.Sample, phases []report.PhaseMarker) float64 {
	start := findPhaseTime(phases, "provision:ready")
	if start.IsZero() {
		return -1
	}
	for _, sample := range samples {
		if sample.Time.Before(start) {
			continue
		}
		if sample.Ready {
			return sample.Time.Sub(start).Seconds()
		}
	}
	return -1
}

func computePhaseSpan(phases []report.PhaseMarker, from, to string) float64 {
	start := findPhaseTime(phases, from)
	end := findPhaseTime(phases, to)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return -1
	}
	return end.Sub(start).Seconds()
}

func findPhaseTime(phases []report.PhaseMarker, name string) time.Time {
	for _, phase := range phases {
		if phase.Name == name {
			return phase.Time
		}
	}
	return time.Time{}
}

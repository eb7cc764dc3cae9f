package benchmark

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/metrics"
	"k8s-zoo-benchmark/pkg/report"

	"k8s.io/client-go/kubernetes"
)

// PhaseSample is a workload pod observation taken at a phase marker.
type PhaseSample struct {
	Phase  string         `json:"phase"`
	Sample metrics.Sample `json:"sample"`
}

type PhaseRecorder struct {
	client kubernetes.Interface
	opts   metrics.SampleOptions
	logger *slog.Logger

	mu      sync.Mutex
	phases  []report.PhaseMarker
	samples []PhaseSample
}

func NewPhaseRecorder(client kubernetes.Interface, opts metrics.SampleOptions, logger *slog.Logger) *PhaseRecorder {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &PhaseRecorder{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

// Record stores a phase marker. Load boundaries also capture the workload
// pod state; a failed capture is logged and does not fail the phase.
func (p *PhaseRecorder) Record(ctx context.Context, name string) error {
	now := time.Now()
	p.mu.Lock()
	p.phases = append(p.phases, report.PhaseMarker{Name: name, Time: now})
	p.mu.Unlock()
	metrics.RecordPhase(name)

	if name != "load:start" && name != "load:done" {
		return nil
	}
	if p.client == nil {
		return nil
	}

	sample, err := metrics.CollectSample(ctx, p.client, p.opts)
	if err != nil {
		p.logger.Warn("workload sample failed", logging.StringField("phase", name), logging.ErrorField(err))
		return nil
	}

	p.mu.Lock()
	p.samples = append(p.samples, PhaseSample{Phase: name, Sample: sample})
	p.mu.Unlock()

	p.logger.Info(sampleDoneMessage(name),
		logging.StringField("pod_phase", sample.Phase),
		logging.IntField("restarts", int(sample.Restarts)),
		logging.StringField("node", sample.NodeName),
	)
	return nil
}

func (p *PhaseRecorder) Phases() []report.PhaseMarker {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]report.PhaseMarker, len(p.phases))
	copy(out, p.phases)
	return out
}

func (p *PhaseRecorder) Samples() []PhaseSample {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PhaseSample, len(p.samples))
	copy(out, p.samples)
	return out
}

func sampleDoneMessage(name string) string {
	switch name {
	case "load:start":
		return "workload sample before load"
	case "load:done":
		return "workload sample after load"
	default:
		return "workload sample " + strings.ReplaceAll(name, ":", " ")
	}
}

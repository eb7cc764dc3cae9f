package benchmark

import (
	"context"
	"errors"
	"time"

	"k8s-zoo-benchmark/pkg/loadgen"
	"k8s-zoo-benchmark/pkg/workload"
)

const DefaultSettleDelay = 2 * time.Second

// ErrInterrupted marks a session cut short by the operator.
var ErrInterrupted = errors.New("benchmark interrupted")

// ControlChannel switches the workload between operating modes.
type ControlChannel interface {
	Start(ctx context.Context, mode workload.Mode) error
	Stop(ctx context.Context) error
}

// LoadRunner executes a single load run against the workload.
type LoadRunner interface {
	Run(ctx context.Context, label string, profile loadgen.LoadProfile) (loadgen.RunResult, error)
}

type SessionConfig struct {
	Modes   []workload.Mode
	Profile loadgen.LoadProfile

	// SettleDelay is waited before the mode switch and again before the load
	// run. The workload listener may lag behind pod readiness.
	SettleDelay      time.Duration
	StopBetweenModes bool
	RecordPhase      func(name string) error
}

func DefaultSessionConfig(profile loadgen.LoadProfile) SessionConfig {
	return SessionConfig{
		Modes:            workload.DefaultModes(),
		Profile:          profile,
		SettleDelay:      DefaultSettleDelay,
		StopBetweenModes: true,
	}
}

// Entry is the outcome of the load run for one mode.
type Entry struct {
	Mode          workload.Mode       `json:"mode"`
	Profile       loadgen.LoadProfile `json:"profile"`
	Start         time.Time           `json:"start"`
	Elapsed       time.Duration       `json:"elapsed"`
	Issued        int64               `json:"issued"`
	Succeeded     int64               `json:"succeeded"`
	Failed        int64               `json:"failed"`
	ModeConfirmed bool                `json:"mode_confirmed"`
	Interrupted   bool                `json:"interrupted,omitempty"`
}

// Result holds one entry per executed mode, in execution order.
type Result struct {
	Start   time.Time     `json:"start"`
	End     time.Time     `json:"end"`
	Entries []Entry       `json:"entries"`
	Elapsed time.Duration `json:"elapsed"`
}

func (r Result) Entry(mode workload.Mode) (Entry, bool) {
	for _, entry := range r.Entries {
		if entry.Mode == mode {
			return entry, true
		}
	}
	return Entry{}, false
}

// Slowdown is the elapsed time of mode relative to baseline.
func (r Result) Slowdown(baseline, mode workload.Mode) (float64, bool) {
	base, ok := r.Entry(baseline)
	if !ok || base.Elapsed <= 0 || base.Interrupted {
		return 0, false
	}
	other, ok := r.Entry(mode)
	if !ok || other.Interrupted {
		return 0, false
	}
	return float64(other.Elapsed) / float64(base.Elapsed), true
}

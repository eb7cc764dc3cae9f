package report

import (
	"time"

	"k8s-zoo-benchmark/pkg/benchmark"
	"k8s-zoo-benchmark/pkg/loadgen"
	"k8s-zoo-benchmark/pkg/metrics"
	"k8s-zoo-benchmark/pkg/workload"
)

type RunConfig struct {
	RunID        string              `json:"run_id"`
	SessionID    string              `json:"session_id"`
	Namespace    string              `json:"namespace"`
	Image        string              `json:"image"`
	Host         string              `json:"host"`
	Context      string              `json:"context"`
	Server       string              `json:"server"`
	Modes        []string            `json:"modes"`
	Profile      loadgen.LoadProfile `json:"profile"`
	SettleDelay  string              `json:"settle_delay"`
	PollInterval string              `json:"poll_interval"`
	StartTime    time.Time           `json:"start_time"`
}

type PhaseMarker struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"`
}

type ModeSummary struct {
	Mode           string  `json:"mode"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Succeeded      int64   `json:"succeeded"`
	Failed         int64   `json:"failed"`
	ModeConfirmed  bool    `json:"mode_confirmed"`
}

type Summary struct {
	RunID            string        `json:"run_id"`
	DurationSeconds  float64       `json:"duration_seconds"`
	Modes            []ModeSummary `json:"modes"`
	ProvisionSeconds float64       `json:"provision_seconds"`

	// Slowdown is SerializeBackup elapsed over NoBackup elapsed, 0 when
	// either run is missing.
	Slowdown    float64 `json:"slowdown"`
	MaxRestarts int32   `json:"max_restarts"`

	// ReadyLagSeconds runs from pod start to the first ready sample, -1 when
	// no ready sample was observed.
	ReadyLagSeconds float64 `json:"ready_lag_seconds"`
}

// Report is the JSON document written at the end of a run.
type Report struct {
	Config  RunConfig        `json:"config"`
	Phases  []PhaseMarker    `json:"phases"`
	Result  benchmark.Result `json:"result"`
	Samples []metrics.Sample `json:"samples"`
	Summary Summary          `json:"summary"`
	Error   string           `json:"error,omitempty"`
}

func BuildSummary(runID string, duration time.Duration, result benchmark.Result, samples []metrics.Sample) Summary {
	summary := Summary{
		RunID:           runID,
		DurationSeconds: duration.Seconds(),
		Modes:           make([]ModeSummary, 0, len(result.Entries)),
		MaxRestarts:     metrics.MaxRestarts(samples),
	}
	for _, entry := range result.Entries {
		summary.Modes = append(summary.Modes, ModeSummary{
			Mode:           entry.Mode.String(),
			ElapsedSeconds: entry.Elapsed.Seconds(),
			Succeeded:      entry.Succeeded,
			Failed:         entry.Failed,
			ModeConfirmed:  entry.ModeConfirmed,
		})
	}
	if slowdown, ok := result.Slowdown(workload.ModeNoBackup, workload.ModeSerializeBackup); ok {
		summary.Slowdown = slowdown
	}
	return summary
}

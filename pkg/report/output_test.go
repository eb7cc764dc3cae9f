package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"k8s-zoo-benchmark/pkg/benchmark"
	"k8s-zoo-benchmark/pkg/loadgen"
	"k8s-zoo-benchmark/pkg/metrics"
	"k8s-zoo-benchmark/pkg/workload"

	"github.com/google/go-cmp/cmp"
)

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")
	payload := map[string]any{"ok": true}

	if err := WriteJSON(path, payload); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["ok"] != true {
		t.Fatalf("expected ok=true, got %v", decoded["ok"])
	}
}

func TestBuildSummary(t *testing.T) {
	profile := loadgen.LoadProfile{Workers: 2, RequestsPerWorker: 10, PayloadSize: 1}
	result := benchmark.Result{Entries: []benchmark.Entry{
		{Mode: workload.ModeNoBackup, Profile: profile, Elapsed: 2 * time.Second, Succeeded: 20, ModeConfirmed: true},
		{Mode: workload.ModeSerializeBackup, Profile: profile, Elapsed: 3 * time.Second, Succeeded: 18, Failed: 2},
	}}
	samples := []metrics.Sample{{Restarts: 0}, {Restarts: 1}}

	got := BuildSummary("20260209-000000", 10*time.Second, result, samples)
	want := Summary{
		RunID:           "20260209-000000",
		DurationSeconds: 10,
		Modes: []ModeSummary{
			{Mode: "NoBackup", ElapsedSeconds: 2, Succeeded: 20, ModeConfirmed: true},
			{Mode: "SerializeBackup", ElapsedSeconds: 3, Succeeded: 18, Failed: 2},
		},
		Slowdown:    1.5,
		MaxRestarts: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSummaryWithoutBaseline(t *testing.T) {
	result := benchmark.Result{Entries: []benchmark.Entry{
		{Mode: workload.ModeSerializeBackup, Elapsed: time.Second},
	}}
	got := BuildSummary("id", time.Second, result, nil)
	if got.Slowdown != 0 {
		t.Fatalf("expected no slowdown, got %f", got.Slowdown)
	}
	if len(got.Modes) != 1 {
		t.Fatalf("expected 1 mode, got %d", len(got.Modes))
	}
}

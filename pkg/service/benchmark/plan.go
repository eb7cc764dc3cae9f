package benchmark

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"k8s-zoo-benchmark/pkg/service/cleanup"
	"k8s-zoo-benchmark/pkg/workload"

	"github.com/google/uuid"
)

const (
	DefaultNamespace  = "zebra-zoo"
	defaultResultsDir = "results"
	runLabel          = "zoobench.io/run"
)

type Plan struct {
	RunID         string
	SessionID     string
	Namespace     string
	OutputPath    string
	Labels        map[string]string
	LabelSelector string
	Modes         []workload.Mode
}

type PlanBuilder struct {
	Now   func() time.Time
	NewID func() string
}

func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{Now: time.Now, NewID: uuid.NewString}
}

func (b *PlanBuilder) Build(cfg RunConfig) (Plan, error) {
	if cfg.Image == "" {
		return Plan{}, fmt.Errorf("--image is required")
	}
	if err := cfg.Profile.Validate(); err != nil {
		return Plan{}, err
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}
	newID := b.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	runID := now().Format("20060102-150405")

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	outPath := cfg.OutputPath
	if outPath == "" {
		outPath = filepath.Join(defaultResultsDir, fmt.Sprintf("zoobench-%s.json", runID))
	}

	modes := cfg.Modes
	if len(modes) == 0 {
		modes = workload.DefaultModes()
	}

	labels := map[string]string{
		cleanup.ManagedLabel: "true",
		runLabel:             runID,
	}

	return Plan{
		RunID:         runID,
		SessionID:     newID(),
		Namespace:     namespace,
		OutputPath:    outPath,
		Labels:        labels,
		LabelSelector: labelsToSelector(labels),
		Modes:         modes,
	}, nil
}

func labelsToSelector(labels map[string]string) string {
	parts := make([]string, 0, len(labels))
	for k, v := range labels {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

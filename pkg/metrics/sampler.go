package metrics

import (
	"context"
	"sync"
	"time"

	"k8s-zoo-benchmark/pkg/k8s"

	"k8s.io/client-go/kubernetes"
)

// Sample is one observation of the workload pod.
type Sample struct {
	Time     time.Time `json:"time"`
	Phase    string    `json:"phase"`
	Ready    bool      `json:"ready"`
	Restarts int32     `json:"restarts"`
	NodeName string    `json:"node_name"`
}

type SampleOptions struct {
	Namespace string
	PodName   string
}

func CollectSample(ctx context.Context, client kubernetes.Interface, opts SampleOptions) (Sample, error) {
	pod, err := k8s.GetPod(ctx, client, opts.Namespace, opts.PodName)
	if err != nil {
		return Sample{Time: time.Now()}, err
	}
	return Sample{
		Time:     time.Now(),
		Phase:    string(pod.Status.Phase),
		Ready:    k8s.IsPodReady(pod),
		Restarts: k8s.PodRestarts(pod),
		NodeName: pod.Spec.NodeName,
	}, nil
}

// Sampler records workload pod state at a fixed interval until its context ends.
type Sampler struct {
	client   kubernetes.Interface
	interval time.Duration
	opts     SampleOptions

	mu      sync.Mutex
	samples []Sample
}

func NewSampler(client kubernetes.Interface, interval time.Duration, opts SampleOptions) *Sampler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Sampler{
		client:   client,
		interval: interval,
		opts:     opts,
	}
}

func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		sample, err := CollectSample(ctx, s.client, s.opts)
		if err == nil {
			s.mu.Lock()
			s.samples = append(s.samples, sample)
			s.mu.Unlock()
			RecordSample(sample)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Sampler) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// MaxRestarts returns the highest restart count observed.
func MaxRestarts(samples []Sample) int32 {
	var highest int32
	for _, sample := range samples {
		if sample.Restarts > highest {
			highest = sample.Restarts
		}
	}
	return highest
}

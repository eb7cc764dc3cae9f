package metrics

import (
	"context"
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestCollectSample(t *testing.T) {
	client := fake.NewSimpleClientset(&corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "zoo-node", Namespace: "zoo"},
		Spec:       corev1.PodSpec{NodeName: "worker-1"},
		Status: corev1.PodStatus{
			Phase:             corev1.PodRunning,
			ContainerStatuses: []corev1.ContainerStatus{{RestartCount: 2}},
			Conditions:        []corev1.PodCondition{{Type: corev1.PodReady, Status: corev1.ConditionTrue}},
		},
	})

	sample, err := CollectSample(context.Background(), client, SampleOptions{Namespace: "zoo", PodName: "zoo-node"})
	if err != nil {
		t.Fatalf("CollectSample failed: %v", err)
	}
	if sample.Phase != "Running" || !sample.Ready || sample.Restarts != 2 || sample.NodeName != "worker-1" {
		t.Fatalf("unexpected sample: %+v", sample)
	}
}

func TestSamplerStopsOnCancel(t *testing.T) {
	client := fake.NewSimpleClientset(&corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "zoo-node", Namespace: "zoo"},
		Status:     corev1.PodStatus{Phase: corev1.PodRunning},
	})
	sampler := NewSampler(client, time.Millisecond, SampleOptions{Namespace: "zoo", PodName: "zoo-node"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sampler.Run(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sampler did not stop")
	}
	if len(sampler.Samples()) == 0 {
		t.Fatalf("expected at least one sample")
	}
}

func TestMaxRestarts(t *testing.T) {
	samples := []Sample{{Restarts: 1}, {Restarts: 4}, {Restarts: 2}}
	if got := MaxRestarts(samples); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := MaxRestarts(nil); got != 0 {
		t.Fatalf("expected 0 for no samples, got %d", got)
	}
}

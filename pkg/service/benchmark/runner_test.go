package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"k8s-zoo-benchmark/pkg/loadgen"
	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/service/cleanup"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func readyNode(name string) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}},
		},
	}
}

func runningPods(client *fake.Clientset) {
	client.PrependReactor("get", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		get := action.(k8stesting.GetAction)
		return true, &corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: get.GetName(), Namespace: get.GetNamespace()},
			Spec:       corev1.PodSpec{NodeName: "node-1"},
			Status: corev1.PodStatus{
				Phase:      corev1.PodRunning,
				Conditions: []corev1.PodCondition{{Type: corev1.PodReady, Status: corev1.ConditionTrue}},
			},
		}, nil
	})
}

type stubWorkload struct {
	starts       atomic.Int64
	stops        atomic.Int64
	transactions atomic.Int64
}

func newStubWorkload(t *testing.T) (*stubWorkload, string, int32) {
	t.Helper()
	stub := &stubWorkload{}
	router := chi.NewRouter()
	router.Post("/start", func(w http.ResponseWriter, _ *http.Request) {
		stub.starts.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/stop", func(w http.ResponseWriter, _ *http.Request) {
		stub.stops.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	router.Post("/transaction", func(w http.ResponseWriter, _ *http.Request) {
		stub.transactions.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)
	return stub, parsed.Hostname(), int32(port)
}

func TestRunnerEndToEnd(t *testing.T) {
	client := fake.NewSimpleClientset(readyNode("node-1"))
	runningPods(client)
	stub, host, port := newStubWorkload(t)

	outPath := filepath.Join(t.TempDir(), "report.json")
	var table bytes.Buffer
	runner := Runner{
		Client: client,
		Logger: logging.Discard(),
		Out:    &table,
	}
	err := runner.Run(context.Background(), RunConfig{
		Image:           "zoo-node:test",
		Host:            host,
		Profile:         loadgen.LoadProfile{Workers: 2, RequestsPerWorker: 5, PayloadSize: 1},
		PollInterval:    time.Millisecond,
		SampleInterval:  time.Millisecond,
		ControlNodePort: port,
		DataNodePort:    port,
		OutputPath:      outPath,
	})
	require.NoError(t, err)

	require.Equal(t, int64(2), stub.starts.Load())
	require.Equal(t, int64(2), stub.stops.Load())
	require.Equal(t, int64(20), stub.transactions.Load())

	_, err = client.CoreV1().Namespaces().Get(context.Background(), DefaultNamespace, metav1.GetOptions{})
	require.Error(t, err, "namespace should be torn down")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var decoded struct {
		Config struct {
			Namespace string   `json:"namespace"`
			Modes     []string `json:"modes"`
		} `json:"config"`
		Phases []struct {
			Name string `json:"name"`
		} `json:"phases"`
		Result struct {
			Entries []struct {
				Mode      string `json:"mode"`
				Succeeded int64  `json:"succeeded"`
			} `json:"entries"`
		} `json:"result"`
		PhaseSamples []PhaseSample `json:"phase_samples"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, DefaultNamespace, decoded.Config.Namespace)
	require.Equal(t, []string{"NoBackup", "SerializeBackup"}, decoded.Config.Modes)
	require.Len(t, decoded.Result.Entries, 2)
	require.Equal(t, int64(10), decoded.Result.Entries[1].Succeeded)
	require.Equal(t, "provision:start", decoded.Phases[0].Name)
	require.Len(t, decoded.PhaseSamples, 4)

	require.Contains(t, table.String(), "SerializeBackup")
}

func TestRunnerRefusesExistingNamespace(t *testing.T) {
	client := fake.NewSimpleClientset(
		readyNode("node-1"),
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: DefaultNamespace}},
	)
	runner := Runner{Client: client, Logger: logging.Discard()}
	err := runner.Run(context.Background(), RunConfig{
		Image:   "zoo-node:test",
		Profile: loadgen.LoadProfile{Workers: 1, RequestsPerWorker: 1, PayloadSize: 1},
	})
	require.Error(t, err)

	_, err = client.CoreV1().Namespaces().Get(context.Background(), DefaultNamespace, metav1.GetOptions{})
	require.NoError(t, err, "existing namespace must be left alone")
}

func TestRunnerTearsDownWhenHostUnresolved(t *testing.T) {
	// Node without addresses: provisioning succeeds, host discovery fails.
	client := fake.NewSimpleClientset(readyNode("node-1"))
	runningPods(client)

	runner := Runner{
		Client:  client,
		Logger:  logging.Discard(),
		Cleanup: cleanup.NewCleanupService(client, nil, logging.Discard()),
	}
	err := runner.Run(context.Background(), RunConfig{
		Image:        "zoo-node:test",
		Profile:      loadgen.LoadProfile{Workers: 1, RequestsPerWorker: 1, PayloadSize: 1},
		PollInterval: time.Millisecond,
		OutputPath:   filepath.Join(t.TempDir(), "report.json"),
	})
	require.Error(t, err)

	_, err = client.CoreV1().Namespaces().Get(context.Background(), DefaultNamespace, metav1.GetOptions{})
	require.Error(t, err, "namespace should be torn down")
}

func TestRunnerRequiresClient(t *testing.T) {
	runner := Runner{}
	require.Error(t, runner.Run(context.Background(), RunConfig{}))
}

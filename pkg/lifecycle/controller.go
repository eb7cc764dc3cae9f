package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"k8s-zoo-benchmark/pkg/k8s"
	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/workload"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
)

// WorkloadName names the workload pod and its service.
const WorkloadName = "zoo-node"

const (
	DefaultPollInterval    = 10 * time.Millisecond
	DefaultControlNodePort = 30080
	DefaultDataNodePort    = 30030

	selectorLabel     = "app.kubernetes.io/name"
	controlPortName   = "control"
	dataPortName      = "transaction"
	controlTargetPort = 8000
	dataTargetPort    = 3000
	actionCreated     = "created"
	actionDeleted     = "deleted"
	resourceNamespace = "namespace"
	resourcePod       = "pod"
	resourceService   = "service"
)

// Config holds polling bounds and the fixed ports of the workload service.
// Zero timeouts wait until the context is cancelled.
type Config struct {
	PollInterval    time.Duration
	ReadyTimeout    time.Duration
	DeleteTimeout   time.Duration
	ControlNodePort int32
	DataNodePort    int32
	Labels          map[string]string

	// Notify receives created/deleted resource events for the presentation layer.
	Notify func(event Event)
}

// Event reports a resource state change.
type Event struct {
	Action    string
	Kind      string
	Namespace string
	Name      string
}

// Environment is the handle returned once the workload is deployed.
type Environment struct {
	Namespace       string
	PodName         string
	ServiceName     string
	Image           string
	Mode            workload.Mode
	ControlNodePort int32
	DataNodePort    int32
	PodPhase        corev1.PodPhase
	PodPolls        int
	CreatedAt       time.Time
}

type Controller struct {
	client kubernetes.Interface
	cfg    Config
	logger *slog.Logger
}

func NewController(client kubernetes.Interface, cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ControlNodePort == 0 {
		cfg.ControlNodePort = DefaultControlNodePort
	}
	if cfg.DataNodePort == 0 {
		cfg.DataNodePort = DefaultDataNodePort
	}
	return &Controller{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Provision creates the namespace, the workload pod and its service. A
// namespace that already exists is reported, not reused.
func (c *Controller) Provision(ctx context.Context, name, image string, mode workload.Mode) (*Environment, error) {
	if name == "" {
		return nil, fmt.Errorf("namespace name is required")
	}
	if image == "" {
		return nil, fmt.Errorf("workload image is required")
	}

	if _, err := k8s.CreateNamespace(ctx, c.client, name, c.cfg.Labels); err != nil {
		return nil, err
	}
	c.notify(actionCreated, resourceNamespace, "", name)
	c.logger.Info("namespace created", logging.StringField("namespace", name))

	podLabels := c.podLabels()
	if _, err := k8s.CreatePod(ctx, c.client, k8s.PodConfig{
		Namespace: name,
		Name:      WorkloadName,
		Image:     image,
		Labels:    podLabels,
		Env:       map[string]string{workload.ModeEnvVar: mode.String()},
		Ports: []k8s.NamedPort{
			{Name: controlPortName, Port: controlTargetPort},
			{Name: dataPortName, Port: dataTargetPort},
		},
	}); err != nil {
		return nil, err
	}
	c.notify(actionCreated, resourcePod, name, WorkloadName)
	c.logger.Info("pod created",
		logging.StringField("namespace", name),
		logging.StringField("pod", WorkloadName),
		logging.StringField("image", image),
		logging.StringField("mode", mode.String()),
	)

	phase, polls, err := c.waitForPodStarted(ctx, name, WorkloadName)
	if err != nil {
		return nil, err
	}
	c.logger.Info("pod started",
		logging.StringField("pod", WorkloadName),
		logging.StringField("phase", string(phase)),
		logging.IntField("polls", polls),
	)

	if _, err := k8s.CreateService(ctx, c.client, k8s.ServiceConfig{
		Namespace: name,
		Name:      WorkloadName,
		Labels:    c.cfg.Labels,
		Selector:  map[string]string{selectorLabel: WorkloadName},
		Ports: []k8s.ServicePort{
			{Name: controlPortName, Port: controlTargetPort, TargetPort: controlTargetPort, NodePort: c.cfg.ControlNodePort},
			{Name: dataPortName, Port: dataTargetPort, TargetPort: dataTargetPort, NodePort: c.cfg.DataNodePort},
		},
	}); err != nil {
		return nil, err
	}
	c.notify(actionCreated, resourceService, name, WorkloadName)
	c.logger.Info("service created",
		logging.StringField("service", WorkloadName),
		logging.StringField("control_node_port", fmt.Sprintf("%d", c.cfg.ControlNodePort)),
		logging.StringField("data_node_port", fmt.Sprintf("%d", c.cfg.DataNodePort)),
	)

	return &Environment{
		Namespace:       name,
		PodName:         WorkloadName,
		ServiceName:     WorkloadName,
		Image:           image,
		Mode:            mode,
		ControlNodePort: c.cfg.ControlNodePort,
		DataNodePort:    c.cfg.DataNodePort,
		PodPhase:        phase,
		PodPolls:        polls,
		CreatedAt:       time.Now(),
	}, nil
}

func (c *Controller) podLabels() map[string]string {
	labels := make(map[string]string, len(c.cfg.Labels)+1)
	for k, v := range c.cfg.Labels {
		labels[k] = v
	}
	labels[selectorLabel] = WorkloadName
	return labels
}

// waitForPodStarted polls the pod until it leaves Pending. Read errors other
// than cancellation are treated as not-ready-yet and retried.
func (c *Controller) waitForPodStarted(ctx context.Context, namespace, name string) (corev1.PodPhase, int, error) {
	var (
		phase corev1.PodPhase
		polls int
	)
	err := k8s.Poll(ctx, k8s.PollOptions{Interval: c.cfg.PollInterval, Timeout: c.cfg.ReadyTimeout}, "wait for pod "+name,
		func(ctx context.Context) (bool, error) {
			polls++
			pod, err := k8s.GetPod(ctx, c.client, namespace, name)
			if err != nil {
				c.logger.Debug("pod read failed", logging.StringField("pod", name), logging.ErrorField(err))
				return false, nil
			}
			phase = pod.Status.Phase
			return !k8s.IsPodPending(phase), nil
		})
	if err != nil {
		return phase, polls, &k8s.ResourceError{Kind: resourcePod, Namespace: namespace, Name: name, Err: err}
	}
	return phase, polls, nil
}

// Teardown deletes the namespace and waits until the cluster stops reporting
// it as terminating. A missing namespace yields k8s.ErrNotFound.
func (c *Controller) Teardown(ctx context.Context, name string) error {
	if err := k8s.DeleteNamespace(ctx, c.client, name); err != nil {
		return err
	}
	c.logger.Info("namespace delete requested", logging.StringField("namespace", name))

	err := k8s.Poll(ctx, k8s.PollOptions{Interval: c.cfg.PollInterval, Timeout: c.cfg.DeleteTimeout}, "wait for namespace "+name+" deletion",
		func(ctx context.Context) (bool, error) {
			namespaces, err := k8s.ListNamespaces(ctx, c.client, "")
			if err != nil {
				c.logger.Debug("namespace list failed", logging.ErrorField(err))
				return false, nil
			}
			ns, found := k8s.FindNamespace(namespaces, name)
			if !found {
				return true, nil
			}
			return terminationObservedComplete(ns), nil
		})
	if err != nil {
		return &k8s.ResourceError{Kind: resourceNamespace, Name: name, Err: err}
	}
	c.notify(actionDeleted, resourceNamespace, "", name)
	c.logger.Info("namespace deleted", logging.StringField("namespace", name))
	return nil
}

// terminationObservedComplete ends the deletion wait for a namespace that is
// still listed but no longer Terminating. Such a namespace may still exist
// (for example recreated as Active); the wait stops anyway.
func terminationObservedComplete(ns corev1.Namespace) bool {
	return ns.Status.Phase != corev1.NamespaceTerminating
}

func (c *Controller) notify(action, kind, namespace, name string) {
	if c.cfg.Notify == nil {
		return
	}
	c.cfg.Notify(Event{Action: action, Kind: kind, Namespace: namespace, Name: name})
}

// IsNotFound reports whether a teardown found nothing to delete.
func IsNotFound(err error) bool {
	return errors.Is(err, k8s.ErrNotFound)
}

// IsAlreadyExists reports whether provisioning hit an existing namespace.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, k8s.ErrAlreadyExists)
}

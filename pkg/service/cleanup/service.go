package cleanup

import (
	"context"
	"fmt"
	"log/slog"

	"k8s-zoo-benchmark/pkg/k8s"
	"k8s-zoo-benchmark/pkg/lifecycle"
	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/report"

	"k8s.io/client-go/kubernetes"
)

// ManagedLabel marks every namespace created by zoobench.
const ManagedLabel = "zoobench.io/managed"

// ManagedSelector matches every namespace created by zoobench.
const ManagedSelector = ManagedLabel + "=true"

type Scope struct {
	Namespace string
	Selector  string
	Wait      bool
}

type CleanupService struct {
	client     kubernetes.Interface
	controller *lifecycle.Controller
	logger     *slog.Logger
}

func NewCleanupService(client kubernetes.Interface, controller *lifecycle.Controller, logger *slog.Logger) *CleanupService {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if controller == nil {
		controller = lifecycle.NewController(client, lifecycle.Config{}, logger)
	}
	return &CleanupService{
		client:     client,
		controller: controller,
		logger:     logger,
	}
}

// Preflight refuses to run when the benchmark namespace is already present or
// no node can take the workload pod.
func (s *CleanupService) Preflight(ctx context.Context, namespace string) error {
	if namespace != "" {
		exists, err := k8s.NamespaceExists(ctx, s.client, namespace)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("refusing to run: namespace %q already exists. Run `zoobench cleanup --namespace %s`", namespace, namespace)
		}
	}

	nodes, err := k8s.ListNodes(ctx, s.client, "")
	if err != nil {
		return err
	}
	if k8s.CountSchedulableNodes(nodes) == 0 {
		return fmt.Errorf("refusing to run: no schedulable nodes found")
	}
	s.logger.Info("preflight nodes",
		logging.IntField("nodes", len(nodes)),
		logging.IntField("schedulable", k8s.CountSchedulableNodes(nodes)),
		logging.StringField("addresses", report.FormatNodeAddresses(k8s.DescribeNodes(nodes))),
	)
	return nil
}

// Run deletes the scoped namespaces. Namespaces that are already gone are
// logged and skipped.
func (s *CleanupService) Run(ctx context.Context, scope Scope) error {
	names, err := s.resolve(ctx, scope)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		s.logger.Info("nothing to clean up")
		return nil
	}
	for _, name := range names {
		if err := s.cleanupNamespace(ctx, name, scope.Wait); err != nil {
			return err
		}
	}
	return nil
}

func (s *CleanupService) resolve(ctx context.Context, scope Scope) ([]string, error) {
	if scope.Namespace != "" {
		return []string{scope.Namespace}, nil
	}
	selector := scope.Selector
	if selector == "" {
		selector = ManagedSelector
	}
	namespaces, err := k8s.ListNamespaces(ctx, s.client, selector)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		names = append(names, ns.Name)
	}
	return names, nil
}

func (s *CleanupService) cleanupNamespace(ctx context.Context, name string, wait bool) error {
	var err error
	if wait {
		err = s.controller.Teardown(ctx, name)
	} else {
		err = k8s.DeleteNamespace(ctx, s.client, name)
	}
	if lifecycle.IsNotFound(err) {
		s.logger.Info("namespace already gone", logging.StringField("namespace", name))
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("namespace cleanup done", logging.StringField("namespace", name))
	return nil
}

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"k8s-zoo-benchmark/pkg/benchmark"
	"k8s-zoo-benchmark/pkg/k8s"
	"k8s-zoo-benchmark/pkg/lifecycle"
	"k8s-zoo-benchmark/pkg/loadgen"
	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/metrics"
	"k8s-zoo-benchmark/pkg/report"
	"k8s-zoo-benchmark/pkg/service/cleanup"
	"k8s-zoo-benchmark/pkg/workload"

	"k8s.io/client-go/kubernetes"
)

const (
	defaultSampleInterval = 5 * time.Second
	defaultCleanupTimeout = 10 * time.Minute
)

type Runner struct {
	Client      kubernetes.Interface
	Cleanup     *cleanup.CleanupService
	Logger      *slog.Logger
	MetricsPort int
	HTTPClient  *http.Client

	// Out receives the result table; nil skips it.
	Out io.Writer
}

type RunConfig struct {
	Namespace       string
	Image           string
	Host            string
	Modes           []workload.Mode
	Profile         loadgen.LoadProfile
	SettleDelay     time.Duration
	PollInterval    time.Duration
	ReadyTimeout    time.Duration
	DeleteTimeout   time.Duration
	SampleInterval  time.Duration
	ControlNodePort int32
	DataNodePort    int32
	OutputPath      string
	Context         string
	Server          string
}

func (r *Runner) Run(ctx context.Context, cfg RunConfig) error {
	if r.Client == nil {
		return fmt.Errorf("client is required")
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}

	plan, err := NewPlanBuilder().Build(cfg)
	if err != nil {
		return err
	}

	ctxRun, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("signal received", logging.StringField("signal", sig.String()))
			cancel()
		case <-ctxRun.Done():
		}
	}()

	phaseRec := NewPhaseRecorder(r.Client, metrics.SampleOptions{
		Namespace: plan.Namespace,
		PodName:   lifecycle.WorkloadName,
	}, logger)
	recordPhase := func(name string) error {
		return phaseRec.Record(ctxRun, name)
	}

	controller := lifecycle.NewController(r.Client, lifecycle.Config{
		PollInterval:    cfg.PollInterval,
		ReadyTimeout:    cfg.ReadyTimeout,
		DeleteTimeout:   cfg.DeleteTimeout,
		ControlNodePort: cfg.ControlNodePort,
		DataNodePort:    cfg.DataNodePort,
		Labels:          plan.Labels,
		Notify: func(event lifecycle.Event) {
			logger.Debug("resource event",
				logging.StringField("action", event.Action),
				logging.StringField("kind", event.Kind),
				logging.StringField("namespace", event.Namespace),
				logging.StringField("name", event.Name),
			)
		},
	}, logger)
	cleanupSvc := r.Cleanup
	if cleanupSvc == nil {
		cleanupSvc = cleanup.NewCleanupService(r.Client, controller, logger)
	}
	if err := cleanupSvc.Preflight(ctx, plan.Namespace); err != nil {
		return err
	}

	cleanupOnce := sync.Once{}
	runCleanup := func(reason string) {
		cleanupOnce.Do(func() {
			logger.Info("namespace cleanup start",
				logging.StringField("reason", reason),
				logging.StringField("namespace", plan.Namespace),
			)
			// The run context may already be cancelled by the operator.
			ctxCleanup, cancelCleanup := context.WithTimeout(context.Background(), defaultCleanupTimeout)
			defer cancelCleanup()
			_ = phaseRec.Record(ctxCleanup, "teardown:start")
			if err := cleanupSvc.Run(ctxCleanup, cleanup.Scope{
				Namespace: plan.Namespace,
				Wait:      true,
			}); err != nil {
				metrics.RecordError("teardown")
				logger.Error("cleanup failed", logging.ErrorField(err))
				return
			}
			_ = phaseRec.Record(ctxCleanup, "teardown:done")
			logger.Info("namespace cleanup done", logging.StringField("namespace", plan.Namespace))
		})
	}

	logger.Info("benchmark namespace", logging.StringField("value", plan.Namespace))
	logger.Info("results file path", logging.StringField("value", plan.OutputPath))
	logger.Info("metrics server start", logging.IntField("port", r.MetricsPort))
	logger.Info("run id", logging.StringField("value", plan.RunID), logging.StringField("session", plan.SessionID))

	shutdownMetrics := metrics.StartMetricsServer(r.MetricsPort)
	defer func() {
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = shutdownMetrics(ctxShutdown)
	}()

	metrics.RunInfo.WithLabelValues(plan.Namespace, plan.RunID).Set(1)
	defer metrics.RunInfo.WithLabelValues(plan.Namespace, plan.RunID).Set(0)

	runStart := time.Now()
	_ = recordPhase("provision:start")
	env, err := controller.Provision(ctxRun, plan.Namespace, cfg.Image, plan.Modes[0])
	if err != nil {
		metrics.RecordError("provision")
		// A namespace that was already there belongs to someone else.
		if !lifecycle.IsAlreadyExists(err) {
			runCleanup(failureReason(ctxRun))
		}
		return err
	}
	defer runCleanup("defer")
	_ = recordPhase("provision:ready")

	host, err := r.resolveHost(ctxRun, cfg.Host)
	if err != nil {
		metrics.RecordError("host")
		runCleanup(failureReason(ctxRun))
		return err
	}
	logger.Info("workload endpoint",
		logging.StringField("host", host),
		logging.IntField("control_port", int(env.ControlNodePort)),
		logging.IntField("data_port", int(env.DataNodePort)),
	)

	client := workload.NewClient(
		workload.BaseURL(host, env.ControlNodePort),
		workload.BaseURL(host, env.DataNodePort),
		r.HTTPClient,
	)

	sampleInterval := cfg.SampleInterval
	if sampleInterval <= 0 {
		sampleInterval = defaultSampleInterval
	}
	ctxSample, stopSampler := context.WithCancel(ctxRun)
	defer stopSampler()
	sampler := metrics.NewSampler(r.Client, sampleInterval, metrics.SampleOptions{
		Namespace: env.Namespace,
		PodName:   env.PodName,
	})
	samplerDone := make(chan struct{})
	go func() {
		defer close(samplerDone)
		sampler.Run(ctxSample)
	}()

	session := benchmark.NewSession(client, loadgen.New(client, logger), benchmark.SessionConfig{
		Modes:            plan.Modes,
		Profile:          cfg.Profile,
		SettleDelay:      cfg.SettleDelay,
		StopBetweenModes: true,
		RecordPhase:      recordPhase,
	}, logger)

	logger.Info("starting benchmark session", logging.IntField("modes", len(plan.Modes)))
	result, sessionErr := session.Execute(ctxRun)
	stopSampler()
	<-samplerDone
	if sessionErr != nil {
		metrics.RecordError("session")
	}

	samples := sampler.Samples()
	phases := phaseRec.Phases()
	summary := report.BuildSummary(plan.RunID, time.Since(runStart), result, samples)
	summary.ProvisionSeconds = computePhaseSpan(phases, "provision:start", "provision:ready")
	summary.ReadyLagSeconds = computeReadyLag(samples, phases)

	modes := make([]string, 0, len(plan.Modes))
	for _, mode := range plan.Modes {
		modes = append(modes, mode.String())
	}
	output := struct {
		report.Report
		PhaseSamples []PhaseSample `json:"phase_samples"`
	}{
		Report: report.Report{
			Config: report.RunConfig{
				RunID:        plan.RunID,
				SessionID:    plan.SessionID,
				Namespace:    plan.Namespace,
				Image:        cfg.Image,
				Host:         host,
				Context:      cfg.Context,
				Server:       cfg.Server,
				Modes:        modes,
				Profile:      cfg.Profile,
				SettleDelay:  cfg.SettleDelay.String(),
				PollInterval: cfg.PollInterval.String(),
				StartTime:    runStart,
			},
			Phases:  phases,
			Result:  result,
			Samples: samples,
			Summary: summary,
		},
		PhaseSamples: phaseRec.Samples(),
	}
	if sessionErr != nil {
		output.Error = sessionErr.Error()
	}

	if err := report.WriteJSON(plan.OutputPath, output); err != nil {
		runCleanup("error")
		return err
	}
	if r.Out != nil {
		if err := report.WriteResultTable(r.Out, result); err != nil {
			logger.Warn("result table failed", logging.ErrorField(err))
		}
	}
	logSummary(logger, summary, phases)
	logger.Info("results output", logging.StringField("path", plan.OutputPath))

	if sessionErr != nil {
		if errors.Is(sessionErr, benchmark.ErrInterrupted) {
			runCleanup("cancel")
		} else {
			runCleanup("error")
		}
		return sessionErr
	}
	logger.Info("benchmark completed")
	runCleanup("success")
	return nil
}

func failureReason(ctx context.Context) string {
	if ctx.Err() != nil {
		return "cancel"
	}
	return "error"
}

func (r *Runner) resolveHost(ctx context.Context, host string) (string, error) {
	if host != "" {
		return host, nil
	}
	nodes, err := k8s.ListNodes(ctx, r.Client, "")
	if err != nil {
		return "", err
	}
	return k8s.ReachableAddress(nodes)
}

package loadgen

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/metrics"
	"k8s-zoo-benchmark/pkg/workload"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Target receives the generated transactions.
type Target interface {
	Transaction(ctx context.Context, records []workload.Transaction) error
}

// Generator fans requests out over concurrent workers and times the run as a
// whole, from barrier release until the last worker finishes.
type Generator struct {
	target Target
	logger *slog.Logger
}

func New(target Target, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{
		target: target,
		logger: logger,
	}
}

type counters struct {
	issued    atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// Run executes one load run. Request failures are counted, never returned;
// the only error is an invalid profile or a cancelled context.
func (g *Generator) Run(ctx context.Context, label string, profile LoadProfile) (RunResult, error) {
	if err := profile.Validate(); err != nil {
		return RunResult{}, err
	}

	var limiter *rate.Limiter
	if profile.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(profile.Rate), 1)
	}

	var (
		c     counters
		group errgroup.Group
	)
	start := make(chan struct{})
	for worker := range profile.Workers {
		group.Go(func() error {
			<-start
			g.work(ctx, label, worker, profile, limiter, &c)
			return nil
		})
	}

	g.logger.Info("load run start",
		logging.StringField("mode", label),
		logging.IntField("workers", profile.Workers),
		logging.IntField("requests_per_worker", profile.RequestsPerWorker),
		logging.IntField("payload_size", profile.PayloadSize),
	)
	startedAt := time.Now()
	close(start)
	_ = group.Wait()
	endedAt := time.Now()

	result := RunResult{
		Profile:   profile,
		Start:     startedAt,
		End:       endedAt,
		Elapsed:   endedAt.Sub(startedAt),
		Issued:    c.issued.Load(),
		Succeeded: c.succeeded.Load(),
		Failed:    c.failed.Load(),
	}
	metrics.RecordLoadRun(label, result.Elapsed)

	g.logger.Info("load run done",
		logging.StringField("mode", label),
		logging.DurationField("elapsed", result.Elapsed),
		logging.StringField("issued", fmt.Sprintf("%d", result.Issued)),
		logging.StringField("succeeded", fmt.Sprintf("%d", result.Succeeded)),
		logging.StringField("failed", fmt.Sprintf("%d", result.Failed)),
	)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (g *Generator) work(ctx context.Context, label string, worker int, profile LoadProfile, limiter *rate.Limiter, c *counters) {
	counter := 0
	for request := range profile.RequestsPerWorker {
		if ctx.Err() != nil {
			return
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		records := BuildRecords(worker, request, profile.PayloadSize, counter)
		counter += len(records)

		c.issued.Add(1)
		if err := g.target.Transaction(ctx, records); err != nil {
			c.failed.Add(1)
			metrics.RecordRequest(label, metrics.OutcomeFailed)
			g.logger.Debug("request failed",
				logging.IntField("worker", worker),
				logging.IntField("request", request),
				logging.ErrorField(err),
			)
			continue
		}
		c.succeeded.Add(1)
		metrics.RecordRequest(label, metrics.OutcomeSucceeded)
	}
}

// BuildRecords builds the payload of one request. A single record is keyed
// "<worker>-<request>", batches append the record index. Values continue the
// worker's running counter starting at next.
func BuildRecords(worker, request, size, next int) []workload.Transaction {
	if size <= 1 {
		return []workload.Transaction{{Key: fmt.Sprintf("%d-%d", worker, request), Value: next}}
	}
	records := make([]workload.Transaction, size)
	for batch := range size {
		records[batch] = workload.Transaction{
			Key:   fmt.Sprintf("%d-%d-%d", worker, request, batch),
			Value: next + batch,
		}
	}
	return records
}

package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/workload"
)

// Session sequences one load run per mode against an already provisioned
// workload.
type Session struct {
	control ControlChannel
	runner  LoadRunner
	cfg     SessionConfig
	logger  *slog.Logger
}

func NewSession(control ControlChannel, runner LoadRunner, cfg SessionConfig, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if len(cfg.Modes) == 0 {
		cfg.Modes = workload.DefaultModes()
	}
	return &Session{
		control: control,
		runner:  runner,
		cfg:     cfg,
		logger:  logger,
	}
}

// Execute runs every configured mode in order. Control channel failures are
// logged and the session carries on. On cancellation the entries gathered so
// far are returned together with ErrInterrupted.
func (s *Session) Execute(ctx context.Context) (Result, error) {
	result := Result{Start: time.Now()}
	finish := func() Result {
		result.End = time.Now()
		result.Elapsed = result.End.Sub(result.Start)
		return result
	}

	if err := s.cfg.Profile.Validate(); err != nil {
		return finish(), err
	}

	for i, mode := range s.cfg.Modes {
		entry, err := s.runMode(ctx, mode)
		if entry != nil {
			result.Entries = append(result.Entries, *entry)
		}
		if err != nil {
			if ctx.Err() != nil {
				return finish(), fmt.Errorf("%w: mode %s: %v", ErrInterrupted, mode, err)
			}
			return finish(), err
		}

		last := i == len(s.cfg.Modes)-1
		if s.cfg.StopBetweenModes || last {
			if err := s.stop(ctx, mode); err != nil {
				return finish(), err
			}
		}
	}
	return finish(), nil
}

func (s *Session) runMode(ctx context.Context, mode workload.Mode) (*Entry, error) {
	if err := s.settle(ctx); err != nil {
		return nil, err
	}
	if err := s.mark("mode:start", logging.StringField("mode", mode.String())); err != nil {
		return nil, err
	}
	confirmed := s.startMode(ctx, mode)
	if err := s.settle(ctx); err != nil {
		return nil, err
	}

	if err := s.mark("load:start",
		logging.StringField("mode", mode.String()),
		logging.StringField("profile", s.cfg.Profile.String()),
	); err != nil {
		return nil, err
	}
	run, runErr := s.runner.Run(ctx, mode.String(), s.cfg.Profile)
	entry := &Entry{
		Mode:          mode,
		Profile:       s.cfg.Profile,
		Start:         run.Start,
		Elapsed:       run.Elapsed,
		Issued:        run.Issued,
		Succeeded:     run.Succeeded,
		Failed:        run.Failed,
		ModeConfirmed: confirmed,
		Interrupted:   runErr != nil && ctx.Err() != nil,
	}
	if runErr != nil {
		return entry, runErr
	}
	if err := s.mark("load:done",
		logging.StringField("mode", mode.String()),
		logging.DurationField("elapsed", run.Elapsed),
		logging.StringField("succeeded", fmt.Sprintf("%d", run.Succeeded)),
		logging.StringField("failed", fmt.Sprintf("%d", run.Failed)),
	); err != nil {
		return entry, err
	}
	return entry, nil
}

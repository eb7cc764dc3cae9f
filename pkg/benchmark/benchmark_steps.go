package benchmark

import (
	"context"
	"log/slog"
	"time"

	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/metrics"
	"k8s-zoo-benchmark/pkg/workload"
)

func (s *Session) mark(name string, attrs ...slog.Attr) error {
	s.logger.Info(formatPhaseMessage(name), attrsToArgs(attrs)...)
	if s.cfg.RecordPhase != nil {
		if err := s.cfg.RecordPhase(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) settle(ctx context.Context) error {
	if s.cfg.SettleDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.cfg.SettleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// startMode reports whether the workload acknowledged the mode switch.
func (s *Session) startMode(ctx context.Context, mode workload.Mode) bool {
	if s.control == nil {
		return false
	}
	if err := s.control.Start(ctx, mode); err != nil {
		metrics.RecordError("control_start")
		s.logger.Warn("mode switch not confirmed, continuing",
			logging.StringField("mode", mode.String()),
			logging.ErrorField(err),
		)
		return false
	}
	return true
}

func (s *Session) stop(ctx context.Context, mode workload.Mode) error {
	if err := s.mark("mode:stop", logging.StringField("mode", mode.String())); err != nil {
		return err
	}
	if s.control == nil {
		return nil
	}
	if err := s.control.Stop(ctx); err != nil {
		metrics.RecordError("control_stop")
		s.logger.Warn("stop signal failed",
			logging.StringField("mode", mode.String()),
			logging.ErrorField(err),
		)
	}
	return nil
}

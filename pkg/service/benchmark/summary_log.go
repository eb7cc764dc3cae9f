package benchmark

import (
	"fmt"
	"log/slog"

	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/report"
)

func logSummary(logger *slog.Logger, summary report.Summary, phases []report.PhaseMarker) {
	for _, mode := range summary.Modes {
		logger.Info("mode summary",
			logging.StringField("mode", mode.Mode),
			logging.StringField("elapsed", fmt.Sprintf("%.3fs", mode.ElapsedSeconds)),
			logging.StringField("succeeded", fmt.Sprintf("%d", mode.Succeeded)),
			logging.StringField("failed", fmt.Sprintf("%d", mode.Failed)),
		)
	}
	logger.Info("run summary",
		logging.StringField("duration", fmt.Sprintf("%.1fs", summary.DurationSeconds)),
		logging.StringField("provision_time", fmt.Sprintf("%.1fs", summary.ProvisionSeconds)),
		logging.StringField("ready_lag", fmt.Sprintf("%.1fs", summary.ReadyLagSeconds)),
		logging.StringField("slowdown", fmt.Sprintf("%.2fx", summary.Slowdown)),
		logging.IntField("max_restarts", int(summary.MaxRestarts)),
		logging.StringField("phases", report.FormatPhases(phases)),
	)
}

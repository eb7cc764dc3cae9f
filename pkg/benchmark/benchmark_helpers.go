package benchmark

import (
	"log/slog"
	"strings"
)

func formatPhaseMessage(name string) string {
	switch name {
	case "mode:start":
		return "mode switch start"
	case "mode:stop":
		return "mode stop"
	case "load:start":
		return "load run start"
	case "load:done":
		return "load run done"
	default:
		return strings.ReplaceAll(name, ":", " ")
	}
}

func attrsToArgs(attrs []slog.Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"k8s-zoo-benchmark/pkg/logging"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartMetricsServer serves the registry on /metrics. The returned function
// shuts the server down. A non-positive port disables the server.
func StartMetricsServer(port int) func(context.Context) error {
	if port <= 0 {
		return func(context.Context) error { return nil }
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.GetLogger().Error("metrics server error", logging.ErrorField(err))
		}
	}()
	return srv.Shutdown
}

package main

import (
	"fmt"
	"os"

	"k8s-zoo-benchmark/pkg/k8s"
	"k8s-zoo-benchmark/pkg/logging"

	"github.com/spf13/cobra"
	"k8s.io/client-go/kubernetes"
)

var (
	clientQPS   float32
	clientBurst int
	metricsPort int
	logLevel    string
	logFormat   string
	kubeContext string
)

var rootCmd = &cobra.Command{
	Use:          "zoobench",
	Short:        "Throwaway-namespace benchmark for the zoo key-value node",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitLogger(logFormat, logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().Float32Var(&clientQPS, "client-qps", 200, "Kubernetes client QPS")
	rootCmd.PersistentFlags().IntVar(&clientBurst, "client-burst", 400, "Kubernetes client burst")
	rootCmd.PersistentFlags().IntVar(&metricsPort, "metrics-port", 8080, "Port for Prometheus metrics (0 disables)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&kubeContext, "kube-context", "", "Refuse to run unless the current kubeconfig context matches")
}

func newClient() (kubernetes.Interface, k8s.ClientInfo, error) {
	return k8s.NewClient(clientQPS, clientBurst, kubeContext)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

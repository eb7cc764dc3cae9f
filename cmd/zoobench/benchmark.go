package main

import (
	"context"
	"time"

	"k8s-zoo-benchmark/pkg/benchmark"
	"k8s-zoo-benchmark/pkg/lifecycle"
	"k8s-zoo-benchmark/pkg/loadgen"
	"k8s-zoo-benchmark/pkg/logging"
	benchsvc "k8s-zoo-benchmark/pkg/service/benchmark"
	"k8s-zoo-benchmark/pkg/workload"

	"github.com/spf13/cobra"
)

var (
	namespace       string
	image           string
	host            string
	modes           string
	workers         int
	requests        int
	payload         int
	requestRate     float64
	settleDelay     time.Duration
	pollInterval    time.Duration
	readyTimeout    time.Duration
	deleteTimeout   time.Duration
	sampleInterval  time.Duration
	controlNodePort int32
	dataNodePort    int32
	outputPath      string
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Provision the workload, run every mode and tear it down",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, info, err := newClient()
		if err != nil {
			return err
		}

		runner := benchsvc.Runner{
			Client:      client,
			Logger:      logging.GetLogger(),
			MetricsPort: metricsPort,
			Out:         cmd.OutOrStdout(),
		}
		return runner.Run(context.Background(), benchsvc.RunConfig{
			Namespace: namespace,
			Image:     image,
			Host:      host,
			Modes:     workload.ParseModes(modes),
			Profile: loadgen.LoadProfile{
				Workers:           workers,
				RequestsPerWorker: requests,
				PayloadSize:       payload,
				Rate:              requestRate,
			},
			SettleDelay:     settleDelay,
			PollInterval:    pollInterval,
			ReadyTimeout:    readyTimeout,
			DeleteTimeout:   deleteTimeout,
			SampleInterval:  sampleInterval,
			ControlNodePort: controlNodePort,
			DataNodePort:    dataNodePort,
			OutputPath:      outputPath,
			Context:         info.Context,
			Server:          info.Server,
		})
	},
}

func init() {
	benchmarkCmd.Flags().StringVar(&namespace, "namespace", benchsvc.DefaultNamespace, "Throwaway namespace to create")
	benchmarkCmd.Flags().StringVar(&image, "image", "", "Workload container image")
	benchmarkCmd.Flags().StringVar(&host, "host", "", "Address of a cluster node (default: discovered from the node list)")
	benchmarkCmd.Flags().StringVar(&modes, "modes", "NoBackup,SerializeBackup", "Comma separated modes to run in order")
	benchmarkCmd.Flags().IntVar(&workers, "workers", 6, "Concurrent workers per load run")
	benchmarkCmd.Flags().IntVar(&requests, "requests", 100, "Requests issued by each worker")
	benchmarkCmd.Flags().IntVar(&payload, "payload", 1, "Records per request")
	benchmarkCmd.Flags().Float64Var(&requestRate, "rate", 0, "Requests per second across all workers (0 is unpaced)")
	benchmarkCmd.Flags().DurationVar(&settleDelay, "settle", benchmark.DefaultSettleDelay, "Delay before the mode switch and before each load run")
	benchmarkCmd.Flags().DurationVar(&pollInterval, "poll-interval", lifecycle.DefaultPollInterval, "Cluster polling interval")
	benchmarkCmd.Flags().DurationVar(&readyTimeout, "ready-timeout", 0, "Bound on waiting for the pod to start (0 waits forever)")
	benchmarkCmd.Flags().DurationVar(&deleteTimeout, "delete-timeout", 0, "Bound on waiting for namespace deletion (0 waits forever)")
	benchmarkCmd.Flags().DurationVar(&sampleInterval, "sample-interval", 5*time.Second, "Workload pod sampling interval")
	benchmarkCmd.Flags().Int32Var(&controlNodePort, "control-node-port", lifecycle.DefaultControlNodePort, "Node port of the control channel")
	benchmarkCmd.Flags().Int32Var(&dataNodePort, "data-node-port", lifecycle.DefaultDataNodePort, "Node port of the data channel")
	benchmarkCmd.Flags().StringVar(&outputPath, "out", "", "Write JSON output to a file (default: results/zoobench-<run id>.json)")
	_ = benchmarkCmd.MarkFlagRequired("image")

	rootCmd.AddCommand(benchmarkCmd)
}

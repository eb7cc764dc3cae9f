package main

import (
	"context"

	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/service/cleanup"
	benchsvc "k8s-zoo-benchmark/pkg/service/benchmark"

	"github.com/spf13/cobra"
)

var preflightNamespace string

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Verify the cluster is ready for a benchmark run",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		svc := cleanup.NewCleanupService(client, nil, logging.GetLogger())
		if err := svc.Preflight(context.Background(), preflightNamespace); err != nil {
			return err
		}
		logging.GetLogger().Info("preflight ok")
		return nil
	},
}

func init() {
	preflightCmd.Flags().StringVar(&preflightNamespace, "namespace", benchsvc.DefaultNamespace, "Namespace the benchmark will create")
	rootCmd.AddCommand(preflightCmd)
}

package main

import (
	"context"

	"k8s-zoo-benchmark/pkg/k8s"
	"k8s-zoo-benchmark/pkg/report"

	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List cluster nodes with the address the benchmark would use",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		nodes, err := k8s.ListNodes(context.Background(), client, "")
		if err != nil {
			return err
		}
		return report.WriteNodeTable(cmd.OutOrStdout(), k8s.DescribeNodes(nodes))
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}

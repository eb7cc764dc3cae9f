package main

import (
	"context"
	"fmt"
	"time"

	"k8s-zoo-benchmark/pkg/logging"
	"k8s-zoo-benchmark/pkg/service/cleanup"

	"github.com/spf13/cobra"
)

var (
	cleanupForce     bool
	cleanupNamespace string
	cleanupSelector  string
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete namespaces created by zoobench",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("cleanup does not accept positional arguments")
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		cleanupSvc := cleanup.NewCleanupService(client, nil, logging.GetLogger())
		return cleanupSvc.Run(ctx, cleanup.Scope{
			Namespace: cleanupNamespace,
			Selector:  cleanupSelector,
			Wait:      !cleanupForce,
		})
	},
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupForce, "force", false, "Skip waiting for namespace deletion")
	cleanupCmd.Flags().StringVar(&cleanupNamespace, "namespace", "", "Delete a single namespace by name")
	cleanupCmd.Flags().StringVar(&cleanupSelector, "selector", cleanup.ManagedSelector, "Label selector of namespaces to delete")
	rootCmd.AddCommand(cleanupCmd)
}

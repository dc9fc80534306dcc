package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// cleanupCmd garbage-collects registry anchors absent from every page.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Forget anchors that no longer appear in any document",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := buildApp(ctx)
		if err != nil {
			fatal("Failed to initialize", err)
		}

		report, err := a.reconciler.Cleanup(ctx)
		if err != nil {
			fatal("Cleanup failed", err)
		}
		fmt.Printf("forgot %d anchors (%d still referenced)\n", report.Forgotten, report.Unchanged)
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

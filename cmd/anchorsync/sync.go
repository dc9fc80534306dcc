package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile every tracked task across the whole vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := buildApp(ctx)
		if err != nil {
			fatal("Failed to initialize", err)
		}

		report, err := a.reconciler.Vault(ctx)
		if err != nil {
			fatal("Sync failed", err)
		}
		fmt.Println(report)
		for _, note := range report.Notes {
			fmt.Println("  " + note)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

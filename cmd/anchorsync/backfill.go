package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var backfillList string

// backfillCmd appends lines for remote tasks that no anchor tracks yet.
var backfillCmd = &cobra.Command{
	Use:   "backfill <doc>",
	Short: "Add untracked remote tasks to a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := buildApp(ctx)
		if err != nil {
			fatal("Failed to initialize", err)
		}

		report, err := a.reconciler.Backfill(ctx, args[0], backfillList)
		if err != nil {
			fatal("Backfill failed", err)
		}
		fmt.Println(report)
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	backfillCmd.Flags().StringVar(&backfillList, "list", "", "Remote list to backfill from (default: configured default list)")
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var docLines []int

// docCmd reconciles a single document, optionally restricted to lines.
var docCmd = &cobra.Command{
	Use:   "doc <id>",
	Short: "Reconcile one document (or selected lines of it)",
	Long: `Reconcile the checklist lines of a single document. Without
--line flags every candidate line is considered; with them only the
given zero-based lines are.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := buildApp(ctx)
		if err != nil {
			fatal("Failed to initialize", err)
		}

		var lines []int
		if cmd.Flags().Changed("line") {
			lines = docLines
		}
		report, err := a.reconciler.Lines(ctx, args[0], lines)
		if err != nil {
			fatal("Reconcile failed", err)
		}
		fmt.Println(report)
		for _, note := range report.Notes {
			fmt.Println("  " + note)
		}
	},
}

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.Flags().IntSliceVar(&docLines, "line", nil, "Zero-based line number to reconcile (repeatable)")
}

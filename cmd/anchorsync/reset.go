package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/okatz/anchorsync/pkg/deltacache"
	"github.com/okatz/anchorsync/pkg/vault"
)

// resetCmd discards the delta cache, forcing a full resync next run.
// It deliberately avoids buildApp: no token is needed to drop a file.
var resetCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Discard the delta cache (forces a full resync)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cache := deltacache.NewStore(vaultPath, vault.DefaultSystemDir, slog.Default())
		if err := cache.Reset(); err != nil {
			fatal("Failed to reset cache", err)
		}
		fmt.Println("Delta cache cleared.")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

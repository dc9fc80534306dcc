package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var createList string

// listsCmd shows the remote task lists, optionally creating one.
var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show remote task lists",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := buildApp(ctx)
		if err != nil {
			fatal("Failed to initialize", err)
		}

		if createList != "" {
			created, err := a.gateway.CreateList(ctx, createList)
			if err != nil {
				fatal("Failed to create list", err)
			}
			fmt.Printf("created %s (%s)\n", created.DisplayName, created.ID)
			return
		}

		lists, err := a.gateway.ListLists(ctx, "")
		if err != nil {
			fatal("Failed to list", err)
		}
		for _, l := range lists {
			fmt.Printf("%s  %s\n", l.ID, l.DisplayName)
		}
	},
}

func init() {
	rootCmd.AddCommand(listsCmd)
	listsCmd.Flags().StringVar(&createList, "create", "", "Create a remote list with this name")
}

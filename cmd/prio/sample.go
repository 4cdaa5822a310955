package main

import (
	"context"

	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Replace all tasks with three demonstration tasks",
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd.Context(), func(a *app) error {
			return runSample(cmd.Context(), a)
		})
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}

func runSample(ctx context.Context, a *app) error {
	a.controller.LoadSample()
	return a.save(ctx)
}

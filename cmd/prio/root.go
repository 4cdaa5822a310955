package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prio",
	Short: "Task prioritization CLI",
	Long: `Keep a list of tasks in a local workspace and rank them with the
prioritization service.

Tasks live in the workspace named by prio.toml. Run 'prio init <name>' to
create one, then add, import or load sample tasks and run 'prio analyze'.`,
}

// Global flags
var (
	jsonOutput     bool
	verbose        bool
	requestTimeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 0, "Give up on the server after this long (0 waits indefinitely)")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(ExitGeneralError)
	}
}

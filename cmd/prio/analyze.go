package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/prio/prio/internal/domain"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank all tasks with the prioritization server",
	Long: fmt.Sprintf(`Send every task to the prioritization server and print the ranked result.

Strategies: %s. The default comes from prio.toml.`, strategyNames()),
	Run: func(cmd *cobra.Command, args []string) {
		strategy, _ := cmd.Flags().GetString("strategy")

		withApp(cmd.Context(), func(a *app) error {
			return runAnalyze(cmd.Context(), a, domain.Strategy(strategy))
		})
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show the server's suggested next tasks",
	Long:  `Fetch the ranked short list for the most recent analysis.`,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd.Context(), func(a *app) error {
			return runSuggest(cmd.Context(), a)
		})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(suggestCmd)

	analyzeCmd.Flags().StringP("strategy", "s", "", "Scoring strategy")
}

func runAnalyze(ctx context.Context, a *app, strategy domain.Strategy) error {
	if strategy == "" {
		strategy = a.cfg.Strategy
	}
	_, err := a.controller.AnalyzeTasks(ctx, strategy)
	return err
}

func runSuggest(ctx context.Context, a *app) error {
	_, err := a.controller.GetSuggestions(ctx)
	return err
}

func strategyNames() string {
	names := make([]string, len(domain.ValidStrategies))
	for i, s := range domain.ValidStrategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

package main

import (
	"context"

	"github.com/prio/prio/internal/domain"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Long: `Add a task to the workspace.

The due date defaults to today, estimated hours to 1 and importance to 5.
Importance is clamped to 1-10. Dependencies are a comma-separated list of
task IDs; entries that are not numbers are ignored.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		due, _ := cmd.Flags().GetString("due")
		hours, _ := cmd.Flags().GetInt("hours")
		importance, _ := cmd.Flags().GetInt("importance")
		deps, _ := cmd.Flags().GetString("deps")

		draft := domain.Draft{
			Title:          args[0],
			DueDate:        due,
			EstimatedHours: hours,
			Importance:     importance,
			Dependencies:   domain.ParseDependencies(deps),
		}

		withApp(cmd.Context(), func(a *app) error {
			return runAdd(cmd.Context(), a, draft)
		})
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a task",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseTaskID(args[0])
		if err != nil {
			handleError(nil, err)
		}

		withApp(cmd.Context(), func(a *app) error {
			return runRemove(cmd.Context(), a, id)
		})
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd.Context(), func(a *app) error {
			a.presenter.RenderTasks(a.tasks.List())
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all tasks and reset IDs",
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd.Context(), func(a *app) error {
			return runClear(cmd.Context(), a)
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clearCmd)

	addCmd.Flags().String("due", "", "Due date (YYYY-MM-DD, default today)")
	addCmd.Flags().Int("hours", 0, "Estimated hours (default 1)")
	addCmd.Flags().IntP("importance", "i", 0, "Importance 1-10 (default 5)")
	addCmd.Flags().String("deps", "", "Comma-separated IDs of tasks this one depends on")
}

func runAdd(ctx context.Context, a *app, draft domain.Draft) error {
	if _, err := a.controller.AddTask(draft); err != nil {
		return err
	}
	return a.save(ctx)
}

func runRemove(ctx context.Context, a *app, id int) error {
	if !a.controller.RemoveTask(id) {
		a.logger.Printf("task %d not in workspace %s", id, a.cfg.Workspace)
		return nil
	}
	return a.save(ctx)
}

func runClear(ctx context.Context, a *app) error {
	a.controller.ClearTasks()
	return a.save(ctx)
}

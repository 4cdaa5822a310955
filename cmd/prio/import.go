package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Replace all tasks with a JSON array",
	Long: `Replace the tasks in the workspace with a JSON array. Reads stdin when
no file is given or the file is "-".

Missing fields are filled in: id from the next free ID, title as "Task N",
due_date as today, estimated_hours as 1 and importance as 5. Importance is
clamped to 1-10. Task ids must be unique. Nothing changes if the input
is rejected.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src := "-"
		if len(args) == 1 {
			src = args[0]
		}
		raw, err := readInput(src, cmd.InOrStdin())
		if err != nil {
			handleError(nil, err)
		}

		withApp(cmd.Context(), func(a *app) error {
			return runImport(cmd.Context(), a, raw)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print all tasks as a JSON array",
	Long:  `Print all tasks as a JSON array that 'prio import' accepts.`,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd.Context(), func(a *app) error {
			writeJSON(os.Stdout, a.tasks.List())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

// readInput reads a file, or stdin for "-"
func readInput(src string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if src == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src, err)
	}
	return string(data), nil
}

func runImport(ctx context.Context, a *app, raw string) error {
	if _, err := a.controller.ImportJSON(raw); err != nil {
		return err
	}
	return a.save(ctx)
}

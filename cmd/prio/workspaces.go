package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prio/prio/internal/config"
	"github.com/prio/prio/internal/workspace"
	"github.com/spf13/cobra"
)

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List workspaces on this machine",
	Long: `List the workspaces stored under ~/.prio/workspaces. The one selected
by the nearest prio.toml is marked with an asterisk.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		home, err := os.UserHomeDir()
		if err != nil {
			handleError(nil, fmt.Errorf("failed to get home directory: %w", err))
		}

		current := ""
		if cfg, err := config.ResolveConfig(); err == nil {
			current = cfg.Workspace
		}

		if err := runWorkspaces(cmd.OutOrStdout(), config.WorkspacesDir(home), current); err != nil {
			handleError(nil, err)
		}
	},
}

func init() {
	rootCmd.AddCommand(workspacesCmd)
}

func runWorkspaces(w io.Writer, dir, current string) error {
	manager, err := workspace.NewManager(dir)
	if err != nil {
		return err
	}
	defer manager.Close()

	names, err := manager.List()
	if err != nil {
		return err
	}

	if jsonOutput {
		writeJSON(w, map[string]interface{}{
			"workspaces": names,
			"current":    current,
		})
		return nil
	}

	if len(names) == 0 {
		fmt.Fprintln(w, "No workspaces yet")
		return nil
	}
	for _, name := range names {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, name)
	}
	return nil
}

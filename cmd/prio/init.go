package main

import (
	"fmt"
	"os"

	"github.com/prio/prio/internal/config"
	"github.com/prio/prio/internal/workspace"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Initialize a new prio workspace",
	Long: `Create a prio.toml configuration file in the current directory.

The name selects the workspace database under ~/.prio/workspaces, so
several directories can share one task list.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		scheme, _ := cmd.Flags().GetString("scheme")
		strategy, _ := cmd.Flags().GetString("strategy")

		cwd, err := os.Getwd()
		if err != nil {
			handleError(nil, err)
		}

		opts := config.InitOptions{
			Workspace: args[0],
			Host:      host,
			Port:      port,
			Scheme:    scheme,
			Strategy:  strategy,
		}
		if err := runInit(cwd, opts); err != nil {
			handleError(nil, err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Created %s for workspace '%s'", config.ConfigFileName, args[0]), jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("host", "", "Server host")
	initCmd.Flags().Int("port", 0, "Server port")
	initCmd.Flags().String("scheme", "", "Server URL scheme (http or https)")
	initCmd.Flags().String("strategy", "", "Default analysis strategy")
}

// runInit writes prio.toml into dir
func runInit(dir string, opts config.InitOptions) error {
	if err := workspace.ValidateName(opts.Workspace); err != nil {
		return err
	}
	_, err := config.WriteProjectConfig(dir, opts)
	return err
}

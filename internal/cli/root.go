// Package cli wires the slipway commands.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"slipway/internal/config"
)

var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "slipway",
		Short:         "Build and push container images pinned to a git commit",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("dry-run", false, "print commands instead of executing them")
	root.PersistentFlags().String("variant", "", "dockerfile variant: root, nonroot or dev")
	root.PersistentFlags().String("context", "", "build context directory")

	root.AddCommand(newBuildCmd(), newCloudCmd())
	return root
}

// loadConfig merges file/env config with command-line flags (flags win).
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("variant") {
		cfg.Variant, _ = flags.GetString("variant")
	}
	if flags.Changed("context") {
		cfg.Context, _ = flags.GetString("context")
	}
	if dry, _ := flags.GetBool("dry-run"); dry {
		cfg.DryRun = true
	}
	if _, err := cfg.Dockerfile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printDryRunNotice(cfg *config.Config) {
	if cfg.DryRun {
		fmt.Println(yellow("Dry-run mode: commands are printed, nothing is executed."))
	}
}

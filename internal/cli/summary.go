// internal/cli/summary.go
package cli

import (
	"fmt"

	"slipway/internal/buildx"
	"slipway/internal/config"
	"slipway/internal/gitstate"
)

// printPlan emits a scannable report of what this run will do.
func printPlan(cfg *config.Config, target gitstate.Target, refs []string, kind buildx.Kind, dockerfile string) {
	fmt.Println(cyan("Build Plan"))
	fmt.Println("----------")
	fmt.Printf("  Backend     : %s\n", kind)
	if kind == buildx.KindRemote {
		fmt.Printf("  Daemon      : %s\n", cfg.RemoteHost)
	}
	if kind == buildx.KindCloud {
		fmt.Printf("  Project     : %s\n", cfg.CloudProject)
	}
	fmt.Printf("  Branch      : %s\n", target.Branch)
	fmt.Printf("  Commit      : %s (%s)\n", target.ShortCommit, target.Commit)
	if target.Switch {
		fmt.Println("  Checkout    : yes (working tree will be restored afterward)")
	}
	fmt.Printf("  Dockerfile  : %s\n", dockerfile)
	fmt.Printf("  Context     : %s\n", cfg.Context)
	fmt.Printf("  Platform    : %s\n", buildx.DefaultPlatform)
	for _, r := range refs {
		fmt.Printf("  Tag         : %s\n", r)
	}
	fmt.Println()
}

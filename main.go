// slipway main entrypoint
//
// slipway wraps git and docker buildx to build and push container images
// tagged by branch and commit. The build command uses the local (or a
// remote) daemon against the current working tree; the cloud command can
// pin the build to an arbitrary commit, stashing and restoring the working
// tree around the checkout, and optionally triggers a redeploy webhook.
//
// Keep this file simple: load env overrides, hand the command tree to fang.
// All the heavy lifting stays internal.

package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"

	"slipway/internal/cli"
)

// Set via ldflags at release time.
var version = "dev"

func main() {
	// Local overrides for dev runs; harmless in CI.
	_ = godotenv.Load()

	root := cli.NewRootCmd(version)
	if err := fang.Execute(context.Background(), root, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// internal/cli/build.go
package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"slipway/internal/buildx"
	"slipway/internal/executil"
	"slipway/internal/gitstate"
	"slipway/internal/tagset"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build and push the working tree via the local or a remote daemon",
		Long: `Builds the current working tree as-is and pushes the resulting image.
Set SLIPWAY_REMOTE_HOST to build against a remote docker daemon.`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := executil.LookPath("git", "docker"); err != nil {
		return err
	}
	printDryRunNotice(cfg)

	run := &executil.Exec{DryRun: cfg.DryRun}
	kind := buildx.KindLocal
	if cfg.RemoteHost != "" {
		kind = buildx.KindRemote
		run.Env = map[string]string{"DOCKER_HOST": cfg.RemoteHost}
	}

	ctx := cmd.Context()
	bx := &buildx.Client{Run: run, Logf: log.Printf}
	if err := bx.CheckDaemon(ctx); err != nil {
		if kind == buildx.KindRemote {
			return fmt.Errorf("remote daemon %s: %w", cfg.RemoteHost, err)
		}
		return err
	}

	target, err := gitstate.ResolveTarget(ctx, run, "")
	if err != nil {
		return err
	}
	refs, err := tagset.Compose(tagset.Inputs{
		Image:       cfg.Image,
		BuildType:   cfg.BuildType,
		Branch:      target.Branch,
		ShortCommit: target.ShortCommit,
		ReleaseTags: target.ReleaseTags,
	})
	if err != nil {
		return err
	}

	dockerfile, err := cfg.Dockerfile()
	if err != nil {
		return err
	}
	printPlan(cfg, target, refs, kind, dockerfile)

	// Builder provisioning is soft here: a creation failure falls back to
	// the current builder and lets the build surface any real problem.
	if err := bx.EnsureBuilder(ctx, kind, buildx.BuilderName(cfg.Builder, kind), ""); err != nil {
		return err
	}

	if err := bx.Build(ctx, buildx.BuildOptions{
		Dockerfile:  dockerfile,
		ContextPath: cfg.Context,
		Refs:        refs,
		Labels:      provenanceLabels(target),
		Push:        true,
		DryRun:      cfg.DryRun,
	}); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Println(green("Build and push complete."))
	return nil
}

func provenanceLabels(target gitstate.Target) [][2]string {
	return [][2]string{
		{"org.opencontainers.image.revision", target.Commit},
		{"org.opencontainers.image.ref.name", target.Branch},
	}
}

// internal/cli/cloud.go
//
// The cloud command can build any commit, not just HEAD: it resolves the
// target first (a bad ref fails before anything is touched), stashes a
// dirty tree, checks out the commit, builds through a cloud-driver builder,
// and guarantees the tree is put back on every exit path, interrupts
// included. The redeploy webhook runs last and never affects the outcome.

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"slipway/internal/buildx"
	"slipway/internal/config"
	"slipway/internal/executil"
	"slipway/internal/gitstate"
	"slipway/internal/notify"
	"slipway/internal/tagset"
)

func newCloudCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cloud [commit]",
		Short: "Build a commit via a cloud builder, restoring the working tree afterward",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCloud,
	}
}

func runCloud(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := executil.LookPath("git", "docker"); err != nil {
		return err
	}
	printDryRunNotice(cfg)

	run := &executil.Exec{DryRun: cfg.DryRun}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ref := ""
	if len(args) == 1 {
		ref = args[0]
	}

	// Resolve before touching the tree: a nonexistent ref must fail with
	// nothing to clean up.
	target, err := gitstate.ResolveTarget(ctx, run, ref)
	if err != nil {
		return err
	}

	guard := gitstate.NewGuard(run, log.Printf)
	if err := guard.Save(ctx); err != nil {
		return err
	}
	defer guard.Restore()
	// An interrupt mid-build funnels into the same one-shot restore.
	go func() {
		<-ctx.Done()
		guard.Restore()
	}()

	if target.Switch {
		if err := guard.Checkout(ctx, target.Commit); err != nil {
			return err
		}
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
	printPlan(cfg, target, refs, buildx.KindCloud, dockerfile)

	bx := &buildx.Client{Run: run, Logf: log.Printf}
	if err := bx.CheckDaemon(ctx); err != nil {
		return err
	}
	if err := bx.EnsureBuilder(ctx, buildx.KindCloud, buildx.BuilderName(cfg.Builder, buildx.KindCloud), cfg.CloudProject); err != nil {
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

	// Put the tree back before notifying so an interrupted webhook call
	// cannot leave the checkout behind.
	guard.Restore()

	notifyRedeploy(ctx, cfg)

	fmt.Println(green("Cloud build and push complete."))
	return nil
}

// notifyRedeploy is best-effort end to end: every failure is a warning and
// the run's exit code is never affected.
func notifyRedeploy(ctx context.Context, cfg *config.Config) {
	if !cfg.Redeploy {
		return
	}
	if cfg.RedeployURL == "" {
		log.Printf("[redeploy] warn: SLIPWAY_REDEPLOY is enabled but SLIPWAY_REDEPLOY_URL is empty; skipping")
		return
	}
	if cfg.DryRun {
		log.Printf("[redeploy] dry-run: would POST %s", cfg.RedeployURL)
		return
	}

	client, err := notify.NewClient(cfg.RedeployURL)
	if err != nil {
		log.Printf("[redeploy] warn: %v", err)
		return
	}
	id, err := client.TriggerDeploy(ctx)
	if err != nil {
		log.Printf("[redeploy] warn: trigger failed (the deployment may not have started): %v", err)
		return
	}
	if id != "" {
		log.Printf("[redeploy] deployment %s triggered", id)
		return
	}
	log.Printf("[redeploy] deployment triggered")
}

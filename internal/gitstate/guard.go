// internal/gitstate/guard.go
//
// The Guard snapshots the working tree before a build repositions it and
// puts everything back afterward: stashed changes are popped, the original
// branch (or commit, when HEAD was detached) is checked out again. Restore
// is a one-shot no matter how many exit paths reach it.

package gitstate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"slipway/internal/executil"
)

const stashLabel = "slipway: pre-build snapshot"

// Snapshot is the state captured before any mutation.
type Snapshot struct {
	Branch string // empty when HEAD was detached
	Commit string
}

// Guard saves and restores working-tree state around a build.
type Guard struct {
	run  executil.Runner
	logf func(string, ...any)

	orig     Snapshot
	saved    bool
	stashed  bool
	switched bool
	restore  sync.Once
}

func NewGuard(run executil.Runner, logf func(string, ...any)) *Guard {
	if logf == nil {
		logf = log.Printf
	}
	return &Guard{run: run, logf: logf}
}

// Save captures the current branch and commit and stashes any uncommitted
// changes. Must be called before Checkout.
func (g *Guard) Save(ctx context.Context) error {
	branch, err := currentBranch(ctx, g.run)
	if err != nil {
		return fmt.Errorf("read current branch: %w", err)
	}
	commit, err := g.run.Capture(ctx, "git", "rev-parse", "HEAD")
	if err != nil {
		return fmt.Errorf("read current commit: %w", err)
	}
	g.orig = Snapshot{Branch: branch, Commit: commit}
	g.saved = true

	status, err := g.run.Capture(ctx, "git", "status", "--porcelain")
	if err != nil {
		return fmt.Errorf("check working tree: %w", err)
	}
	if status == "" {
		return nil
	}

	g.logf("[git] working tree is dirty, stashing changes")
	if err := g.run.Run(ctx, "git", "add", "-A"); err != nil {
		return fmt.Errorf("stage changes before stash: %w", err)
	}
	if err := g.run.Run(ctx, "git", "stash", "push", "-m", stashLabel); err != nil {
		return fmt.Errorf("stash changes: %w", err)
	}
	g.stashed = true
	return nil
}

// Checkout moves the working tree to commit. The move is undone by Restore.
func (g *Guard) Checkout(ctx context.Context, commit string) error {
	if !g.saved {
		return fmt.Errorf("checkout before Save")
	}
	if err := g.run.Run(ctx, "git", "checkout", commit); err != nil {
		return fmt.Errorf("checkout %s: %w", commit, err)
	}
	g.switched = true
	return nil
}

// Original reports the snapshot taken by Save.
func (g *Guard) Original() Snapshot { return g.orig }

// Restore puts the working tree back: checkout of the original branch is
// best-effort, a failed stash pop is reported with recovery instructions.
// Runs at most once per Guard; later calls are no-ops. A fresh context is
// used so restoration still happens after cancellation.
func (g *Guard) Restore() {
	g.restore.Do(func() {
		if !g.saved || (!g.switched && !g.stashed) {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if g.switched {
			ref := g.orig.Branch
			if ref == "" {
				ref = g.orig.Commit
			}
			if err := g.run.Run(ctx, "git", "checkout", ref); err != nil {
				g.logf("[git] warn: could not return to %s: %v", ref, err)
			} else {
				g.logf("[git] returned to %s", ref)
			}
		}

		if g.stashed {
			if err := g.run.Run(ctx, "git", "stash", "pop"); err != nil {
				g.logf("[git] warn: stash pop failed: %v", err)
				g.logf("[git] your changes are still stashed; recover them with `git stash list` and `git stash pop`")
			} else {
				g.logf("[git] restored stashed changes")
			}
		}
	})
}

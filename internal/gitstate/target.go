// internal/gitstate/target.go
//
// Target resolution: turn an optional commit-ish into a concrete commit,
// short hash, branch label, and the release tags pointing at it. Resolution
// happens before any working-tree mutation so a bad ref fails the run
// without leaving anything to clean up.

package gitstate

import (
	"context"
	"fmt"
	"strings"

	"slipway/internal/executil"
)

// Target is a fully resolved build target.
type Target struct {
	Commit      string
	ShortCommit string
	Branch      string   // branch label, or "detached-<short>" when none applies
	ReleaseTags []string // git tags pointing at Commit
	Switch      bool     // true when Commit differs from the current HEAD
}

// ResolveTarget resolves ref (empty means HEAD) into a Target.
func ResolveTarget(ctx context.Context, run executil.Runner, ref string) (Target, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "HEAD"
	}

	commit, err := run.Capture(ctx, "git", "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return Target{}, fmt.Errorf("cannot resolve commit %q: %w", ref, err)
	}
	short, err := run.Capture(ctx, "git", "rev-parse", "--short", commit)
	if err != nil {
		return Target{}, fmt.Errorf("short hash for %s: %w", commit, err)
	}
	head, err := run.Capture(ctx, "git", "rev-parse", "HEAD")
	if err != nil {
		return Target{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	t := Target{
		Commit:      commit,
		ShortCommit: short,
		Switch:      commit != head,
	}

	if !t.Switch {
		// Already on the target: reuse the current branch when there is one.
		branch, berr := currentBranch(ctx, run)
		if berr == nil && branch != "" {
			t.Branch = branch
		}
	}
	if t.Branch == "" {
		t.Branch = branchForCommit(ctx, run, commit, short)
	}

	if tags, terr := run.Capture(ctx, "git", "tag", "--points-at", commit); terr == nil && tags != "" {
		t.ReleaseTags = splitLines(tags)
	}

	return t, nil
}

// currentBranch returns the checked-out branch, or "" when HEAD is detached.
func currentBranch(ctx context.Context, run executil.Runner) (string, error) {
	out, err := run.Capture(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "HEAD" {
		return "", nil
	}
	return out, nil
}

// branchForCommit finds a remote branch containing commit, falling back to a
// synthetic detached label when none is found.
func branchForCommit(ctx context.Context, run executil.Runner, commit, short string) string {
	out, err := run.Capture(ctx, "git", "branch", "-r", "--contains", commit)
	if err == nil {
		for _, line := range splitLines(out) {
			// Skip symbolic entries like "origin/HEAD -> origin/main".
			if strings.Contains(line, "->") {
				continue
			}
			// Strip the remote name ("origin/feature/x" -> "feature/x").
			if i := strings.IndexByte(line, '/'); i >= 0 {
				line = line[i+1:]
			}
			if line != "" {
				return line
			}
		}
	}
	return "detached-" + short
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

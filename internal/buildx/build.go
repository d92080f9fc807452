// internal/buildx/build.go
package buildx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"slipway/internal/executil"
)

// BuildOptions describes the single build-and-push invocation.
type BuildOptions struct {
	Dockerfile  string
	ContextPath string
	Platform    string      // defaults to DefaultPlatform
	Refs        []string    // every repo:tag attached to this build
	Labels      [][2]string // provenance labels, deterministic order
	Push        bool
	DryRun      bool // skips filesystem checks; Run echoes instead of executing
}

// Build issues exactly one docker buildx build call carrying the whole tag
// set. A non-zero exit is fatal for the run.
func (c *Client) Build(ctx context.Context, opts BuildOptions) error {
	if len(opts.Refs) == 0 {
		return errors.New("build: at least one repo:tag is required")
	}
	for _, r := range opts.Refs {
		if strings.ToLower(r) != r || strings.ContainsAny(r, " \t\n") {
			return fmt.Errorf("build: invalid ref %q (must be lowercase, no spaces)", r)
		}
	}

	df := strings.TrimSpace(opts.Dockerfile)
	if df == "" {
		df = "Dockerfile"
	}
	ctxPath := strings.TrimSpace(opts.ContextPath)
	if ctxPath == "" {
		ctxPath = "."
	}
	platform := opts.Platform
	if platform == "" {
		platform = DefaultPlatform
	}

	if !opts.DryRun {
		if st, err := os.Stat(df); err != nil || st.IsDir() {
			return fmt.Errorf("build: Dockerfile %q not found or not a file", df)
		}
		if st, err := os.Stat(ctxPath); err != nil || !st.IsDir() {
			return fmt.Errorf("build: context %q not found or not a directory", ctxPath)
		}
	}

	args := []string{"buildx", "build", "--progress=plain", "--platform", platform}
	for _, r := range opts.Refs {
		args = append(args, "-t", r)
	}
	args = append(args, "-f", df)
	for _, kv := range opts.Labels {
		if kv[0] != "" && kv[1] != "" {
			args = append(args, "--label", kv[0]+"="+kv[1])
		}
	}
	if opts.Push {
		args = append(args, "--push")
	}
	args = append(args, ctxPath)

	c.logf("[buildx] executing: docker %s", executil.QuoteArgs(args))
	return c.Run.Run(ctx, "docker", args...)
}

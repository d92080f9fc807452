// internal/buildx/buildx.go
//
// Thin layer over docker buildx: make sure a usable builder exists and is
// selected, then issue the single build-and-push call. Local and remote
// daemons get a container-driver builder; cloud builds get the cloud driver
// bound to a project.

package buildx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"slipway/internal/executil"
)

// Kind selects the build backend.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
	KindCloud  Kind = "cloud"
)

// DefaultPlatform is the only platform these images are built for.
const DefaultPlatform = "linux/amd64"

// BuilderName returns the override when set, otherwise a kind-derived name.
func BuilderName(override string, kind Kind) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	return "slipway-" + string(kind)
}

// Client wraps buildx invocations through a Runner.
type Client struct {
	Run  executil.Runner
	Logf func(string, ...any)
}

func (c *Client) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// CheckDaemon verifies the docker daemon is reachable. Connectivity failures
// are fatal for every path, so callers return this error directly.
func (c *Client) CheckDaemon(ctx context.Context) error {
	if _, err := c.Run.Capture(ctx, "docker", "info", "--format", "{{.ServerVersion}}"); err != nil {
		return fmt.Errorf("cannot reach the docker daemon (is it running, and is DOCKER_HOST correct?): %w", err)
	}
	return nil
}

// EnsureBuilder selects an existing builder or creates one. Creation failure
// is fatal for cloud builds; local and remote builds fall back to whatever
// builder is currently active and let the build surface any error.
func (c *Client) EnsureBuilder(ctx context.Context, kind Kind, name, project string) error {
	if _, err := c.Run.Capture(ctx, "docker", "buildx", "inspect", name); err == nil {
		c.logf("[buildx] using existing builder %q", name)
		return c.Run.Run(ctx, "docker", "buildx", "use", name)
	}

	args := []string{"buildx", "create", "--name", name, "--use"}
	switch kind {
	case KindCloud:
		if strings.TrimSpace(project) == "" {
			return errors.New("cloud builds need a project id (set SLIPWAY_CLOUD_PROJECT)")
		}
		args = append(args, "--driver", "cloud", project)
	default:
		args = append(args, "--driver", "docker-container")
	}

	c.logf("[buildx] creating %s builder %q", kind, name)
	if err := c.Run.Run(ctx, "docker", args...); err != nil {
		if kind == KindCloud {
			return fmt.Errorf("create cloud builder %q: %w", name, err)
		}
		c.logf("[buildx] warn: could not create builder %q, continuing with the current builder: %v", name, err)
	}
	return nil
}

package cli

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"slipway/internal/config"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd("test")

	if root.Use != "slipway" {
		t.Errorf("unexpected root use: %q", root.Use)
	}

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"build", "cloud"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing %q subcommand, have %v", want, names)
		}
	}

	for _, flag := range []string{"dry-run", "variant", "context"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag %q", flag)
		}
	}
}

func TestCloudCmdArgs(t *testing.T) {
	cloud := newCloudCmd()
	if err := cloud.Args(cloud, []string{"abc123", "extra"}); err == nil {
		t.Error("cloud must accept at most one positional argument")
	}
	if err := cloud.Args(cloud, []string{"abc123"}); err != nil {
		t.Errorf("one commit argument must be accepted: %v", err)
	}
	if err := cloud.Args(cloud, nil); err != nil {
		t.Errorf("zero arguments must be accepted: %v", err)
	}
}

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)
	fn()
	return buf.String()
}

func TestNotifyRedeployGating(t *testing.T) {
	ctx := context.Background()

	out := captureLog(t, func() {
		notifyRedeploy(ctx, &config.Config{})
	})
	if out != "" {
		t.Errorf("disabled redeploy must be a silent skip, got %q", out)
	}

	out = captureLog(t, func() {
		notifyRedeploy(ctx, &config.Config{Redeploy: true})
	})
	if !strings.Contains(out, "skipping") {
		t.Errorf("enabled redeploy without URL must warn and skip, got %q", out)
	}

	out = captureLog(t, func() {
		notifyRedeploy(ctx, &config.Config{
			Redeploy:    true,
			RedeployURL: "https://hooks.example.com/deploy",
			DryRun:      true,
		})
	})
	if !strings.Contains(out, "would POST") {
		t.Errorf("dry-run redeploy must only announce the POST, got %q", out)
	}
}

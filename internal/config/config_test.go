package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SLIPWAY_IMAGE", "SLIPWAY_BUILD_TYPE", "SLIPWAY_REMOTE_HOST",
		"SLIPWAY_CLOUD_PROJECT", "SLIPWAY_BUILDER", "SLIPWAY_REDEPLOY",
		"SLIPWAY_REDEPLOY_URL", "SLIPWAY_DRY_RUN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.Variant)
	assert.Equal(t, ".", cfg.Context)
	assert.Empty(t, cfg.Image)
	assert.False(t, cfg.Redeploy)
	assert.False(t, cfg.DryRun)
}

func TestLoadFileOverlay(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	data := []byte("image: registry.example.com/team/app\nvariant: dev\nredeploy: true\nredeploy_url: https://hooks.example.com/deploy\n")
	require.NoError(t, os.WriteFile(FileName, data, 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "registry.example.com/team/app", cfg.Image)
	assert.Equal(t, "dev", cfg.Variant)
	assert.True(t, cfg.Redeploy)
	assert.Equal(t, "https://hooks.example.com/deploy", cfg.RedeployURL)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile(FileName, []byte("image: from-file\nredeploy: true\n"), 0o644))
	t.Setenv("SLIPWAY_IMAGE", "from-env")
	t.Setenv("SLIPWAY_REDEPLOY", "false")
	t.Setenv("SLIPWAY_DRY_RUN", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Image)
	assert.False(t, cfg.Redeploy)
	assert.True(t, cfg.DryRun)
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile(FileName, []byte("image: [unclosed"), 0o644))
	_, err := Load()
	assert.Error(t, err)
}

func TestDockerfileVariants(t *testing.T) {
	tests := []struct {
		variant   string
		want      string
		expectErr bool
	}{
		{variant: "", want: "Dockerfile"},
		{variant: "root", want: "Dockerfile"},
		{variant: "nonroot", want: "Dockerfile.nonroot"},
		{variant: "dev", want: "Dockerfile.dev"},
		{variant: "prod", expectErr: true},
	}

	for _, tt := range tests {
		t.Run("variant="+tt.variant, func(t *testing.T) {
			cfg := &Config{Variant: tt.variant}
			got, err := cfg.Dockerfile()
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

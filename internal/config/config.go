// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-repo config file, read from the working dir.
const FileName = ".slipway.yaml"

// Config is assembled from defaults, the optional YAML file, and SLIPWAY_*
// environment variables, in that order (env wins).
type Config struct {
	Image        string `yaml:"image"`
	BuildType    string `yaml:"build_type"`
	RemoteHost   string `yaml:"remote_host"`
	CloudProject string `yaml:"cloud_project"`
	Builder      string `yaml:"builder"`
	Redeploy     bool   `yaml:"redeploy"`
	RedeployURL  string `yaml:"redeploy_url"`
	Variant      string `yaml:"variant"`
	Context      string `yaml:"context"`
	DryRun       bool   `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Variant: "root",
		Context: ".",
	}
}

func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(FileName)
	switch {
	case err == nil:
		if uerr := yaml.Unmarshal(data, cfg); uerr != nil {
			return nil, fmt.Errorf("parse %s: %w", FileName, uerr)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(c *Config) {
	c.Image = getenv("SLIPWAY_IMAGE", c.Image)
	c.BuildType = getenv("SLIPWAY_BUILD_TYPE", c.BuildType)
	c.RemoteHost = getenv("SLIPWAY_REMOTE_HOST", c.RemoteHost)
	c.CloudProject = getenv("SLIPWAY_CLOUD_PROJECT", c.CloudProject)
	c.Builder = getenv("SLIPWAY_BUILDER", c.Builder)
	c.RedeployURL = getenv("SLIPWAY_REDEPLOY_URL", c.RedeployURL)
	if v := os.Getenv("SLIPWAY_REDEPLOY"); v != "" {
		c.Redeploy = v == "true"
	}
	if os.Getenv("SLIPWAY_DRY_RUN") == "true" {
		c.DryRun = true
	}
}

// Dockerfile maps the variant to its Dockerfile path.
func (c *Config) Dockerfile() (string, error) {
	switch c.Variant {
	case "", "root":
		return "Dockerfile", nil
	case "nonroot":
		return "Dockerfile.nonroot", nil
	case "dev":
		return "Dockerfile.dev", nil
	default:
		return "", fmt.Errorf("unknown variant %q (expected root, nonroot or dev)", c.Variant)
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

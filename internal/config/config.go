// Package config loads the connection settings for the target bucket from
// an optional YAML file and the environment. The resulting Config is passed
// explicitly to every component; there is no ambient process-wide state.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRegion is the Hetzner Object Storage region used when none is
// configured.
const DefaultRegion = "fsn1"

// Config holds the connection parameters for the target bucket.
type Config struct {
	// Endpoint is the S3 management API base URL. Derived from Region
	// when empty.
	Endpoint string `yaml:"endpoint"`

	// Bucket is the target bucket name.
	Bucket string `yaml:"bucket"`

	// Region is the Hetzner Object Storage region (fsn1, nbg1, hel1).
	Region string `yaml:"region"`

	// AccessKey identifies the credential.
	AccessKey string `yaml:"access_key"`

	// SecretKey is the credential secret. May be left empty and supplied
	// via a masked prompt at runtime; never written back to disk.
	SecretKey string `yaml:"-"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// the environment, in that order of precedence (environment wins). An
// empty path skips the file layer; a missing file at an explicit path is
// an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		// #nosec G304
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration. The
// HETZNER_S3_* names take precedence over the generic AWS ones.
func applyEnv(cfg *Config) {
	if v := os.Getenv("BUCKETKEEPER_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("BUCKETKEEPER_BUCKET"); v != "" {
		cfg.Bucket = v
	}
	if v := os.Getenv("BUCKETKEEPER_REGION"); v != "" {
		cfg.Region = v
	}

	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" && cfg.AccessKey == "" {
		cfg.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" && cfg.SecretKey == "" {
		cfg.SecretKey = v
	}
	if v := os.Getenv("HETZNER_S3_ACCESS_KEY"); v != "" {
		cfg.AccessKey = v
	}
	if v := os.Getenv("HETZNER_S3_SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
}

// applyDefaults fills region and endpoint when unset.
func applyDefaults(cfg *Config) {
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = EndpointForRegion(cfg.Region)
	}
}

// EndpointForRegion returns the Hetzner Object Storage endpoint for a region.
func EndpointForRegion(region string) string {
	return fmt.Sprintf("https://%s.your-objectstorage.com", region)
}

// Validate checks that the configuration is usable. The secret key is not
// required here; it can be prompted for interactively.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("bucket name is required (set bucket in the config file or BUCKETKEEPER_BUCKET)")
	}
	if c.AccessKey == "" {
		return errors.New("access key is required (set HETZNER_S3_ACCESS_KEY)")
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	return nil
}

package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvDSN           = "STOREFRONT_DSN"
	EnvSessionSecret = "STOREFRONT_SESSION_SECRET"
)

// LoadFile overlays the YAML document at path on DefaultConfig and applies
// environment overrides. An empty path yields the defaults plus environment.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("storefront config: read %s: %w", path, err)
		}
		if err := Decode(bytes.NewReader(raw), &cfg); err != nil {
			return Config{}, fmt.Errorf("storefront config: %s: %w", path, err)
		}
	}
	ApplyEnv(&cfg, os.LookupEnv)
	return cfg, nil
}

// Decode overlays YAML from r onto cfg. Keys missing from the document keep
// their current values; unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv copies secrets from the environment into cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if cfg == nil || lookup == nil {
		return
	}
	if dsn, ok := lookup(EnvDSN); ok && strings.TrimSpace(dsn) != "" {
		cfg.Storage.DSN = strings.TrimSpace(dsn)
	}
	if secret, ok := lookup(EnvSessionSecret); ok && secret != "" {
		cfg.Session.Secret = secret
	}
}

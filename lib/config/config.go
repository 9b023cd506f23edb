// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for trible tooling.
//
// Configuration is loaded from a single file specified by:
//   - TRIBLE_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. The config file is
// the single source of truth; environment variables never override
// config values. The only expansion performed is ${HOME} and similar
// path variables for portability.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for trible tooling.
type Config struct {
	// Store configures the on-disk blob store.
	Store StoreConfig `yaml:"store"`

	// Cache configures the decoded-set cache.
	Cache CacheConfig `yaml:"cache"`

	// Hash selects the digest protocol.
	Hash HashConfig `yaml:"hash"`

	// Import configures document ingestion.
	Import ImportConfig `yaml:"import"`
}

// StoreConfig configures the on-disk blob store.
type StoreConfig struct {
	// Root is the blob store directory.
	// Default: ${HOME}/.cache/trible/store
	Root string `yaml:"root"`

	// Compression is the algorithm attempted for new blobs:
	// "none", "lz4", or "zstd". Incompressible blobs fall back to
	// uncompressed storage per blob.
	// Default: zstd
	Compression string `yaml:"compression"`
}

// CacheConfig configures the decoded-set cache.
type CacheConfig struct {
	// Capacity is the number of decoded fact sets kept resident.
	// Non-positive values select the built-in default.
	Capacity int `yaml:"capacity"`
}

// HashConfig selects the digest protocol.
type HashConfig struct {
	// Protocol names the digest algorithm: "blake3" or "blake2b".
	// Default: blake3
	Protocol string `yaml:"protocol"`
}

// ImportConfig configures document ingestion.
type ImportConfig struct {
	// Salt is an optional 64-character hex string mixed into entity
	// identifier derivation. Distinct salts keep identifiers from
	// unrelated imports disjoint. Empty means unsalted.
	Salt string `yaml:"salt"`
}

// Default returns the default configuration, used as a base before
// loading the config file. It exists so every field has a sensible
// zero-value, not as a substitute for a config file.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Store: StoreConfig{
			Root:        filepath.Join(homeDir, ".cache", "trible", "store"),
			Compression: "zstd",
		},
		Cache: CacheConfig{
			Capacity: 0,
		},
		Hash: HashConfig{
			Protocol: "blake3",
		},
	}
}

// Load loads configuration from the TRIBLE_CONFIG environment
// variable. There are no fallbacks: if TRIBLE_CONFIG is not set, this
// fails.
func Load() (*Config, error) {
	configPath := os.Getenv("TRIBLE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("TRIBLE_CONFIG environment variable not set; " +
			"set it to the path of your trible.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merging the
// file's values over the defaults and expanding path variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Store.Root = expandVars(c.Store.Root, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Store.Root == "" {
		errs = append(errs, fmt.Errorf("store.root is required"))
	}

	switch c.Store.Compression {
	case "", "none", "lz4", "zstd":
	default:
		errs = append(errs, fmt.Errorf("store.compression must be one of: none, lz4, zstd"))
	}

	switch c.Hash.Protocol {
	case "blake3", "blake2b":
	default:
		errs = append(errs, fmt.Errorf("hash.protocol must be one of: blake3, blake2b"))
	}

	if c.Import.Salt != "" && len(c.Import.Salt) != 64 {
		errs = append(errs, fmt.Errorf("import.salt must be a 64-character hex string"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

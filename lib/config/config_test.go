// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trible.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
store:
  root: /var/lib/trible
cache:
  capacity: 512
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Store.Root != "/var/lib/trible" {
		t.Fatalf("store.root = %q", cfg.Store.Root)
	}
	if cfg.Cache.Capacity != 512 {
		t.Fatalf("cache.capacity = %d", cfg.Cache.Capacity)
	}
	// Unspecified fields keep their defaults.
	if cfg.Store.Compression != "zstd" {
		t.Fatalf("store.compression = %q, want default zstd", cfg.Store.Compression)
	}
	if cfg.Hash.Protocol != "blake3" {
		t.Fatalf("hash.protocol = %q, want default blake3", cfg.Hash.Protocol)
	}
}

func TestLoadFileExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	path := writeConfig(t, `
store:
  root: ${HOME}/trible-store
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Store.Root != "/home/tester/trible-store" {
		t.Fatalf("store.root = %q", cfg.Store.Root)
	}
}

func TestExpandVarsDefault(t *testing.T) {
	got := expandVars("${NOT_SET_ANYWHERE:-/fallback}/data", nil)
	if got != "/fallback/data" {
		t.Fatalf("expandVars = %q", got)
	}
}

func TestLoadRequiresEnvironmentVariable(t *testing.T) {
	t.Setenv("TRIBLE_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without TRIBLE_CONFIG")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := map[string]func(*Config){
		"empty root":        func(c *Config) { c.Store.Root = "" },
		"bad compression":   func(c *Config) { c.Store.Compression = "brotli" },
		"bad protocol":      func(c *Config) { c.Hash.Protocol = "md5" },
		"short import salt": func(c *Config) { c.Import.Salt = "abcd" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate accepted invalid config", name)
		}
	}
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "store: [not: a: mapping")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("malformed YAML accepted")
	}
}

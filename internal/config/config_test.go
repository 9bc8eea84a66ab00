// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ISA.XLen != 64 {
		t.Errorf("XLen = %d, want 64", cfg.ISA.XLen)
	}
	if !cfg.ISA.M || !cfg.ISA.A || !cfg.ISA.C || !cfg.ISA.Zicsr || !cfg.ISA.Zifencei {
		t.Error("expected M, A, C, Zicsr, Zifencei all enabled by default")
	}
	if cfg.Execution.MaxSteps != 0 {
		t.Errorf("MaxSteps = %d, want 0 (unlimited)", cfg.Execution.MaxSteps)
	}
	if cfg.Execution.MemSize != 1<<20 {
		t.Errorf("MemSize = %d, want %d", cfg.Execution.MemSize, 1<<20)
	}
	if cfg.Trace.Enabled {
		t.Error("expected Trace.Enabled = false by default")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "rvcore" && path != "config.toml" {
			t.Errorf("expected path in rvcore directory or fallback, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.ISA.XLen = 32
	cfg.ISA.C = false
	cfg.Execution.MaxSteps = 1000
	cfg.Trace.Enabled = true
	cfg.Trace.OutputFile = "run.trace"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.ISA.XLen != 32 {
		t.Errorf("XLen = %d, want 32", loaded.ISA.XLen)
	}
	if loaded.ISA.C {
		t.Error("expected C = false")
	}
	if loaded.Execution.MaxSteps != 1000 {
		t.Errorf("MaxSteps = %d, want 1000", loaded.Execution.MaxSteps)
	}
	if loaded.Trace.OutputFile != "run.trace" {
		t.Errorf("OutputFile = %q, want run.trace", loaded.Trace.OutputFile)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on missing file: %v", err)
	}
	if cfg.ISA.XLen != 64 {
		t.Error("expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[isa]
xlen = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}

func TestISAConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ISA.XLen = 32
	isaCfg := cfg.ISAConfig()
	if isaCfg.XLen != 32 {
		t.Errorf("ISAConfig().XLen = %d, want 32", isaCfg.XLen)
	}
	if !isaCfg.M {
		t.Error("ISAConfig().M = false, want true")
	}
}

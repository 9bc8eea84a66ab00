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

// Package config loads the persistent, on-disk settings for the
// rvcore CLI: ISA configuration, run limits, and trace output, all in
// one TOML file a user can hand-edit. Structure and load/save pattern
// are grounded on the arm-emu config package; every nested section
// matches a cmd/rvcore concern the way that package's [execution],
// [debugger], [trace] sections match its commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/lmmilewski/rvcore/pkg/isa"
)

// Config is the rvcore on-disk configuration.
type Config struct {
	// ISA selects the instruction set a hart is built for.
	ISA struct {
		XLen     uint `toml:"xlen"` // 32 or 64
		Embedded bool `toml:"embedded"`
		M        bool `toml:"m_ext"`
		A        bool `toml:"a_ext"`
		C        bool `toml:"c_ext"`
		Zicsr    bool `toml:"zicsr"`
		Zifencei bool `toml:"zifencei"`
	} `toml:"isa"`

	// Execution settings bound a run.
	Execution struct {
		MaxSteps  uint64 `toml:"max_steps"` // 0 = unlimited
		MemSize   uint64 `toml:"mem_size"`
		StackSize uint64 `toml:"stack_size"`
		EntryAddr string `toml:"entry_addr"` // hex, e.g. "0x0"
	} `toml:"execution"`

	// Trace settings control the optional per-instruction execution log.
	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`

	// Disasm settings control standalone disassembly output.
	Disasm struct {
		ShowRaw    bool `toml:"show_raw"` // print the raw hex word alongside mnemonic
		ShowAddr   bool `toml:"show_addr"`
		ContextPad int  `toml:"context_pad"` // blank lines around a requested address
	} `toml:"disasm"`
}

// DefaultConfig returns a Config matching isa.DefaultConfig: RV64I
// plus M, A, C, Zicsr, Zifencei.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.ISA.XLen = 64
	cfg.ISA.Embedded = false
	cfg.ISA.M = true
	cfg.ISA.A = true
	cfg.ISA.C = true
	cfg.ISA.Zicsr = true
	cfg.ISA.Zifencei = true

	cfg.Execution.MaxSteps = 0
	cfg.Execution.MemSize = 1 << 20 // 1MiB
	cfg.Execution.StackSize = 64 << 10
	cfg.Execution.EntryAddr = "0x0"

	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.MaxEntries = 100000

	cfg.Disasm.ShowRaw = true
	cfg.Disasm.ShowAddr = true
	cfg.Disasm.ContextPad = 0

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rvcore")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rvcore")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, falling back
// to DefaultConfig if it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, overlaying it
// on top of DefaultConfig so a partial file only overrides the fields
// it sets.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// ISAConfig converts the on-disk ISA section into an isa.Config. The
// conversion lives here rather than in pkg/isa so that pkg/isa never
// needs to know about an on-disk representation.
func (c *Config) ISAConfig() isa.Config {
	return isa.Config{
		XLen:     c.ISA.XLen,
		Embedded: c.ISA.Embedded,
		M:        c.ISA.M,
		A:        c.ISA.A,
		C:        c.ISA.C,
		Zicsr:    c.ISA.Zicsr,
		Zifencei: c.ISA.Zifencei,
	}
}

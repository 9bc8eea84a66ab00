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

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmmilewski/rvcore/internal/config"
	"github.com/lmmilewski/rvcore/internal/hostsvc"
	"github.com/lmmilewski/rvcore/internal/image"
	"github.com/lmmilewski/rvcore/pkg/hart"
	"github.com/lmmilewski/rvcore/pkg/isa"
	"github.com/lmmilewski/rvcore/pkg/xlen"
)

func newRunCmd() *cobra.Command {
	var (
		argv      string
		env       string
		prog      string
		maxSteps  uint64
		configPat string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a RISC-V ELF binary to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPat)
			if err != nil {
				return err
			}
			if maxSteps != 0 {
				cfg.Execution.MaxSteps = maxSteps
			}

			p := &image.Program{
				Argv:    append([]string{prog}, splitNonEmpty(argv, ",")...),
				Env:     splitNonEmpty(env, ","),
				MemSize: cfg.Execution.MemSize,
			}
			loaded, err := image.LoadELF(os.ExpandEnv(prog), p)
			if err != nil {
				return fmt.Errorf("can't load program: %w", err)
			}

			return runImage(cfg.ISAConfig(), loaded, cfg.Execution.MaxSteps, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&argv, "argv", "", "Comma-separated argv")
	cmd.Flags().StringVar(&env, "env", "", "Comma-separated env")
	cmd.Flags().StringVar(&prog, "prog", "", "Path to the program to execute (must be an ELF file)")
	cmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "Maximum number of instructions to execute (0 = config default)")
	cmd.Flags().StringVar(&configPat, "config", "", "Path to a TOML config file (default: platform config dir)")
	cmd.MarkFlagRequired("prog")

	return cmd
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// runImage runs a loaded program image to completion, dispatching on
// XLEN since pkg/hart.Hart is generic over it.
func runImage(isaCfg isa.Config, loaded *image.Loaded, maxSteps uint64, out *os.File) error {
	host := hostsvc.Console{Out: out}

	var runErr error
	switch isaCfg.XLen {
	case 32:
		h := hart.New(xlen.XLen32{}, isaCfg, loaded.Mem, loaded.Entry, host)
		if loaded.SP != 0 {
			h.Reg.Set(isa.SP, loaded.SP)
		}
		runErr = h.Run(maxSteps)
	case 64:
		h := hart.New(xlen.XLen64{}, isaCfg, loaded.Mem, loaded.Entry, host)
		if loaded.SP != 0 {
			h.Reg.Set(isa.SP, loaded.SP)
		}
		runErr = h.Run(maxSteps)
	default:
		return fmt.Errorf("unsupported XLen %d", isaCfg.XLen)
	}

	var exit *hart.ErrExit
	if errors.As(runErr, &exit) {
		return nil
	}
	return runErr
}

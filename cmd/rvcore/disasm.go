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
	"debug/elf"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lmmilewski/rvcore/internal/config"
	"github.com/lmmilewski/rvcore/pkg/isa"
)

func newDisasmCmd() *cobra.Command {
	var (
		prog      string
		configPat string
	)

	cmd := &cobra.Command{
		Use:   "disasm",
		Short: "Disassemble a RISC-V ELF binary's executable sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPat)
			if err != nil {
				return err
			}

			f, err := elf.Open(os.ExpandEnv(prog))
			if err != nil {
				return fmt.Errorf("can't read program: %w", err)
			}
			defer f.Close()

			isaCfg := cfg.ISAConfig()
			for _, s := range f.Sections {
				if s.Flags&elf.SHF_EXECINSTR == 0 {
					continue
				}
				data, err := s.Data()
				if err != nil {
					return fmt.Errorf("can't read section %s: %w", s.Name, err)
				}
				fmt.Printf("Disassembly of section %s:\n", s.Name)
				disasmSection(isaCfg, s.Addr, data, cfg.Disasm.ShowRaw, cfg.Disasm.ShowAddr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prog, "prog", "", "Path to the program to disassemble (must be an ELF file)")
	cmd.Flags().StringVar(&configPat, "config", "", "Path to a TOML config file (default: platform config dir)")
	cmd.MarkFlagRequired("prog")

	return cmd
}

// disasmSection decodes and prints every instruction in data, which is
// mapped starting at addr. Handles the mixed 16/32-bit instruction
// stream the same way pkg/hart.fetch does.
func disasmSection(cfg isa.Config, addr uint64, data []byte, showRaw, showAddr bool) {
	mem := isa.NewMemoryFromBytes(append([]byte(nil), data...))
	pc := uint64(0)
	for int(pc) < len(data) {
		var (
			in   *isa.Instruction
			err  error
			size uint64
		)

		low, ok := mem.LoadU16(pc)
		if !ok {
			break
		}
		if cfg.C && isa.IsCompressed(low) {
			in, err = isa.DecodeCompressed(cfg, low)
			size = 2
		} else {
			word, ok := mem.LoadU32(pc)
			if !ok {
				break
			}
			in, err = isa.Decode(cfg, word)
			size = 4
		}

		var line string
		if err != nil {
			line = fmt.Sprintf("(bad)")
		} else {
			line = isa.Disassemble(in, addr+pc)
		}

		switch {
		case showAddr && showRaw:
			fmt.Printf("  %#08x:\t%08x\t%s\n", addr+pc, rawWord(mem, pc, size), line)
		case showAddr:
			fmt.Printf("  %#08x:\t%s\n", addr+pc, line)
		default:
			fmt.Printf("  %s\n", line)
		}
		pc += size
	}
}

func rawWord(mem *isa.Memory, pc, size uint64) uint32 {
	if size == 2 {
		w, _ := mem.LoadU16(pc)
		return uint32(w)
	}
	w, _ := mem.LoadU32(pc)
	return w
}

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

// rvcore is a RISC-V RV32I/RV64I interpreter.
//
// DO NOT USE THIS IN PRODUCTION. This project exists as a way to
// learn RISC-V.
//
// rvcore can:
//
//   - run a RISC-V program from an ELF file
//
//     rvcore run --argv=a,hello,world --env=A=B,LANG=en_US.UTF-8 --prog=PATH_TO_RISCV_BINARY
//
//   - disassemble every executable section of an ELF file
//
//     rvcore disasm --prog=PATH_TO_RISCV_BINARY
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rvcore",
		Short: "A RISC-V RV32I/RV64I interpreter",
	}

	rootCmd.AddCommand(newRunCmd(), newDisasmCmd(), newFactorialCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

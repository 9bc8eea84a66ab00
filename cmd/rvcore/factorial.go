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
	"os"

	"github.com/spf13/cobra"

	"github.com/lmmilewski/rvcore/internal/fixture"
	"github.com/lmmilewski/rvcore/internal/image"
	"github.com/lmmilewski/rvcore/pkg/isa"
)

// newFactorialCmd runs the bundled factorial fixture: no ELF, no
// argv/env, just the canonical end-to-end sanity check.
func newFactorialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factorial",
		Short: "Run the bundled factorial{7,8,9,10} sanity-check program",
		RunE: func(cmd *cobra.Command, args []string) error {
			mem, sp := fixture.FactorialImage()
			loaded, err := image.LoadFlat(mem, &image.Program{MemSize: uint64(len(mem))})
			if err != nil {
				return err
			}
			loaded.SP = sp

			cfg := isa.Config{XLen: 32, M: true}
			return runImage(cfg, loaded, 0, os.Stdout)
		},
	}
}

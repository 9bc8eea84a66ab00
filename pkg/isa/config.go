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

package isa

// Config enumerates which ISA subsets are enabled.
// Disabled extensions decode as IllegalInstruction even when the raw
// bits would otherwise match a known encoding.
type Config struct {
	XLen     uint // 32 or 64
	Embedded bool // BaseE instead of BaseI
	M        bool // integer multiply/divide
	A        bool // atomics (decode only; see exec_amo.go)
	C        bool // compressed instructions, also selects IALIGN=16
	Zicsr    bool // control/status registers
	Zifencei bool // FENCE.I
}

// DefaultConfig enables the RV64I base plus M, A, C, Zicsr, Zifencei,
// matching a typical application-class hart.
func DefaultConfig() Config {
	return Config{
		XLen:     64,
		M:        true,
		A:        true,
		C:        true,
		Zicsr:    true,
		Zifencei: true,
	}
}

// IAlign returns the instruction-address alignment in bytes: 2 when
// the compressed extension is enabled (IALIGN=16), 4 otherwise
// (IALIGN=32).
func (c Config) IAlign() uint64 {
	if c.C {
		return 2
	}
	return 4
}

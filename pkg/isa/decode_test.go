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

import "testing"

// TestDecodeIsTotal enumerates opcode/funct3/funct7 combinations at a
// coarse stride and asserts Decode never panics and always returns
// either a concrete Op or an IllegalInstructionError, per the
// decoding-is-total invariant and its stress-enumeration stride
// R∈{0,13,26}.
func TestDecodeIsTotal(t *testing.T) {
	cfg := DefaultConfig()
	strides := []uint32{0, 13, 26}

	for bop := uint32(0); bop < 32; bop++ {
		for _, f3 := range strides {
			for _, f7 := range strides {
				for _, imm := range []uint32{0, 0x7ff, 0xfff} {
					word := bop<<2 | 0x3 | (f3&0x7)<<12 | (f7&0x7f)<<25 | (imm&0x1f)<<7 | (imm&0x1f)<<20
					in, err := Decode(cfg, word)
					if err == nil && in.Op == OpIllegal {
						t.Errorf("Decode(%#08x) returned ok but Op==OpIllegal; want a concrete Op or an error", word)
					}
					if err != nil {
						if _, ok := err.(*IllegalInstructionError); !ok {
							t.Errorf("Decode(%#08x) error = %T, want *IllegalInstructionError", word, err)
						}
					}
				}
			}
		}
	}
}

func TestDecodeKnownWords(t *testing.T) {
	cfg := DefaultConfig()

	for _, tt := range []struct {
		desc string
		word uint32
		op   Op
	}{
		{"addi x1, x2, 3", Encode(&Instruction{Op: OpADDI, Rd: 1, Rs1: 2, Imm: 3}), OpADDI},
		{"add x1, x2, x3", Encode(&Instruction{Op: OpADD, Rd: 1, Rs1: 2, Rs2: 3}), OpADD},
		{"jal x1, 0x100", Encode(&Instruction{Op: OpJAL, Rd: 1, Imm: 0x100}), OpJAL},
		{"ecall", Encode(&Instruction{Op: OpECALL}), OpECALL},
		{"ebreak", Encode(&Instruction{Op: OpEBREAK}), OpEBREAK},
	} {
		t.Run(tt.desc, func(t *testing.T) {
			in, err := Decode(cfg, tt.word)
			if err != nil {
				t.Fatalf("Decode(%#08x) error: %v", tt.word, err)
			}
			if in.Op != tt.op {
				t.Errorf("Decode(%#08x).Op = %v, want %v", tt.word, in.Op, tt.op)
			}
		})
	}
}

func TestDecodeDisabledExtensionsAreIllegal(t *testing.T) {
	cfg := Config{XLen: 64} // M, A, C, Zicsr all off

	mulWord := Encode(&Instruction{Op: OpMUL, Rd: 1, Rs1: 2, Rs2: 3})
	if _, err := Decode(cfg, mulWord); err == nil {
		t.Error("Decode(MUL) with M disabled succeeded, want IllegalInstruction")
	}

	amoWord := Encode(&Instruction{Op: OpAMOADDW, Rd: 1, Rs1: 2, Rs2: 3})
	if _, err := Decode(cfg, amoWord); err == nil {
		t.Error("Decode(AMOADD.W) with A disabled succeeded, want IllegalInstruction")
	}

	csrWord := Encode(&Instruction{Op: OpCSRRW, Rd: 1, Rs1: 2, CSR: CSRCycle})
	if _, err := Decode(cfg, csrWord); err == nil {
		t.Error("Decode(CSRRW) with Zicsr disabled succeeded, want IllegalInstruction")
	}
}

func TestDecodeUnknownCSRIsIllegal(t *testing.T) {
	cfg := DefaultConfig()
	word := Encode(&Instruction{Op: OpCSRRW, Rd: 1, Rs1: 2, CSR: 0x7c0}) // not in knownCSR
	if _, err := Decode(cfg, word); err == nil {
		t.Error("Decode(CSRRW with unknown CSR) succeeded, want IllegalInstruction")
	}
}

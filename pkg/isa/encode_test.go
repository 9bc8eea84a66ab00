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

import (
	"reflect"
	"testing"
)

// TestRoundTrip exercises the round-trip law: for every legal
// variant, decode(encode(fields)) == fields.
func TestRoundTrip(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		desc string
		in   *Instruction
	}{
		{"lui", &Instruction{Op: OpLUI, Rd: 5, Imm: 0x12345000}},
		{"auipc", &Instruction{Op: OpAUIPC, Rd: 6, Imm: 0xfffff000}},
		{"jal", &Instruction{Op: OpJAL, Rd: 1, Imm: u64(-4096)}},
		{"jalr", &Instruction{Op: OpJALR, Rd: 1, Rs1: 2, Imm: u64(-4)}},

		{"beq", &Instruction{Op: OpBEQ, Rs1: 3, Rs2: 4, Imm: uint64(int64(2044))}},
		{"bne", &Instruction{Op: OpBNE, Rs1: 3, Rs2: 4, Imm: u64(-2048)}},
		{"blt", &Instruction{Op: OpBLT, Rs1: 7, Rs2: 8, Imm: 16}},
		{"bge", &Instruction{Op: OpBGE, Rs1: 7, Rs2: 8, Imm: 16}},
		{"bltu", &Instruction{Op: OpBLTU, Rs1: 7, Rs2: 8, Imm: 16}},
		{"bgeu", &Instruction{Op: OpBGEU, Rs1: 7, Rs2: 8, Imm: 16}},

		{"lb", &Instruction{Op: OpLB, Rd: 9, Rs1: 10, Imm: u64(-1)}},
		{"lh", &Instruction{Op: OpLH, Rd: 9, Rs1: 10, Imm: 2}},
		{"lw", &Instruction{Op: OpLW, Rd: 9, Rs1: 10, Imm: 4}},
		{"lbu", &Instruction{Op: OpLBU, Rd: 9, Rs1: 10, Imm: 0}},
		{"lhu", &Instruction{Op: OpLHU, Rd: 9, Rs1: 10, Imm: 0}},
		{"lwu", &Instruction{Op: OpLWU, Rd: 9, Rs1: 10, Imm: 0}},
		{"ld", &Instruction{Op: OpLD, Rd: 9, Rs1: 10, Imm: 8}},

		{"sb", &Instruction{Op: OpSB, Rs1: 1, Rs2: 2, Imm: u64(-1)}},
		{"sh", &Instruction{Op: OpSH, Rs1: 1, Rs2: 2, Imm: 2}},
		{"sw", &Instruction{Op: OpSW, Rs1: 1, Rs2: 2, Imm: 4}},
		{"sd", &Instruction{Op: OpSD, Rs1: 1, Rs2: 2, Imm: 8}},

		{"addi", &Instruction{Op: OpADDI, Rd: 1, Rs1: 2, Imm: u64(-1)}},
		{"slti", &Instruction{Op: OpSLTI, Rd: 1, Rs1: 2, Imm: 5}},
		{"sltiu", &Instruction{Op: OpSLTIU, Rd: 1, Rs1: 2, Imm: 5}},
		{"xori", &Instruction{Op: OpXORI, Rd: 1, Rs1: 2, Imm: 0xff}},
		{"ori", &Instruction{Op: OpORI, Rd: 1, Rs1: 2, Imm: 0xff}},
		{"andi", &Instruction{Op: OpANDI, Rd: 1, Rs1: 2, Imm: 0xff}},
		{"slli", &Instruction{Op: OpSLLI, Rd: 1, Rs1: 2, Shamt: 5, Imm: 5}},
		{"srli", &Instruction{Op: OpSRLI, Rd: 1, Rs1: 2, Shamt: 5, Imm: 5}},
		{"srai", &Instruction{Op: OpSRAI, Rd: 1, Rs1: 2, Shamt: 5, Imm: 5}},

		{"add", &Instruction{Op: OpADD, Rd: 1, Rs1: 2, Rs2: 3}},
		{"sub", &Instruction{Op: OpSUB, Rd: 1, Rs1: 2, Rs2: 3}},
		{"sll", &Instruction{Op: OpSLL, Rd: 1, Rs1: 2, Rs2: 3}},
		{"slt", &Instruction{Op: OpSLT, Rd: 1, Rs1: 2, Rs2: 3}},
		{"sltu", &Instruction{Op: OpSLTU, Rd: 1, Rs1: 2, Rs2: 3}},
		{"xor", &Instruction{Op: OpXOR, Rd: 1, Rs1: 2, Rs2: 3}},
		{"srl", &Instruction{Op: OpSRL, Rd: 1, Rs1: 2, Rs2: 3}},
		{"sra", &Instruction{Op: OpSRA, Rd: 1, Rs1: 2, Rs2: 3}},
		{"or", &Instruction{Op: OpOR, Rd: 1, Rs1: 2, Rs2: 3}},
		{"and", &Instruction{Op: OpAND, Rd: 1, Rs1: 2, Rs2: 3}},

		{"addiw", &Instruction{Op: OpADDIW, Rd: 1, Rs1: 2, Imm: u64(-1)}},
		{"slliw", &Instruction{Op: OpSLLIW, Rd: 1, Rs1: 2, Shamt: 5, Imm: 5}},
		{"srliw", &Instruction{Op: OpSRLIW, Rd: 1, Rs1: 2, Shamt: 5, Imm: 5}},
		{"sraiw", &Instruction{Op: OpSRAIW, Rd: 1, Rs1: 2, Shamt: 5, Imm: 5}},
		{"addw", &Instruction{Op: OpADDW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"subw", &Instruction{Op: OpSUBW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"sllw", &Instruction{Op: OpSLLW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"srlw", &Instruction{Op: OpSRLW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"sraw", &Instruction{Op: OpSRAW, Rd: 1, Rs1: 2, Rs2: 3}},

		{"fence", &Instruction{Op: OpFENCE, FM: 0, Pred: 0xf, Succ: 0x3}},
		{"fence.i", &Instruction{Op: OpFENCEI}},
		{"ecall", &Instruction{Op: OpECALL}},
		{"ebreak", &Instruction{Op: OpEBREAK}},

		{"csrrw", &Instruction{Op: OpCSRRW, Rd: 1, Rs1: 2, CSR: CSRCycle}},
		{"csrrs", &Instruction{Op: OpCSRRS, Rd: 1, Rs1: 2, CSR: CSRCycle}},
		{"csrrc", &Instruction{Op: OpCSRRC, Rd: 1, Rs1: 2, CSR: CSRCycle}},
		{"csrrwi", &Instruction{Op: OpCSRRWI, Rd: 1, Zimm: 0x1f, CSR: CSRCycle}},
		{"csrrsi", &Instruction{Op: OpCSRRSI, Rd: 1, Zimm: 0x1f, CSR: CSRCycle}},
		{"csrrci", &Instruction{Op: OpCSRRCI, Rd: 1, Zimm: 0x1f, CSR: CSRCycle}},

		{"mul", &Instruction{Op: OpMUL, Rd: 1, Rs1: 2, Rs2: 3}},
		{"mulh", &Instruction{Op: OpMULH, Rd: 1, Rs1: 2, Rs2: 3}},
		{"mulhsu", &Instruction{Op: OpMULHSU, Rd: 1, Rs1: 2, Rs2: 3}},
		{"mulhu", &Instruction{Op: OpMULHU, Rd: 1, Rs1: 2, Rs2: 3}},
		{"div", &Instruction{Op: OpDIV, Rd: 1, Rs1: 2, Rs2: 3}},
		{"divu", &Instruction{Op: OpDIVU, Rd: 1, Rs1: 2, Rs2: 3}},
		{"rem", &Instruction{Op: OpREM, Rd: 1, Rs1: 2, Rs2: 3}},
		{"remu", &Instruction{Op: OpREMU, Rd: 1, Rs1: 2, Rs2: 3}},
		{"mulw", &Instruction{Op: OpMULW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"divw", &Instruction{Op: OpDIVW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"divuw", &Instruction{Op: OpDIVUW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"remw", &Instruction{Op: OpREMW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"remuw", &Instruction{Op: OpREMUW, Rd: 1, Rs1: 2, Rs2: 3}},

		{"lr.w", &Instruction{Op: OpLRW, Rd: 1, Rs1: 2}},
		{"sc.w", &Instruction{Op: OpSCW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"amoswap.w", &Instruction{Op: OpAMOSWAPW, Rd: 1, Rs1: 2, Rs2: 3, Aq: true}},
		{"amoadd.w", &Instruction{Op: OpAMOADDW, Rd: 1, Rs1: 2, Rs2: 3, Rl: true}},
		{"amoxor.w", &Instruction{Op: OpAMOXORW, Rd: 1, Rs1: 2, Rs2: 3, Aq: true, Rl: true}},
		{"amoand.w", &Instruction{Op: OpAMOANDW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"amoor.w", &Instruction{Op: OpAMOORW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"amomin.w", &Instruction{Op: OpAMOMINW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"amomax.w", &Instruction{Op: OpAMOMAXW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"amominu.w", &Instruction{Op: OpAMOMINUW, Rd: 1, Rs1: 2, Rs2: 3}},
		{"amomaxu.w", &Instruction{Op: OpAMOMAXUW, Rd: 1, Rs1: 2, Rs2: 3}},

		{"lr.d", &Instruction{Op: OpLRD, Rd: 1, Rs1: 2}},
		{"sc.d", &Instruction{Op: OpSCD, Rd: 1, Rs1: 2, Rs2: 3}},
		{"amoswap.d", &Instruction{Op: OpAMOSWAPD, Rd: 1, Rs1: 2, Rs2: 3}},
		{"amoadd.d", &Instruction{Op: OpAMOADDD, Rd: 1, Rs1: 2, Rs2: 3}},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			word := Encode(tc.in)
			got, err := Decode(cfg, word)
			if err != nil {
				t.Fatalf("Decode(Encode(%+v)) = %#08x, error %v", tc.in, word, err)
			}
			got.Raw = 0 // Raw/Funct3/Funct7 are decode-only bookkeeping, not part of the logical tuple.
			got.Funct3 = 0
			got.Funct7 = 0
			want := *tc.in
			want.Raw = 0
			want.Funct3 = 0
			want.Funct7 = 0
			want.Size = 4 // every 32-bit word decodes with Size 4
			if !reflect.DeepEqual(*got, want) {
				t.Errorf("Decode(Encode(%+v)) = %+v, want %+v (word %#08x)", tc.in, got, &want, word)
			}
		})
	}
}

// TestIllegalWordsDecodeToIllegalInstruction spot-checks the
// decoding-is-total invariant for a handful of reserved encodings.
func TestIllegalWordsDecodeToIllegalInstruction(t *testing.T) {
	cfg := DefaultConfig()

	words := []uint32{
		0x00000007, // opcode 0b00111 (bop=0x01) is unassigned in this core
		0xffffffff, // opcode 0b11111 (bop=0x1f) is unassigned in this core
	}
	for _, w := range words {
		if _, err := Decode(cfg, w); err == nil {
			t.Errorf("Decode(%#08x) succeeded, want IllegalInstructionError", w)
		}
	}
}

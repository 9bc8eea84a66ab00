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

// Package isa decodes RISC-V instruction words into a tagged
// representation and carries out their semantics against a register
// file and a flat memory region. It knows nothing about hosts,
// syscalls, or program loading; pkg/hart builds the fetch/decode/execute
// loop on top of it.
package isa

import "fmt"

// Op tags a decoded instruction with the concrete RV32/64 variant it
// represents. The compressed (C) extension never needs its own Op
// values: rvc expands every compressed form to the equivalent base
// instruction at decode time (see compressed.go), so Exec only ever
// switches on the base set below.
type Op uint16

const (
	OpIllegal Op = iota

	OpLUI
	OpAUIPC
	OpJAL
	OpJALR

	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpLWU
	OpLD

	OpSB
	OpSH
	OpSW
	OpSD

	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI

	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND

	OpADDIW
	OpSLLIW
	OpSRLIW
	OpSRAIW
	OpADDW
	OpSUBW
	OpSLLW
	OpSRLW
	OpSRAW

	OpFENCE
	OpFENCEI

	OpECALL
	OpEBREAK

	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI

	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU
	OpMULW
	OpDIVW
	OpDIVUW
	OpREMW
	OpREMUW

	OpLRW
	OpSCW
	OpAMOSWAPW
	OpAMOADDW
	OpAMOXORW
	OpAMOANDW
	OpAMOORW
	OpAMOMINW
	OpAMOMAXW
	OpAMOMINUW
	OpAMOMAXUW

	OpLRD
	OpSCD
	OpAMOSWAPD
	OpAMOADDD
	OpAMOXORD
	OpAMOANDD
	OpAMOORD
	OpAMOMIND
	OpAMOMAXD
	OpAMOMINUD
	OpAMOMAXUD
)

var opNames = map[Op]string{
	OpIllegal: "illegal",
	OpLUI:     "lui", OpAUIPC: "auipc", OpJAL: "jal", OpJALR: "jalr",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge", OpBLTU: "bltu", OpBGEU: "bgeu",
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLBU: "lbu", OpLHU: "lhu", OpLWU: "lwu", OpLD: "ld",
	OpSB: "sb", OpSH: "sh", OpSW: "sw", OpSD: "sd",
	OpADDI: "addi", OpSLTI: "slti", OpSLTIU: "sltiu", OpXORI: "xori", OpORI: "ori", OpANDI: "andi",
	OpSLLI: "slli", OpSRLI: "srli", OpSRAI: "srai",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt", OpSLTU: "sltu",
	OpXOR: "xor", OpSRL: "srl", OpSRA: "sra", OpOR: "or", OpAND: "and",
	OpADDIW: "addiw", OpSLLIW: "slliw", OpSRLIW: "srliw", OpSRAIW: "sraiw",
	OpADDW: "addw", OpSUBW: "subw", OpSLLW: "sllw", OpSRLW: "srlw", OpSRAW: "sraw",
	OpFENCE: "fence", OpFENCEI: "fence.i",
	OpECALL: "ecall", OpEBREAK: "ebreak",
	OpCSRRW: "csrrw", OpCSRRS: "csrrs", OpCSRRC: "csrrc",
	OpCSRRWI: "csrrwi", OpCSRRSI: "csrrsi", OpCSRRCI: "csrrci",
	OpMUL: "mul", OpMULH: "mulh", OpMULHSU: "mulhsu", OpMULHU: "mulhu",
	OpDIV: "div", OpDIVU: "divu", OpREM: "rem", OpREMU: "remu",
	OpMULW: "mulw", OpDIVW: "divw", OpDIVUW: "divuw", OpREMW: "remw", OpREMUW: "remuw",
	OpLRW: "lr.w", OpSCW: "sc.w",
	OpAMOSWAPW: "amoswap.w", OpAMOADDW: "amoadd.w", OpAMOXORW: "amoxor.w", OpAMOANDW: "amoand.w",
	OpAMOORW: "amoor.w", OpAMOMINW: "amomin.w", OpAMOMAXW: "amomax.w",
	OpAMOMINUW: "amominu.w", OpAMOMAXUW: "amomaxu.w",
	OpLRD: "lr.d", OpSCD: "sc.d",
	OpAMOSWAPD: "amoswap.d", OpAMOADDD: "amoadd.d", OpAMOXORD: "amoxor.d", OpAMOANDD: "amoand.d",
	OpAMOORD: "amoor.d", OpAMOMIND: "amomin.d", OpAMOMAXD: "amomax.d",
	OpAMOMINUD: "amominu.d", OpAMOMAXUD: "amomaxu.d",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", op)
}

// Instruction is the tagged decoded form every legal RISC-V instruction
// is reduced to. Not every field is meaningful for every Op; which
// fields a variant uses is documented on the Op constant's mnemonic in
// the RISC-V unprivileged specification.
type Instruction struct {
	Op Op

	Rd, Rs1, Rs2 uint32
	Imm          uint64 // already sign-extended per the instruction's format
	Funct3       uint32
	Funct7       uint32
	Shamt        uint32
	CSR          uint32
	Zimm         uint64
	Pred, Succ   uint32
	FM           uint32
	Aq, Rl       bool

	Raw  uint32 // the encoded word (16 bits for compressed), for diagnostics
	Size uint8  // 2 for compressed, 4 otherwise
}

func (in *Instruction) String() string {
	return fmt.Sprintf("%s rd=x%d rs1=x%d rs2=x%d imm=%#x (%#08x)", in.Op, in.Rd, in.Rs1, in.Rs2, int64(in.Imm), in.Raw)
}

// IllegalInstructionError is returned by Decode/DecodeCompressed when a
// word doesn't match any enabled instruction encoding, carrying the raw
// bits for diagnostics.
type IllegalInstructionError struct {
	Word uint32
	Size uint8
}

func (e *IllegalInstructionError) Error() string {
	if e.Size == 2 {
		return fmt.Sprintf("illegal compressed instruction %#04x", uint16(e.Word))
	}
	return fmt.Sprintf("illegal instruction %#08x", e.Word)
}

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

import "github.com/lmmilewski/rvcore/internal/bits"

// baseOpcode is bits [6:2] of a 32-bit instruction word (bits 1:0 are
// always 0b11 for a 32-bit instruction and aren't part of the opcode).
//
// riscv-spec-v2.2; Table 19.1; Page 103
type baseOpcode uint32

const (
	boLoad    = baseOpcode(0x00) // i-type
	boMiscMem = baseOpcode(0x03) // i-type (FENCE, FENCE.I)
	boOpImm   = baseOpcode(0x04) // i-type
	boAUIPC   = baseOpcode(0x05) // u-type
	boOpImm32 = baseOpcode(0x06) // i-type (RV64 only)
	boStore   = baseOpcode(0x08) // s-type
	boAMO     = baseOpcode(0x0b) // r-type (A extension)
	boOp      = baseOpcode(0x0c) // r-type
	boLUI     = baseOpcode(0x0d) // u-type
	boOp32    = baseOpcode(0x0e) // r-type (RV64 only)
	boBranch  = baseOpcode(0x18) // b-type
	boJALR    = baseOpcode(0x19) // i-type
	boJAL     = baseOpcode(0x1b) // j-type
	boSystem  = baseOpcode(0x1c) // i-type (ECALL/EBREAK/CSR)
)

// IsCompressed reports whether the low two bits of the first half-word
// of an instruction stream indicate a 16-bit (compressed) instruction.
//
// riscv-spec-v2.2; Figure 1.1; Page 6
func IsCompressed(firstHalfWord uint16) bool {
	return firstHalfWord&0x3 != 0x3
}

// Decode decodes one 32-bit instruction word under cfg. word's low two
// bits must be 0b11 (the caller, pkg/hart, is responsible for routing
// 16-bit words to DecodeCompressed instead).
func Decode(cfg Config, word uint32) (*Instruction, error) {
	in := &Instruction{Raw: word, Size: 4}
	in.Rs1 = uint32(bits.Extract(uint64(word), 20, 15, 0))
	in.Rs2 = uint32(bits.Extract(uint64(word), 25, 20, 0))
	in.Rd = uint32(bits.Extract(uint64(word), 12, 7, 0))
	in.Funct3 = uint32(bits.Extract(uint64(word), 15, 12, 0))
	in.Funct7 = uint32(bits.Extract(uint64(word), 32, 25, 0))

	bop := baseOpcode(bits.Extract(uint64(word), 7, 2, 0))
	switch bop {
	case boLUI, boAUIPC:
		in.Imm = uImm(word)
		if bop == boLUI {
			in.Op = OpLUI
		} else {
			in.Op = OpAUIPC
		}
		return in, nil

	case boJAL:
		in.Imm = jImm(word)
		in.Op = OpJAL
		return in, nil

	case boJALR:
		if in.Funct3 != 0 {
			return nil, illegal(word)
		}
		in.Imm = iImm(word)
		in.Op = OpJALR
		return in, nil

	case boBranch:
		in.Imm = bImm(word)
		op, ok := branchOps[in.Funct3]
		if !ok {
			return nil, illegal(word)
		}
		in.Op = op
		return in, nil

	case boLoad:
		in.Imm = iImm(word)
		op, ok := loadOps[in.Funct3]
		if !ok || (in.Funct3 == 0b110 && cfg.XLen != 64) || (in.Funct3 == 0b011 && cfg.XLen != 64) {
			return nil, illegal(word)
		}
		in.Op = op
		return in, nil

	case boStore:
		in.Imm = sImm(word)
		op, ok := storeOps[in.Funct3]
		if !ok || (in.Funct3 == 0b011 && cfg.XLen != 64) {
			return nil, illegal(word)
		}
		in.Op = op
		return in, nil

	case boOpImm:
		return decodeOpImm(cfg, in, word, false)

	case boOpImm32:
		if cfg.XLen != 64 {
			return nil, illegal(word)
		}
		return decodeOpImm(cfg, in, word, true)

	case boOp:
		return decodeOp(cfg, in, word, false)

	case boOp32:
		if cfg.XLen != 64 {
			return nil, illegal(word)
		}
		return decodeOp(cfg, in, word, true)

	case boMiscMem:
		return decodeMiscMem(cfg, in, word)

	case boSystem:
		return decodeSystem(cfg, in, word)

	case boAMO:
		if !cfg.A {
			return nil, illegal(word)
		}
		return decodeAMO(cfg, in, word)

	default:
		return nil, illegal(word)
	}
}

func illegal(word uint32) error {
	return &IllegalInstructionError{Word: word, Size: 4}
}

var branchOps = map[uint32]Op{
	0b000: OpBEQ, 0b001: OpBNE, 0b100: OpBLT, 0b101: OpBGE, 0b110: OpBLTU, 0b111: OpBGEU,
}

var loadOps = map[uint32]Op{
	0b000: OpLB, 0b001: OpLH, 0b010: OpLW, 0b100: OpLBU, 0b101: OpLHU, 0b110: OpLWU, 0b011: OpLD,
}

var storeOps = map[uint32]Op{
	0b000: OpSB, 0b001: OpSH, 0b010: OpSW, 0b011: OpSD,
}

func decodeOpImm(cfg Config, in *Instruction, word uint32, w32 bool) (*Instruction, error) {
	in.Imm = iImm(word)
	switch in.Funct3 {
	case 0b000:
		in.Op = opOr(w32, OpADDI, OpADDIW)
		return in, nil
	case 0b010:
		if w32 {
			return nil, illegal(word)
		}
		in.Op = OpSLTI
		return in, nil
	case 0b011:
		if w32 {
			return nil, illegal(word)
		}
		in.Op = OpSLTIU
		return in, nil
	case 0b100:
		if w32 {
			return nil, illegal(word)
		}
		in.Op = OpXORI
		return in, nil
	case 0b110:
		if w32 {
			return nil, illegal(word)
		}
		in.Op = OpORI
		return in, nil
	case 0b111:
		if w32 {
			return nil, illegal(word)
		}
		in.Op = OpANDI
		return in, nil
	case 0b001, 0b101:
		return decodeShiftImm(cfg, in, word, w32)
	default:
		return nil, illegal(word)
	}
}

func opOr(w32 bool, base, word32 Op) Op {
	if w32 {
		return word32
	}
	return base
}

// decodeShiftImm validates the funct7-style upper bits that select
// SLLI/SRLI/SRAI (and the *W forms), and sizes shamt to the active
// XLEN: 5 bits for RV32 and the *W forms, 6 bits for full-width RV64
// shifts.
func decodeShiftImm(cfg Config, in *Instruction, word uint32, w32 bool) (*Instruction, error) {
	wide := cfg.XLen == 64 && !w32

	shamt := in.Rs2 // bits [24:20], the low 5 bits of shamt in every case
	var isZero, isArith bool
	if wide {
		// bit 25 joins shamt to make it 6 bits wide; the remaining 6
		// bits of funct7 are the discriminator.
		shamt |= (in.Funct7 & 1) << 5
		funct6 := in.Funct7 >> 1
		isZero = funct6 == 0
		isArith = funct6 == 0b010000
	} else {
		isZero = in.Funct7 == 0b0000000
		isArith = in.Funct7 == 0b0100000
	}
	in.Shamt = shamt
	in.Imm = uint64(shamt)

	switch in.Funct3 {
	case 0b001: // SLLI / SLLIW
		if !isZero {
			return nil, illegal(word)
		}
		in.Op = opOr(w32, OpSLLI, OpSLLIW)
		return in, nil
	case 0b101: // SRLI/SRAI or SRLIW/SRAIW
		switch {
		case isZero:
			in.Op = opOr(w32, OpSRLI, OpSRLIW)
			return in, nil
		case isArith:
			in.Op = opOr(w32, OpSRAI, OpSRAIW)
			return in, nil
		default:
			return nil, illegal(word)
		}
	}
	return nil, illegal(word)
}

func decodeOp(cfg Config, in *Instruction, word uint32, w32 bool) (*Instruction, error) {
	key := in.Funct7<<3 | in.Funct3
	if in.Funct7 == 0b0000001 {
		if !cfg.M {
			return nil, illegal(word)
		}
		op, ok := mOps(w32)[in.Funct3]
		if !ok {
			return nil, illegal(word)
		}
		in.Op = op
		return in, nil
	}
	op, ok := regOps(w32)[key]
	if !ok {
		return nil, illegal(word)
	}
	in.Op = op
	return in, nil
}

func regOps(w32 bool) map[uint32]Op {
	if w32 {
		return map[uint32]Op{
			0b0000000<<3 | 0b000: OpADDW,
			0b0100000<<3 | 0b000: OpSUBW,
			0b0000000<<3 | 0b001: OpSLLW,
			0b0000000<<3 | 0b101: OpSRLW,
			0b0100000<<3 | 0b101: OpSRAW,
		}
	}
	return map[uint32]Op{
		0b0000000<<3 | 0b000: OpADD,
		0b0100000<<3 | 0b000: OpSUB,
		0b0000000<<3 | 0b001: OpSLL,
		0b0000000<<3 | 0b010: OpSLT,
		0b0000000<<3 | 0b011: OpSLTU,
		0b0000000<<3 | 0b100: OpXOR,
		0b0000000<<3 | 0b101: OpSRL,
		0b0100000<<3 | 0b101: OpSRA,
		0b0000000<<3 | 0b110: OpOR,
		0b0000000<<3 | 0b111: OpAND,
	}
}

func mOps(w32 bool) map[uint32]Op {
	if w32 {
		return map[uint32]Op{
			0b000: OpMULW, 0b100: OpDIVW, 0b101: OpDIVUW, 0b110: OpREMW, 0b111: OpREMUW,
		}
	}
	return map[uint32]Op{
		0b000: OpMUL, 0b001: OpMULH, 0b010: OpMULHSU, 0b011: OpMULHU,
		0b100: OpDIV, 0b101: OpDIVU, 0b110: OpREM, 0b111: OpREMU,
	}
}

func decodeMiscMem(cfg Config, in *Instruction, word uint32) (*Instruction, error) {
	switch in.Funct3 {
	case 0b000: // FENCE
		if in.Rd != 0 || in.Rs1 != 0 {
			return nil, illegal(word)
		}
		in.FM = uint32(bits.Extract(uint64(word), 32, 28, 0))
		in.Pred = uint32(bits.Extract(uint64(word), 28, 24, 0))
		in.Succ = uint32(bits.Extract(uint64(word), 24, 20, 0))
		in.Op = OpFENCE
		return in, nil
	case 0b001: // FENCE.I
		if !cfg.Zifencei {
			return nil, illegal(word)
		}
		if in.Rd != 0 || in.Rs1 != 0 || bits.Extract(uint64(word), 32, 20, 0) != 0 {
			return nil, illegal(word)
		}
		in.Op = OpFENCEI
		return in, nil
	default:
		return nil, illegal(word)
	}
}

func decodeSystem(cfg Config, in *Instruction, word uint32) (*Instruction, error) {
	switch in.Funct3 {
	case 0b000:
		funct12 := bits.Extract(uint64(word), 32, 20, 0)
		if in.Rd != 0 || in.Rs1 != 0 {
			return nil, illegal(word)
		}
		switch funct12 {
		case 0b000000000000:
			in.Op = OpECALL
			return in, nil
		case 0b000000000001:
			in.Op = OpEBREAK
			return in, nil
		default:
			return nil, illegal(word)
		}
	case 0b001, 0b010, 0b011, 0b101, 0b110, 0b111:
		if !cfg.Zicsr {
			return nil, illegal(word)
		}
		in.CSR = uint32(bits.Extract(uint64(word), 32, 20, 0))
		if !knownCSR(in.CSR) {
			return nil, illegal(word)
		}
		switch in.Funct3 {
		case 0b001:
			in.Op = OpCSRRW
		case 0b010:
			in.Op = OpCSRRS
		case 0b011:
			in.Op = OpCSRRC
		case 0b101:
			in.Op = OpCSRRWI
			in.Zimm = uint64(in.Rs1)
		case 0b110:
			in.Op = OpCSRRSI
			in.Zimm = uint64(in.Rs1)
		case 0b111:
			in.Op = OpCSRRCI
			in.Zimm = uint64(in.Rs1)
		}
		return in, nil
	default:
		return nil, illegal(word)
	}
}

func knownCSR(csr uint32) bool {
	switch csr {
	case CSRCycle, CSRTime, CSRInstret, CSRCycleH, CSRTimeH, CSRInstretH:
		return true
	default:
		return false
	}
}

func decodeAMO(cfg Config, in *Instruction, word uint32) (*Instruction, error) {
	funct5 := bits.Extract(uint64(word), 32, 27, 0)
	in.Aq = bits.Extract(uint64(word), 27, 26, 0) != 0
	in.Rl = bits.Extract(uint64(word), 26, 25, 0) != 0

	var table map[uint64]Op
	switch in.Funct3 {
	case 0b010: // .W
		table = amoOpsW
	case 0b011: // .D
		if cfg.XLen != 64 {
			return nil, illegal(word)
		}
		table = amoOpsD
	default:
		return nil, illegal(word)
	}
	op, ok := table[funct5]
	if !ok {
		return nil, illegal(word)
	}
	if (op == OpLRW || op == OpLRD) && in.Rs2 != 0 {
		return nil, illegal(word)
	}
	in.Op = op
	return in, nil
}

var amoOpsW = map[uint64]Op{
	0b00010: OpLRW, 0b00011: OpSCW, 0b00001: OpAMOSWAPW, 0b00000: OpAMOADDW,
	0b00100: OpAMOXORW, 0b01100: OpAMOANDW, 0b01000: OpAMOORW,
	0b10000: OpAMOMINW, 0b10100: OpAMOMAXW, 0b11000: OpAMOMINUW, 0b11100: OpAMOMAXUW,
}

var amoOpsD = map[uint64]Op{
	0b00010: OpLRD, 0b00011: OpSCD, 0b00001: OpAMOSWAPD, 0b00000: OpAMOADDD,
	0b00100: OpAMOXORD, 0b01100: OpAMOANDD, 0b01000: OpAMOORD,
	0b10000: OpAMOMIND, 0b10100: OpAMOMAXD, 0b11000: OpAMOMINUD, 0b11100: OpAMOMAXUD,
}

// Immediate assembly, per the RISC-V base instruction formats.

func iImm(word uint32) uint64 {
	v := bits.Extract(uint64(word), 32, 20, 0)
	return bits.SignExtend(v, 11)
}

func sImm(word uint32) uint64 {
	v := bits.Extract(uint64(word), 32, 25, 5) | bits.Extract(uint64(word), 12, 7, 0)
	return bits.SignExtend(v, 11)
}

func bImm(word uint32) uint64 {
	v := bits.Extract(uint64(word), 32, 31, 12) |
		bits.Extract(uint64(word), 8, 7, 11) |
		bits.Extract(uint64(word), 31, 25, 5) |
		bits.Extract(uint64(word), 12, 8, 1)
	return bits.SignExtend(v, 12)
}

func uImm(word uint32) uint64 {
	v := bits.Extract(uint64(word), 32, 12, 12)
	return bits.SignExtend(v, 31)
}

func jImm(word uint32) uint64 {
	v := bits.Extract(uint64(word), 32, 31, 20) |
		bits.Extract(uint64(word), 20, 12, 12) |
		bits.Extract(uint64(word), 21, 20, 11) |
		bits.Extract(uint64(word), 31, 21, 1)
	return bits.SignExtend(v, 20)
}

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

// Encode assembles a 32-bit instruction word from in's fields. It's the
// inverse of Decode: encoding a canonical (Op, fields) tuple and
// decoding the result must recover the same tuple. Encode does not
// validate in; it trusts the caller to have built a well-formed
// Instruction (e.g. one Decode just produced).
func Encode(in *Instruction) uint32 {
	switch in.Op {
	case OpLUI:
		return rType(0b0110111, 0, 0) | uImmBits(in.Imm) | rdBits(in.Rd)
	case OpAUIPC:
		return rType(0b0010111, 0, 0) | uImmBits(in.Imm) | rdBits(in.Rd)
	case OpJAL:
		return rType(0b1101111, 0, 0) | jImmBits(in.Imm) | rdBits(in.Rd)
	case OpJALR:
		return iType(0b1100111, 0, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)

	case OpBEQ:
		return bType(0b1100011, 0b000, in.Rs1, in.Rs2, in.Imm)
	case OpBNE:
		return bType(0b1100011, 0b001, in.Rs1, in.Rs2, in.Imm)
	case OpBLT:
		return bType(0b1100011, 0b100, in.Rs1, in.Rs2, in.Imm)
	case OpBGE:
		return bType(0b1100011, 0b101, in.Rs1, in.Rs2, in.Imm)
	case OpBLTU:
		return bType(0b1100011, 0b110, in.Rs1, in.Rs2, in.Imm)
	case OpBGEU:
		return bType(0b1100011, 0b111, in.Rs1, in.Rs2, in.Imm)

	case OpLB:
		return iType(0b0000011, 0b000, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpLH:
		return iType(0b0000011, 0b001, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpLW:
		return iType(0b0000011, 0b010, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpLBU:
		return iType(0b0000011, 0b100, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpLHU:
		return iType(0b0000011, 0b101, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpLWU:
		return iType(0b0000011, 0b110, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpLD:
		return iType(0b0000011, 0b011, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)

	case OpSB:
		return sType(0b0100011, 0b000, in.Rs1, in.Rs2, in.Imm)
	case OpSH:
		return sType(0b0100011, 0b001, in.Rs1, in.Rs2, in.Imm)
	case OpSW:
		return sType(0b0100011, 0b010, in.Rs1, in.Rs2, in.Imm)
	case OpSD:
		return sType(0b0100011, 0b011, in.Rs1, in.Rs2, in.Imm)

	case OpADDI:
		return iType(0b0010011, 0b000, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpSLTI:
		return iType(0b0010011, 0b010, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpSLTIU:
		return iType(0b0010011, 0b011, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpXORI:
		return iType(0b0010011, 0b100, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpORI:
		return iType(0b0010011, 0b110, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpANDI:
		return iType(0b0010011, 0b111, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpSLLI:
		return shiftType(0b0010011, 0b001, 0b0000000, in.Shamt) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpSRLI:
		return shiftType(0b0010011, 0b101, 0b0000000, in.Shamt) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpSRAI:
		return shiftType(0b0010011, 0b101, 0b0100000, in.Shamt) | rdBits(in.Rd) | rs1Bits(in.Rs1)

	case OpADD:
		return rType(0b0110011, 0b000, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSUB:
		return rType(0b0110011, 0b000, 0b0100000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSLL:
		return rType(0b0110011, 0b001, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSLT:
		return rType(0b0110011, 0b010, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSLTU:
		return rType(0b0110011, 0b011, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpXOR:
		return rType(0b0110011, 0b100, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSRL:
		return rType(0b0110011, 0b101, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSRA:
		return rType(0b0110011, 0b101, 0b0100000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpOR:
		return rType(0b0110011, 0b110, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpAND:
		return rType(0b0110011, 0b111, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)

	case OpADDIW:
		return iType(0b0011011, 0b000, in.Imm) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpSLLIW:
		return shiftType(0b0011011, 0b001, 0b0000000, in.Shamt) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpSRLIW:
		return shiftType(0b0011011, 0b101, 0b0000000, in.Shamt) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpSRAIW:
		return shiftType(0b0011011, 0b101, 0b0100000, in.Shamt) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpADDW:
		return rType(0b0111011, 0b000, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSUBW:
		return rType(0b0111011, 0b000, 0b0100000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSLLW:
		return rType(0b0111011, 0b001, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSRLW:
		return rType(0b0111011, 0b101, 0b0000000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpSRAW:
		return rType(0b0111011, 0b101, 0b0100000) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)

	case OpFENCE:
		return 0b0001111 | in.FM<<28 | in.Pred<<24 | in.Succ<<20
	case OpFENCEI:
		return 0b0001111 | 0b001<<12
	case OpECALL:
		return 0b1110011
	case OpEBREAK:
		return 0b1110011 | 1<<20

	case OpCSRRW:
		return iType(0b1110011, 0b001, uint64(in.CSR)) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpCSRRS:
		return iType(0b1110011, 0b010, uint64(in.CSR)) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpCSRRC:
		return iType(0b1110011, 0b011, uint64(in.CSR)) | rdBits(in.Rd) | rs1Bits(in.Rs1)
	case OpCSRRWI:
		return iType(0b1110011, 0b101, uint64(in.CSR)) | rdBits(in.Rd) | uint32(in.Zimm)<<15
	case OpCSRRSI:
		return iType(0b1110011, 0b110, uint64(in.CSR)) | rdBits(in.Rd) | uint32(in.Zimm)<<15
	case OpCSRRCI:
		return iType(0b1110011, 0b111, uint64(in.CSR)) | rdBits(in.Rd) | uint32(in.Zimm)<<15

	case OpMUL:
		return rType(0b0110011, 0b000, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpMULH:
		return rType(0b0110011, 0b001, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpMULHSU:
		return rType(0b0110011, 0b010, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpMULHU:
		return rType(0b0110011, 0b011, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpDIV:
		return rType(0b0110011, 0b100, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpDIVU:
		return rType(0b0110011, 0b101, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpREM:
		return rType(0b0110011, 0b110, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpREMU:
		return rType(0b0110011, 0b111, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpMULW:
		return rType(0b0111011, 0b000, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpDIVW:
		return rType(0b0111011, 0b100, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpDIVUW:
		return rType(0b0111011, 0b101, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpREMW:
		return rType(0b0111011, 0b110, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)
	case OpREMUW:
		return rType(0b0111011, 0b111, 0b0000001) | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2)

	case OpLRW, OpSCW, OpAMOSWAPW, OpAMOADDW, OpAMOXORW, OpAMOANDW, OpAMOORW, OpAMOMINW, OpAMOMAXW, OpAMOMINUW, OpAMOMAXUW,
		OpLRD, OpSCD, OpAMOSWAPD, OpAMOADDD, OpAMOXORD, OpAMOANDD, OpAMOORD, OpAMOMIND, OpAMOMAXD, OpAMOMINUD, OpAMOMAXUD:
		return amoEncode(in)
	}
	return 0
}

func rType(opcode, funct3, funct7 uint32) uint32 {
	return opcode | funct3<<12 | funct7<<25
}

func iType(opcode, funct3 uint32, imm uint64) uint32 {
	return opcode | funct3<<12 | uint32(imm&0xfff)<<20
}

func shiftType(opcode, funct3, funct7, shamt uint32) uint32 {
	return opcode | funct3<<12 | shamt<<20 | funct7<<25
}

func sType(opcode, funct3, rs1, rs2 uint32, imm uint64) uint32 {
	v := uint32(imm)
	return opcode | funct3<<12 | (v&0x1f)<<7 | rs1<<15 | rs2<<20 | (v>>5&0x7f)<<25
}

func bType(opcode, funct3, rs1, rs2 uint32, imm uint64) uint32 {
	v := uint32(imm)
	return opcode | funct3<<12 | rs1<<15 | rs2<<20 |
		(v>>11&0x1)<<7 | (v>>1&0xf)<<8 | (v>>5&0x3f)<<25 | (v>>12&0x1)<<31
}

func uImmBits(imm uint64) uint32 {
	return uint32(imm) & 0xfffff000
}

func jImmBits(imm uint64) uint32 {
	v := uint32(imm)
	return (v>>12&0xff)<<12 | (v>>11&0x1)<<20 | (v>>1&0x3ff)<<21 | (v>>20&0x1)<<31
}

func rdBits(rd uint32) uint32  { return rd << 7 }
func rs1Bits(rs uint32) uint32 { return rs << 15 }
func rs2Bits(rs uint32) uint32 { return rs << 20 }

func amoEncode(in *Instruction) uint32 {
	funct5, funct3 := amoFields(in.Op)
	aq, rl := uint32(0), uint32(0)
	if in.Aq {
		aq = 1
	}
	if in.Rl {
		rl = 1
	}
	return 0b0101111 | funct3<<12 | rdBits(in.Rd) | rs1Bits(in.Rs1) | rs2Bits(in.Rs2) |
		aq<<26 | rl<<25 | funct5<<27
}

func amoFields(op Op) (funct5, funct3 uint32) {
	for f5, o := range amoOpsW {
		if o == op {
			return uint32(f5), 0b010
		}
	}
	for f5, o := range amoOpsD {
		if o == op {
			return uint32(f5), 0b011
		}
	}
	return 0, 0
}

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

import "fmt"

// Disassemble renders in as RISC-V assembly text, in the operand order
// objdump uses (destination first). pc is only used to print the
// absolute target of pc-relative control transfers as a comment.
func Disassemble(in *Instruction, pc uint64) string {
	rd, rs1, rs2 := regName(in.Rd), regName(in.Rs1), regName(in.Rs2)

	switch in.Op {
	case OpLUI, OpAUIPC:
		return fmt.Sprintf("%s %s, %#x", in.Op, rd, in.Imm>>12)
	case OpJAL:
		return fmt.Sprintf("%s %s, %#x # -> %#x", in.Op, rd, in.Imm, pc+in.Imm)
	case OpJALR:
		return fmt.Sprintf("%s %s, %d(%s)", in.Op, rd, int64(in.Imm), rs1)

	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return fmt.Sprintf("%s %s, %s, %#x # -> %#x", in.Op, rs1, rs2, in.Imm, pc+in.Imm)

	case OpLB, OpLH, OpLW, OpLBU, OpLHU, OpLWU, OpLD:
		return fmt.Sprintf("%s %s, %d(%s)", in.Op, rd, int64(in.Imm), rs1)
	case OpSB, OpSH, OpSW, OpSD:
		return fmt.Sprintf("%s %s, %d(%s)", in.Op, rs2, int64(in.Imm), rs1)

	case OpADDI, OpSLTI, OpSLTIU, OpXORI, OpORI, OpANDI, OpADDIW:
		return fmt.Sprintf("%s %s, %s, %d", in.Op, rd, rs1, int64(in.Imm))
	case OpSLLI, OpSRLI, OpSRAI, OpSLLIW, OpSRLIW, OpSRAIW:
		return fmt.Sprintf("%s %s, %s, %d", in.Op, rd, rs1, in.Shamt)

	case OpADD, OpSUB, OpSLL, OpSLT, OpSLTU, OpXOR, OpSRL, OpSRA, OpOR, OpAND,
		OpADDW, OpSUBW, OpSLLW, OpSRLW, OpSRAW,
		OpMUL, OpMULH, OpMULHSU, OpMULHU, OpDIV, OpDIVU, OpREM, OpREMU,
		OpMULW, OpDIVW, OpDIVUW, OpREMW, OpREMUW:
		return fmt.Sprintf("%s %s, %s, %s", in.Op, rd, rs1, rs2)

	case OpFENCE:
		return fmt.Sprintf("fence %s, %s", fenceFlags(in.Pred), fenceFlags(in.Succ))
	case OpFENCEI:
		return "fence.i"
	case OpECALL:
		return "ecall"
	case OpEBREAK:
		return "ebreak"

	case OpCSRRW, OpCSRRS, OpCSRRC:
		return fmt.Sprintf("%s %s, %#x, %s", in.Op, rd, in.CSR, rs1)
	case OpCSRRWI, OpCSRRSI, OpCSRRCI:
		return fmt.Sprintf("%s %s, %#x, %d", in.Op, rd, in.CSR, in.Zimm)

	case OpLRW, OpLRD:
		return fmt.Sprintf("%s %s, (%s)%s", in.Op, rd, rs1, amoSuffix(in))
	case OpSCW, OpSCD,
		OpAMOSWAPW, OpAMOADDW, OpAMOXORW, OpAMOANDW, OpAMOORW, OpAMOMINW, OpAMOMAXW, OpAMOMINUW, OpAMOMAXUW,
		OpAMOSWAPD, OpAMOADDD, OpAMOXORD, OpAMOANDD, OpAMOORD, OpAMOMIND, OpAMOMAXD, OpAMOMINUD, OpAMOMAXUD:
		return fmt.Sprintf("%s %s, %s, (%s)%s", in.Op, rd, rs2, rs1, amoSuffix(in))
	}

	return fmt.Sprintf("illegal %#x", in.Raw)
}

func amoSuffix(in *Instruction) string {
	switch {
	case in.Aq && in.Rl:
		return ".aqrl"
	case in.Aq:
		return ".aq"
	case in.Rl:
		return ".rl"
	}
	return ""
}

func fenceFlags(bits uint32) string {
	s := ""
	if bits&0x8 != 0 {
		s += "i"
	}
	if bits&0x4 != 0 {
		s += "o"
	}
	if bits&0x2 != 0 {
		s += "r"
	}
	if bits&0x1 != 0 {
		s += "w"
	}
	if s == "" {
		return "0"
	}
	return s
}

func regName(i uint32) string {
	if int(i) < len(RegNames) {
		return RegNames[i]
	}
	return fmt.Sprintf("x%d", i)
}

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

// DecodeCompressed decodes a 16-bit compressed (C extension) word into
// its equivalent base Instruction: every C.* form expands to a regular
// Op rather than getting its own tag, so Exec never needs to know the
// instruction stream was compressed. The only trace left behind is
// Size==2, which JAL/JALR's link-register computation (pc+Size) relies
// on.
//
// riscv-spec-v2.2.pdf; Table 12.5; Pages 82-83
func DecodeCompressed(cfg Config, word uint16) (*Instruction, error) {
	if !cfg.C {
		return nil, illegalC(word)
	}
	if word == 0 {
		// all-zero is never a valid instruction (quadrant 0, funct3 0,
		// nzuimm=0 for C.ADDI4SPN is explicitly reserved)
		return nil, illegalC(word)
	}

	in := &Instruction{Raw: uint32(word), Size: 2}

	switch word>>11&0x1c | word&0x3 {
	case 0x00: // C.ADDI4SPN
		imm, rd := decodeCIW(word)
		imm = imm&0xc0>>2 | imm&0x3c<<4 | imm&0x2<<1 | imm&0x1<<3
		if imm == 0 {
			return nil, illegalC(word) // reserved: nzuimm must be nonzero
		}
		in.Op, in.Rd, in.Rs1, in.Imm = OpADDI, rd, SP, imm
		return in, nil

	case 0x04, 0x14, 0x06, 0x16: // C.FLD/C.LQ, C.FSD/C.SQ, C.FLDSP/C.LQSP, C.FSDSP/C.SQSP
		return nil, illegalC(word) // the F/D/Q extensions are not supported

	case 0x08: // C.LW
		imm, rs1, rd := decodeCL(word)
		imm = (imm<<5 | imm) & 0x3e << 1
		in.Op, in.Rd, in.Rs1, in.Imm = OpLW, rd, rs1, imm
		return in, nil

	case 0x0C: // C.LD (RV64)
		if cfg.XLen != 64 {
			return nil, illegalC(word)
		}
		imm, rs1, rd := decodeCL(word)
		imm = (imm<<6 | imm<<1) & 0xf8
		in.Op, in.Rd, in.Rs1, in.Imm = OpLD, rd, rs1, imm
		return in, nil

	case 0x10: // reserved
		return nil, illegalC(word)

	case 0x18: // C.SW
		imm, rs1, rs2 := decodeCS(word)
		imm = (imm<<5 | imm) << 1 & 0x7c
		in.Op, in.Rs1, in.Rs2, in.Imm = OpSW, rs1, rs2, imm
		return in, nil

	case 0x1C: // C.SD (RV64)
		if cfg.XLen != 64 {
			return nil, illegalC(word)
		}
		imm, rs1, rs2 := decodeCS(word)
		imm = (imm<<5 | imm) << 1 & 0xf8
		in.Op, in.Rs1, in.Rs2, in.Imm = OpSD, rs1, rs2, imm
		return in, nil

	case 0x01: // C.NOP / C.ADDI (HINT when rd=0)
		imm, rd := decodeCI(word)
		imm = bitsSignExtend5(imm)
		in.Op, in.Rd, in.Rs1, in.Imm = OpADDI, rd, rd, imm
		return in, nil

	case 0x05: // C.ADDIW (RV64; RES when rd=0)
		if cfg.XLen != 64 {
			return nil, illegalC(word)
		}
		imm, rd := decodeCI(word)
		if rd == 0 {
			return nil, illegalC(word)
		}
		in.Op, in.Rd, in.Rs1, in.Imm = OpADDIW, rd, rd, bitsSignExtend5(imm)
		return in, nil

	case 0x09: // C.LI (HINT when rd=0, still well-formed)
		imm, rd := decodeCI(word)
		in.Op, in.Rd, in.Rs1, in.Imm = OpADDI, rd, Zero, bitsSignExtend5(imm)
		return in, nil

	case 0x0D: // C.ADDI16SP / C.LUI
		imm, rd := decodeCI(word)
		if imm == 0 {
			return nil, illegalC(word) // RES: nzimm must be nonzero
		}
		if rd != SP {
			in.Op, in.Rd, in.Imm = OpLUI, rd, bitsSignExtend(imm<<12, 17)
			return in, nil
		}
		imm = bitsSignExtend(imm&0x20<<4|imm&0x10|imm&0x8<<3|imm&0x6<<6|imm&0x1<<5, 9)
		in.Op, in.Rd, in.Rs1, in.Imm = OpADDI, SP, SP, imm
		return in, nil

	case 0x11:
		switch word >> 10 & 0x3 {
		case 0x00: // C.SRLI
			imm, r := decodeShiftCB(word)
			if err := checkShamt(cfg, imm, word); err != nil {
				return nil, err
			}
			in.Op, in.Rd, in.Rs1, in.Shamt, in.Imm = OpSRLI, r, r, uint32(imm), imm
			return in, nil
		case 0x01: // C.SRAI
			imm, r := decodeShiftCB(word)
			if err := checkShamt(cfg, imm, word); err != nil {
				return nil, err
			}
			in.Op, in.Rd, in.Rs1, in.Shamt, in.Imm = OpSRAI, r, r, uint32(imm), imm
			return in, nil
		case 0x02: // C.ANDI
			imm, r := decodeShiftCB(word)
			in.Op, in.Rd, in.Rs1, in.Imm = OpANDI, r, r, bitsSignExtend(imm, 5)
			return in, nil
		}
		_, r1, r2 := decodeCS(word)
		switch word>>8&0x1c | word>>5&0x3 {
		case 0xc:
			in.Op, in.Rd, in.Rs1, in.Rs2 = OpSUB, r1, r1, r2
		case 0xd:
			in.Op, in.Rd, in.Rs1, in.Rs2 = OpXOR, r1, r1, r2
		case 0xe:
			in.Op, in.Rd, in.Rs1, in.Rs2 = OpOR, r1, r1, r2
		case 0xf:
			in.Op, in.Rd, in.Rs1, in.Rs2 = OpAND, r1, r1, r2
		case 0x1c:
			if cfg.XLen != 64 {
				return nil, illegalC(word)
			}
			in.Op, in.Rd, in.Rs1, in.Rs2 = OpSUBW, r1, r1, r2
		case 0x1d:
			if cfg.XLen != 64 {
				return nil, illegalC(word)
			}
			in.Op, in.Rd, in.Rs1, in.Rs2 = OpADDW, r1, r1, r2
		default: // reserved
			return nil, illegalC(word)
		}
		return in, nil

	case 0x15: // C.J
		imm := decodeCJ(word)
		imm = bitsSignExtend(imm&0x200>>5|imm&0x40<<4|imm&0x5a0<<1|imm&0x10<<3|imm&0xe|imm&1<<5, 11)
		in.Op, in.Rd, in.Imm = OpJAL, Zero, imm
		return in, nil

	case 0x19: // C.BEQZ
		imm, r := decodeCB(word)
		imm = imm&0x80<<1 | imm&0x60>>2 | imm&0x18<<3 | imm&0x6 | imm&0x1<<5
		in.Op, in.Rs1, in.Rs2, in.Imm = OpBEQ, r, Zero, bitsSignExtend(imm, 8)
		return in, nil

	case 0x1D: // C.BNEZ
		imm, r := decodeCB(word)
		imm = imm&0x80<<1 | imm&0x60>>2 | imm&0x18<<3 | imm&0x6 | imm&0x1<<5
		in.Op, in.Rs1, in.Rs2, in.Imm = OpBNE, r, Zero, bitsSignExtend(imm, 8)
		return in, nil

	case 0x02: // C.SLLI (HINT when rd=0)
		imm, r := decodeCI(word)
		if err := checkShamt(cfg, imm, word); err != nil {
			return nil, err
		}
		in.Op, in.Rd, in.Rs1, in.Shamt, in.Imm = OpSLLI, r, r, uint32(imm), imm
		return in, nil

	case 0x0A: // C.LWSP (RES when rd=0)
		imm, rd := decodeCI(word)
		if rd == 0 {
			return nil, illegalC(word)
		}
		imm = (imm<<6 | imm) & 0xfc
		in.Op, in.Rd, in.Rs1, in.Imm = OpLW, rd, SP, imm
		return in, nil

	case 0x0E: // C.LDSP (RV64; RES when rd=0)
		if cfg.XLen != 64 {
			return nil, illegalC(word)
		}
		imm, rd := decodeCI(word)
		if rd == 0 {
			return nil, illegalC(word)
		}
		imm = (imm<<6 | imm) & 0x1f8
		in.Op, in.Rd, in.Rs1, in.Imm = OpLD, rd, SP, imm
		return in, nil

	case 0x12:
		r1, r2 := decodeCR(word)
		b := word & 0x1000
		switch {
		case b == 0 && r2 == 0: // C.JR (RES when rs1=0)
			if r1 == 0 {
				return nil, illegalC(word)
			}
			in.Op, in.Rd, in.Rs1 = OpJALR, Zero, r1
			return in, nil
		case b == 0: // C.MV
			in.Op, in.Rd, in.Rs1, in.Rs2 = OpADD, r1, Zero, r2
			return in, nil
		case b == 0x1000 && r1 == 0 && r2 == 0: // C.EBREAK
			in.Op = OpEBREAK
			return in, nil
		case b == 0x1000 && r2 == 0: // C.JALR
			in.Op, in.Rd, in.Rs1 = OpJALR, RA, r1
			return in, nil
		default: // C.ADD
			in.Op, in.Rd, in.Rs1, in.Rs2 = OpADD, r1, r1, r2
			return in, nil
		}

	case 0x1A: // C.SWSP
		imm, r := decodeCSS(word)
		imm = (imm<<6 | imm) & 0xfc
		in.Op, in.Rs1, in.Rs2, in.Imm = OpSW, SP, r, imm
		return in, nil

	case 0x1E: // C.SDSP (RV64)
		if cfg.XLen != 64 {
			return nil, illegalC(word)
		}
		imm, r := decodeCSS(word)
		imm = (imm<<6 | imm) & 0x1f8
		in.Op, in.Rs1, in.Rs2, in.Imm = OpSD, SP, r, imm
		return in, nil
	}

	return nil, illegalC(word)
}

// checkShamt rejects the RV32 NSE (not a standard encoding) case where
// nzuimm[5] is set but XLEN=32.
func checkShamt(cfg Config, shamt uint64, word uint16) error {
	if cfg.XLen != 64 && shamt&0x20 != 0 {
		return illegalC(word)
	}
	return nil
}

func illegalC(word uint16) error {
	return &IllegalInstructionError{Word: uint32(word), Size: 2}
}

func bitsSignExtend5(v uint64) uint64 { return bitsSignExtend(v, 5) }

// bitsSignExtend sign-extends v through bit 63, treating bit as the
// sign bit (0-indexed), matching internal/bits.SignExtend without
// importing it twice for a single caller's convenience wrapper.
func bitsSignExtend(v uint64, bit uint) uint64 {
	shift := 63 - bit
	return uint64(int64(v<<shift) >> shift)
}

func decodeCR(in uint16) (r1, r2 uint32) {
	return uint32(in >> 7 & 0x1f), uint32(in >> 2 & 0x1f)
}

func decodeCI(in uint16) (imm uint64, r uint32) {
	return uint64(in>>7&0x20 | in>>2&0x1f), uint32(in >> 7 & 0x1f)
}

func decodeCSS(in uint16) (imm uint64, r uint32) {
	return uint64(in >> 7 & 0x3f), uint32(in >> 2 & 0x1f)
}

// rvcRegOffset maps a compressed instruction's 3-bit register number
// (always x8-x15) onto the full 5-bit register space.
const rvcRegOffset = 8

func decodeCIW(in uint16) (imm uint64, r uint32) {
	return uint64(in >> 5 & 0xff), uint32(in>>2&0x7) + rvcRegOffset
}

func decodeCL(in uint16) (imm uint64, r1, r2 uint32) {
	return uint64(in>>8&0x1c | in>>5&0x3), uint32(in>>7&0x7) + rvcRegOffset, uint32(in>>2&0x7) + rvcRegOffset
}

func decodeCS(in uint16) (imm uint64, r1, r2 uint32) {
	return uint64(in>>8&0x1c | in>>5&0x3), uint32(in>>7&0x7) + rvcRegOffset, uint32(in>>2&0x7) + rvcRegOffset
}

func decodeCB(in uint16) (imm uint64, r uint32) {
	return uint64(in>>5&0xe0 | in>>2&0x1f), uint32(in>>7&0x7) + rvcRegOffset
}

// decodeShiftCB decodes the CB format specialized for shift-immediate
// and ANDI, which borrow bit 12 as shamt[5]/imm[5].
func decodeShiftCB(in uint16) (imm uint64, r uint32) {
	return uint64(in&0x1000>>7 | in>>2&0x1f), uint32(in>>7&0x7) + rvcRegOffset
}

func decodeCJ(in uint16) uint64 {
	return uint64(in >> 2 & 0x7ff)
}

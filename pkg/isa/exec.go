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
	stdbits "math/bits"

	"github.com/lmmilewski/rvcore/pkg/xlen"
)

// ExecResult reports side effects Exec already applied beyond the
// register write named by the instruction. Hart uses PCUpdated to
// decide whether it still needs to advance pc by in.Size: a single
// per-instruction flag covering every Op, instead of threading it
// through a function-pointer table.
type ExecResult struct {
	PCUpdated bool
}

// Exec carries out in against reg and mem under cfg, parameterized by
// the active XLEN via x. It never touches anything outside reg/mem: no
// syscalls, no I/O. ECALL, EBREAK, and any out-of-bounds memory access
// are reported as a *Fault without mutating pc; pkg/hart decides what
// to do about them (dispatch to a host, raise a trap, or halt).
func Exec[X xlen.Xlen](x X, cfg Config, reg *RegisterFile, mem *Memory, in *Instruction) (ExecResult, *Fault) {
	pc := reg.PC()

	switch in.Op {
	case OpLUI:
		reg.Set(in.Rd, x.SignExtend(in.Imm))
	case OpAUIPC:
		reg.Set(in.Rd, x.SignExtend(pc+in.Imm))

	case OpJAL:
		reg.Set(in.Rd, pc+uint64(in.Size))
		return jumpTo(cfg, reg, pc+in.Imm)

	case OpJALR:
		target := (reg.Get(in.Rs1) + in.Imm) &^ 1
		reg.Set(in.Rd, pc+uint64(in.Size))
		return jumpTo(cfg, reg, target)

	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		if !branchTaken(in.Op, reg.Get(in.Rs1), reg.Get(in.Rs2)) {
			break
		}
		return jumpTo(cfg, reg, pc+in.Imm)

	case OpLB, OpLH, OpLW, OpLBU, OpLHU, OpLWU, OpLD:
		addr := reg.Get(in.Rs1) + in.Imm
		v, f := execLoad(mem, in.Op, addr)
		if f != nil {
			return ExecResult{}, f
		}
		reg.Set(in.Rd, v)

	case OpSB, OpSH, OpSW, OpSD:
		addr := reg.Get(in.Rs1) + in.Imm
		if f := execStore(mem, in.Op, addr, reg.Get(in.Rs2)); f != nil {
			return ExecResult{}, f
		}

	case OpADDI:
		reg.Set(in.Rd, x.Mask()&(reg.Get(in.Rs1)+in.Imm))
	case OpSLTI:
		reg.Set(in.Rd, boolToReg(signLess(x, reg.Get(in.Rs1), in.Imm)))
	case OpSLTIU:
		// REDESIGN FLAG: an ordered unsigned comparison, never a+b.
		reg.Set(in.Rd, boolToReg(reg.Get(in.Rs1) < in.Imm))
	case OpXORI:
		reg.Set(in.Rd, reg.Get(in.Rs1)^in.Imm)
	case OpORI:
		reg.Set(in.Rd, reg.Get(in.Rs1)|in.Imm)
	case OpANDI:
		reg.Set(in.Rd, reg.Get(in.Rs1)&in.Imm)
	case OpSLLI:
		reg.Set(in.Rd, x.Mask()&(reg.Get(in.Rs1)<<(in.Imm&x.ShiftMask())))
	case OpSRLI:
		reg.Set(in.Rd, (reg.Get(in.Rs1)&x.Mask())>>(in.Imm&x.ShiftMask()))
	case OpSRAI:
		reg.Set(in.Rd, x.Mask()&uint64(int64(x.SignExtend(reg.Get(in.Rs1)))>>(in.Imm&x.ShiftMask())))

	case OpADD:
		reg.Set(in.Rd, x.Mask()&(reg.Get(in.Rs1)+reg.Get(in.Rs2)))
	case OpSUB:
		reg.Set(in.Rd, x.Mask()&(reg.Get(in.Rs1)-reg.Get(in.Rs2)))
	case OpSLL:
		reg.Set(in.Rd, x.Mask()&(reg.Get(in.Rs1)<<(reg.Get(in.Rs2)&x.ShiftMask())))
	case OpSLT:
		reg.Set(in.Rd, boolToReg(signLess(x, reg.Get(in.Rs1), reg.Get(in.Rs2))))
	case OpSLTU:
		reg.Set(in.Rd, boolToReg(reg.Get(in.Rs1) < reg.Get(in.Rs2)))
	case OpXOR:
		reg.Set(in.Rd, reg.Get(in.Rs1)^reg.Get(in.Rs2))
	case OpSRL:
		reg.Set(in.Rd, (reg.Get(in.Rs1)&x.Mask())>>(reg.Get(in.Rs2)&x.ShiftMask()))
	case OpSRA:
		reg.Set(in.Rd, x.Mask()&uint64(int64(x.SignExtend(reg.Get(in.Rs1)))>>(reg.Get(in.Rs2)&x.ShiftMask())))
	case OpOR:
		reg.Set(in.Rd, reg.Get(in.Rs1)|reg.Get(in.Rs2))
	case OpAND:
		reg.Set(in.Rd, reg.Get(in.Rs1)&reg.Get(in.Rs2))

	case OpADDIW:
		reg.Set(in.Rd, signExt32(uint32(reg.Get(in.Rs1))+uint32(in.Imm)))
	case OpSLLIW:
		reg.Set(in.Rd, signExt32(uint32(reg.Get(in.Rs1))<<(in.Imm&0x1f)))
	case OpSRLIW:
		reg.Set(in.Rd, signExt32(uint32(reg.Get(in.Rs1))>>(in.Imm&0x1f)))
	case OpSRAIW:
		reg.Set(in.Rd, uint64(int32(reg.Get(in.Rs1))>>(in.Imm&0x1f)))
	case OpADDW:
		reg.Set(in.Rd, signExt32(uint32(reg.Get(in.Rs1))+uint32(reg.Get(in.Rs2))))
	case OpSUBW:
		reg.Set(in.Rd, signExt32(uint32(reg.Get(in.Rs1))-uint32(reg.Get(in.Rs2))))
	case OpSLLW:
		reg.Set(in.Rd, signExt32(uint32(reg.Get(in.Rs1))<<(reg.Get(in.Rs2)&0x1f)))
	case OpSRLW:
		reg.Set(in.Rd, signExt32(uint32(reg.Get(in.Rs1))>>(reg.Get(in.Rs2)&0x1f)))
	case OpSRAW:
		reg.Set(in.Rd, uint64(int32(reg.Get(in.Rs1))>>(reg.Get(in.Rs2)&0x1f)))

	case OpFENCE, OpFENCEI:
		// A single in-order hart with no instruction cache observes no
		// reordering; both are no-ops.

	case OpECALL:
		return ExecResult{}, &Fault{Cause: CauseEnvironmentCall}
	case OpEBREAK:
		return ExecResult{}, &Fault{Cause: CauseBreakpoint}

	case OpCSRRW:
		execCSRRW(reg, in)
	case OpCSRRS:
		execCSRSet(reg, in, reg.Get(in.Rs1), in.Rs1 != 0)
	case OpCSRRC:
		execCSRClear(reg, in, reg.Get(in.Rs1), in.Rs1 != 0)
	case OpCSRRWI:
		execCSRRWI(reg, in)
	case OpCSRRSI:
		execCSRSet(reg, in, in.Zimm, in.Zimm != 0)
	case OpCSRRCI:
		execCSRClear(reg, in, in.Zimm, in.Zimm != 0)

	case OpMUL:
		reg.Set(in.Rd, x.Mask()&(reg.Get(in.Rs1)*reg.Get(in.Rs2)))
	case OpMULH:
		reg.Set(in.Rd, x.Mask()&mulh(x, reg.Get(in.Rs1), reg.Get(in.Rs2)))
	case OpMULHSU:
		reg.Set(in.Rd, x.Mask()&mulhsu(x, reg.Get(in.Rs1), reg.Get(in.Rs2)))
	case OpMULHU:
		reg.Set(in.Rd, x.Mask()&mulhu(x, reg.Get(in.Rs1), reg.Get(in.Rs2)))
	case OpDIV:
		reg.Set(in.Rd, x.Mask()&divS(x, reg.Get(in.Rs1), reg.Get(in.Rs2)))
	case OpDIVU:
		reg.Set(in.Rd, divU(x, reg.Get(in.Rs1), reg.Get(in.Rs2)))
	case OpREM:
		reg.Set(in.Rd, x.Mask()&remS(x, reg.Get(in.Rs1), reg.Get(in.Rs2)))
	case OpREMU:
		reg.Set(in.Rd, remU(x, reg.Get(in.Rs1), reg.Get(in.Rs2)))
	case OpMULW:
		reg.Set(in.Rd, signExt32(uint32(reg.Get(in.Rs1))*uint32(reg.Get(in.Rs2))))
	case OpDIVW:
		a, b := int32(reg.Get(in.Rs1)), int32(reg.Get(in.Rs2))
		if b == 0 {
			reg.Set(in.Rd, ^uint64(0))
		} else {
			reg.Set(in.Rd, signExt32(uint32(a/b)))
		}
	case OpDIVUW:
		a, b := uint32(reg.Get(in.Rs1)), uint32(reg.Get(in.Rs2))
		if b == 0 {
			reg.Set(in.Rd, ^uint64(0))
		} else {
			reg.Set(in.Rd, signExt32(a/b))
		}
	case OpREMW:
		a, b := int32(reg.Get(in.Rs1)), int32(reg.Get(in.Rs2))
		if b == 0 {
			reg.Set(in.Rd, signExt32(uint32(a)))
		} else {
			reg.Set(in.Rd, signExt32(uint32(a%b)))
		}
	case OpREMUW:
		a, b := uint32(reg.Get(in.Rs1)), uint32(reg.Get(in.Rs2))
		if b == 0 {
			reg.Set(in.Rd, signExt32(a))
		} else {
			reg.Set(in.Rd, signExt32(a%b))
		}

	case OpLRW, OpLRD, OpSCW, OpSCD,
		OpAMOSWAPW, OpAMOADDW, OpAMOXORW, OpAMOANDW, OpAMOORW, OpAMOMINW, OpAMOMAXW, OpAMOMINUW, OpAMOMAXUW,
		OpAMOSWAPD, OpAMOADDD, OpAMOXORD, OpAMOANDD, OpAMOORD, OpAMOMIND, OpAMOMAXD, OpAMOMINUD, OpAMOMAXUD:
		return ExecResult{}, execAMO(mem, reg, in)

	default:
		return ExecResult{}, &Fault{Cause: CauseIllegalInstruction, Tval: uint64(in.Raw)}
	}
	return ExecResult{}, nil
}

// jumpTo validates target against the active IALIGN and, if legal,
// commits it to pc; this is the only place in Exec that writes pc
// outside the pc+Size fallthrough pkg/hart applies when PCUpdated is
// false.
func jumpTo(cfg Config, reg *RegisterFile, target uint64) (ExecResult, *Fault) {
	if target&(cfg.IAlign()-1) != 0 {
		return ExecResult{}, &Fault{Cause: CauseInstructionAddressMisaligned, Tval: target}
	}
	reg.SetPC(target)
	return ExecResult{PCUpdated: true}, nil
}

func branchTaken(op Op, a, b uint64) bool {
	switch op {
	case OpBEQ:
		return a == b
	case OpBNE:
		return a != b
	case OpBLT:
		return int64(a) < int64(b)
	case OpBGE:
		return int64(a) >= int64(b)
	case OpBLTU:
		return a < b
	case OpBGEU:
		return a >= b
	}
	panic("isa: not a branch op")
}

func signLess[X xlen.Xlen](x X, a, b uint64) bool {
	as, bs := int64(x.SignExtend(a)), int64(x.SignExtend(b))
	return as < bs
}

func boolToReg(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func signExt32(v uint32) uint64 { return uint64(int64(int32(v))) }

func execLoad(mem *Memory, op Op, addr uint64) (uint64, *Fault) {
	switch op {
	case OpLB:
		v, ok := mem.LoadU8(addr)
		if !ok {
			return 0, loadFault(addr)
		}
		return uint64(int64(int8(v))), nil
	case OpLBU:
		v, ok := mem.LoadU8(addr)
		if !ok {
			return 0, loadFault(addr)
		}
		return uint64(v), nil
	case OpLH:
		v, ok := mem.LoadU16(addr)
		if !ok {
			return 0, loadFault(addr)
		}
		return uint64(int64(int16(v))), nil
	case OpLHU:
		v, ok := mem.LoadU16(addr)
		if !ok {
			return 0, loadFault(addr)
		}
		return uint64(v), nil
	case OpLW:
		v, ok := mem.LoadU32(addr)
		if !ok {
			return 0, loadFault(addr)
		}
		return uint64(int64(int32(v))), nil
	case OpLWU:
		v, ok := mem.LoadU32(addr)
		if !ok {
			return 0, loadFault(addr)
		}
		return uint64(v), nil
	case OpLD:
		v, ok := mem.LoadU64(addr)
		if !ok {
			return 0, loadFault(addr)
		}
		return v, nil
	}
	panic("isa: not a load op")
}

func execStore(mem *Memory, op Op, addr, v uint64) *Fault {
	var ok bool
	switch op {
	case OpSB:
		ok = mem.StoreU8(addr, uint8(v))
	case OpSH:
		ok = mem.StoreU16(addr, uint16(v))
	case OpSW:
		ok = mem.StoreU32(addr, uint32(v))
	case OpSD:
		ok = mem.StoreU64(addr, v)
	default:
		panic("isa: not a store op")
	}
	if !ok {
		return storeFault(addr)
	}
	return nil
}

func loadFault(addr uint64) *Fault  { return &Fault{Cause: CauseLoadAccessFault, Tval: addr} }
func storeFault(addr uint64) *Fault { return &Fault{Cause: CauseStoreAMOAccessFault, Tval: addr} }

func execCSRRW(reg *RegisterFile, in *Instruction) {
	old := reg.CSR(in.CSR)
	if in.Rd != 0 {
		reg.Set(in.Rd, old)
	}
	reg.SetCSR(in.CSR, reg.Get(in.Rs1))
}

func execCSRRWI(reg *RegisterFile, in *Instruction) {
	old := reg.CSR(in.CSR)
	if in.Rd != 0 {
		reg.Set(in.Rd, old)
	}
	reg.SetCSR(in.CSR, in.Zimm)
}

func execCSRSet(reg *RegisterFile, in *Instruction, mask uint64, write bool) {
	old := reg.CSR(in.CSR)
	reg.Set(in.Rd, old)
	if write {
		reg.SetCSR(in.CSR, old|mask)
	}
}

func execCSRClear(reg *RegisterFile, in *Instruction, mask uint64, write bool) {
	old := reg.CSR(in.CSR)
	reg.Set(in.Rd, old)
	if write {
		reg.SetCSR(in.CSR, old&^mask)
	}
}

// mulh/mulhsu/mulhu return the upper XLEN bits of a 2*XLEN-bit product.
// At XLEN=64 the product doesn't fit in a machine word, so they go
// through math/bits.Mul64 on the operands' magnitudes and restore the
// sign by negating the 128-bit result when needed; at XLEN=32 the
// product fits in an int64/uint64 outright and the upper half is a
// plain shift.

func mulh[X xlen.Xlen](x X, a, b uint64) uint64 {
	as, bs := int64(x.SignExtend(a)), int64(x.SignExtend(b))
	if x.Bits() == 32 {
		return x.SignExtend(uint64(as*bs) >> 32)
	}
	hi, lo := stdbits.Mul64(magnitude(as), magnitude(bs))
	if (as < 0) != (bs < 0) {
		hi, _ = negate128(hi, lo)
	}
	return hi
}

func mulhsu[X xlen.Xlen](x X, a, b uint64) uint64 {
	as := int64(x.SignExtend(a))
	if x.Bits() == 32 {
		bu := int64(uint32(b))
		return x.SignExtend(uint64(as*bu) >> 32)
	}
	bu := b & x.Mask()
	hi, lo := stdbits.Mul64(magnitude(as), bu)
	if as < 0 {
		hi, _ = negate128(hi, lo)
	}
	return hi
}

func mulhu[X xlen.Xlen](x X, a, b uint64) uint64 {
	if x.Bits() == 32 {
		au, bu := uint64(uint32(a)), uint64(uint32(b))
		return au * bu >> 32
	}
	hi, _ := stdbits.Mul64(a, b)
	return hi
}

// magnitude returns |v| as an unsigned value, correctly handling
// math.MinInt64 (whose magnitude, 2^63, doesn't fit in an int64).
func magnitude(v int64) uint64 {
	u := uint64(v)
	if v < 0 {
		return -u
	}
	return u
}

// negate128 returns the two's complement negation of the 128-bit value
// (hi, lo).
func negate128(hi, lo uint64) (nhi, nlo uint64) {
	nlo = ^lo + 1
	carry := uint64(0)
	if lo == 0 {
		carry = 1
	}
	nhi = ^hi + carry
	return nhi, nlo
}

func divS[X xlen.Xlen](x X, a, b uint64) uint64 {
	bs := int64(x.SignExtend(b))
	if bs == 0 {
		return ^uint64(0)
	}
	as := int64(x.SignExtend(a))
	return uint64(as / bs)
}

func divU[X xlen.Xlen](x X, a, b uint64) uint64 {
	au, bu := a&x.Mask(), b&x.Mask()
	if bu == 0 {
		return x.Mask()
	}
	return au / bu
}

func remS[X xlen.Xlen](x X, a, b uint64) uint64 {
	bs := int64(x.SignExtend(b))
	if bs == 0 {
		return a
	}
	as := int64(x.SignExtend(a))
	return uint64(as % bs)
}

func remU[X xlen.Xlen](x X, a, b uint64) uint64 {
	au, bu := a&x.Mask(), b&x.Mask()
	if bu == 0 {
		return a
	}
	return au % bu
}

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

// execAMO carries out LR/SC/AMO* against a single hart: reservations
// always hold (there's no other hart to steal the line), so LR is a
// plain load and SC always succeeds. aq/rl were already preserved on
// Instruction by the decoder; a single in-order hart has nothing to
// order against them.
//
// Decoding is conformance-checked, but
// execution reduces to a non-atomic read-modify-write.
func execAMO(mem *Memory, reg *RegisterFile, in *Instruction) *Fault {
	addr := reg.Get(in.Rs1)
	isD := isDoubleWordAMO(in.Op)

	old, f := loadAMO(mem, addr, isD)
	if f != nil {
		return f
	}

	if in.Op == OpLRW || in.Op == OpLRD {
		reg.Set(in.Rd, old)
		return nil
	}
	if in.Op == OpSCW || in.Op == OpSCD {
		if f := storeAMO(mem, addr, reg.Get(in.Rs2), isD); f != nil {
			return f
		}
		reg.Set(in.Rd, 0) // 0 means success
		return nil
	}

	rs2 := reg.Get(in.Rs2)
	rs2Signed, rs2Unsigned := rs2, rs2
	if !isD {
		rs2Signed = uint64(int64(int32(rs2)))
		rs2Unsigned = uint64(uint32(rs2))
	}

	var result uint64
	switch in.Op {
	case OpAMOSWAPW, OpAMOSWAPD:
		result = rs2
	case OpAMOADDW, OpAMOADDD:
		result = old + rs2
	case OpAMOXORW, OpAMOXORD:
		result = old ^ rs2
	case OpAMOANDW, OpAMOANDD:
		result = old & rs2
	case OpAMOORW, OpAMOORD:
		result = old | rs2
	case OpAMOMINW, OpAMOMIND:
		result = pickSigned(old, rs2Signed, true)
	case OpAMOMAXW, OpAMOMAXD:
		result = pickSigned(old, rs2Signed, false)
	case OpAMOMINUW, OpAMOMINUD:
		result = pickUnsigned(old, rs2Unsigned, true)
	case OpAMOMAXUW, OpAMOMAXUD:
		result = pickUnsigned(old, rs2Unsigned, false)
	}

	if f := storeAMO(mem, addr, result, isD); f != nil {
		return f
	}
	reg.Set(in.Rd, old)
	return nil
}

func isDoubleWordAMO(op Op) bool {
	switch op {
	case OpLRD, OpSCD, OpAMOSWAPD, OpAMOADDD, OpAMOXORD, OpAMOANDD, OpAMOORD, OpAMOMIND, OpAMOMAXD, OpAMOMINUD, OpAMOMAXUD:
		return true
	}
	return false
}

func loadAMO(mem *Memory, addr uint64, isD bool) (uint64, *Fault) {
	if isD {
		v, ok := mem.LoadU64(addr)
		if !ok {
			return 0, loadFault(addr)
		}
		return v, nil
	}
	v, ok := mem.LoadU32(addr)
	if !ok {
		return 0, loadFault(addr)
	}
	return uint64(int64(int32(v))), nil
}

func storeAMO(mem *Memory, addr, v uint64, isD bool) *Fault {
	var ok bool
	if isD {
		ok = mem.StoreU64(addr, v)
	} else {
		ok = mem.StoreU32(addr, uint32(v))
	}
	if !ok {
		return storeFault(addr)
	}
	return nil
}

func pickSigned(a, b uint64, min bool) uint64 {
	less := int64(a) < int64(b)
	if less == min {
		return a
	}
	return b
}

func pickUnsigned(a, b uint64, min bool) uint64 {
	less := a < b
	if less == min {
		return a
	}
	return b
}

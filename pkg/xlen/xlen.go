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

// Package xlen parameterizes the interpreter over the RISC-V native
// word width (XLEN), 32 or 64 bits. Registers and memory addresses are
// always stored as uint64 internally; an Xlen implementation tells the
// rest of the interpreter how many of those bits are meaningful.
package xlen

// Xlen describes the machine word width the interpreter runs with.
// XLen32 and XLen64 are the only two implementations; both are
// zero-size so passing them around (as a type parameter bound) costs
// nothing at runtime.
type Xlen interface {
	// Bits returns XLEN: 32 or 64.
	Bits() uint

	// Mask returns a uint64 with the low Bits() bits set; truncating a
	// uint64 to the active XLEN is `v & Mask()`.
	Mask() uint64

	// ShiftMask returns the mask applied to a shift amount before use:
	// shift amounts are taken from the low log2(XLEN) bits of the
	// source, so SLL(1, XLEN) wraps around to SLL(1, 0).
	ShiftMask() uint64

	// MinSigned returns the bit pattern of the most negative signed
	// value representable in XLEN bits (e.g. 0x80000000 for XLEN=32).
	MinSigned() uint64

	// SignExtend sign-extends a value already truncated to XLEN bits
	// up through bit 63.
	SignExtend(v uint64) uint64
}

// XLen32 selects the RV32 word width.
type XLen32 struct{}

func (XLen32) Bits() uint          { return 32 }
func (XLen32) Mask() uint64        { return 0xFFFFFFFF }
func (XLen32) ShiftMask() uint64   { return 0x1F }
func (XLen32) MinSigned() uint64   { return 0x80000000 }
func (XLen32) SignExtend(v uint64) uint64 {
	return uint64(int64(int32(uint32(v))))
}

// XLen64 selects the RV64 word width.
type XLen64 struct{}

func (XLen64) Bits() uint        { return 64 }
func (XLen64) Mask() uint64      { return 0xFFFFFFFFFFFFFFFF }
func (XLen64) ShiftMask() uint64 { return 0x3F }
func (XLen64) MinSigned() uint64 { return 0x8000000000000000 }
func (XLen64) SignExtend(v uint64) uint64 {
	return v
}

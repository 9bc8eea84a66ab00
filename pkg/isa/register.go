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

// Register ABI numbers used throughout the interpreter and its tests.
//
// riscv-spec-v2.2.pdf; Table 20.1; page 109
const (
	Zero = 0 // Hard-wired zero register.
	RA   = 1 // Return address.
	SP   = 2 // Stack pointer.
)

// Control/status register indices this core actually implements.
// Any other CSR number is illegal.
const (
	CSRCycle    = 0xC00
	CSRTime     = 0xC01
	CSRInstret  = 0xC02
	CSRCycleH   = 0xC80 // RV32 only
	CSRTimeH    = 0xC81 // RV32 only
	CSRInstretH = 0xC82 // RV32 only
)

// NumRegisters is the size of the base integer register file (x0-x31).
const NumRegisters = 32

// NumEmbeddedRegisters is the size of the embedded (RV32E/RV64E)
// register file (x0-x15).
const NumEmbeddedRegisters = 16

// RegisterFile holds XLEN general-purpose registers plus pc. Index 0
// is hardwired to zero: Set is a no-op and Get always returns 0,
// independent of the underlying storage.
type RegisterFile struct {
	x  [NumRegisters]uint64
	pc uint64
	// numRegs is 32 normally, 16 when the embedded (E) base is
	// selected; Set/Get above numRegs always behave as x0.
	numRegs uint32
	csr     map[uint32]uint64
}

// NewRegisterFile returns a zeroed register file. embedded selects the
// 16-register E base instead of the 32-register I base.
func NewRegisterFile(embedded bool) *RegisterFile {
	n := uint32(NumRegisters)
	if embedded {
		n = NumEmbeddedRegisters
	}
	return &RegisterFile{numRegs: n}
}

// Get returns the value of register i, or 0 if i is out of range for
// the configured base or is x0.
func (r *RegisterFile) Get(i uint32) uint64 {
	if i == 0 || i >= r.numRegs {
		return 0
	}
	return r.x[i]
}

// Set writes value to register i. Writes to x0, or to a register
// number beyond the configured base, are silently discarded.
func (r *RegisterFile) Set(i uint32, value uint64) {
	if i == 0 || i >= r.numRegs {
		return
	}
	r.x[i] = value
}

// PC returns the program counter.
func (r *RegisterFile) PC() uint64 { return r.pc }

// SetPC sets the program counter. Callers are responsible for
// IALIGN-aligning it; Exec enforces that rule on control-flow
// instructions.
func (r *RegisterFile) SetPC(pc uint64) { r.pc = pc }

// NumRegs reports how many of the 32 register slots are addressable
// (16 under the embedded base, 32 otherwise).
func (r *RegisterFile) NumRegs() uint32 { return r.numRegs }

// CSR returns the current value of control/status register addr,
// defaulting to 0 if it has never been written.
func (r *RegisterFile) CSR(addr uint32) uint64 { return r.csr[addr] }

// SetCSR writes value to control/status register addr.
func (r *RegisterFile) SetCSR(addr uint32, value uint64) {
	if r.csr == nil {
		r.csr = make(map[uint32]uint64)
	}
	r.csr[addr] = value
}

// RegNames maps register numbers to their ABI names.
//
// riscv-spec-v2.2; Table 20.1; Page 109
var RegNames = [32]string{
	0: "zero", 1: "ra", 2: "sp", 3: "gp", 4: "tp",
	5: "t0", 6: "t1", 7: "t2",
	8: "s0", 9: "s1",
	10: "a0", 11: "a1", 12: "a2", 13: "a3", 14: "a4", 15: "a5", 16: "a6", 17: "a7",
	18: "s2", 19: "s3", 20: "s4", 21: "s5", 22: "s6", 23: "s7", 24: "s8", 25: "s9", 26: "s10", 27: "s11",
	28: "t3", 29: "t4", 30: "t5", 31: "t6",
}

// RegNums maps ABI names back to register numbers.
var RegNums = func() map[string]uint32 {
	m := make(map[string]uint32, len(RegNames))
	for num, name := range RegNames {
		m[name] = uint32(num)
	}
	return m
}()

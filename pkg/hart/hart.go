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

// Package hart builds the fetch/decode/execute loop on top of
// pkg/isa: it owns the register file, the memory region, and the
// decision of what to do when an instruction faults. pkg/isa itself
// never advances pc past an ordinary instruction and never touches a
// host; Hart is where those two things happen, generalizing the
// teacher's VM.Run (vm.go) to a fault-aware loop over a pluggable
// HostService.
package hart

import (
	"fmt"

	"github.com/lmmilewski/rvcore/pkg/isa"
	"github.com/lmmilewski/rvcore/pkg/xlen"
)

// FaultError reports a hart halting on a fault that isn't an
// ECALL/EBREAK trap (which HostService handles instead): an illegal
// instruction, a misaligned jump target, or an out-of-bounds memory
// access. Carries enough state to produce the single diagnostic line
// a caller needs to report a fatal fault.
type FaultError struct {
	Fault *isa.Fault
	PC    uint64
	Instr *isa.Instruction // nil if the fault happened during fetch/decode
}

func (e *FaultError) Error() string {
	if e.Instr != nil {
		return fmt.Sprintf("fault at pc=%#x (%s): %v", e.PC, e.Instr, e.Fault)
	}
	return fmt.Sprintf("fault at pc=%#x: %v", e.PC, e.Fault)
}

// Hart is a single RISC-V hardware thread: a register file, a flat
// memory region, and the ISA configuration they're interpreted under.
// The type parameter selects XLEN at compile time, matching pkg/isa's
// generic Exec.
type Hart[X xlen.Xlen] struct {
	X    X
	Cfg  isa.Config
	Reg  *isa.RegisterFile
	Mem  *isa.Memory
	Host HostService

	// Steps counts instructions retired so far, mirroring the
	// teacher's vm.Steps counter.
	Steps uint64
}

// New returns a Hart over an already-populated memory image, pc set to
// entry.
func New[X xlen.Xlen](x X, cfg isa.Config, mem *isa.Memory, entry uint64, host HostService) *Hart[X] {
	h := &Hart[X]{
		X:    x,
		Cfg:  cfg,
		Reg:  isa.NewRegisterFile(cfg.Embedded),
		Mem:  mem,
		Host: host,
	}
	h.Reg.SetPC(entry)
	return h
}

// fetch reads one instruction word at pc, routing to the compressed or
// base-32 decoder depending on IALIGN/the word's low bits, per
// riscv-spec-v2.2's mixed 16/32-bit instruction stream rule.
func (h *Hart[X]) fetch() (*isa.Instruction, *isa.Fault) {
	pc := h.Reg.PC()
	low, ok := h.Mem.LoadU16(pc)
	if !ok {
		return nil, &isa.Fault{Cause: isa.CauseInstructionAccessFault, Tval: pc}
	}
	if h.Cfg.C && isa.IsCompressed(low) {
		in, err := isa.DecodeCompressed(h.Cfg, low)
		if err != nil {
			return nil, &isa.Fault{Cause: isa.CauseIllegalInstruction, Tval: uint64(low)}
		}
		return in, nil
	}
	word, ok := h.Mem.LoadU32(pc)
	if !ok {
		return nil, &isa.Fault{Cause: isa.CauseInstructionAccessFault, Tval: pc}
	}
	in, err := isa.Decode(h.Cfg, word)
	if err != nil {
		return nil, &isa.Fault{Cause: isa.CauseIllegalInstruction, Tval: uint64(word)}
	}
	return in, nil
}

// Step fetches, decodes, and executes exactly one instruction. A fault
// that is an ECALL or EBREAK trap is handed to Host instead of being
// returned: the host may return ErrExit (propagated to the caller) or
// nil (the hart advances past the trap and continues). Any other
// fault is returned wrapped in *FaultError; pc is left at the
// faulting instruction so the caller can report it.
func (h *Hart[X]) Step() error {
	pc := h.Reg.PC()
	in, f := h.fetch()
	if f != nil {
		return &FaultError{Fault: f, PC: pc}
	}

	res, f := isa.Exec(h.X, h.Cfg, h.Reg, h.Mem, in)
	if f != nil {
		switch f.Cause {
		case isa.CauseEnvironmentCall:
			if err := h.Host.Syscall(h.Reg, h.Mem); err != nil {
				return err
			}
		case isa.CauseBreakpoint:
			if err := h.Host.Breakpoint(h.Reg, h.Mem); err != nil {
				return err
			}
		default:
			return &FaultError{Fault: f, PC: pc, Instr: in}
		}
	}

	h.Steps++
	if in.CSR != isa.CSRInstret {
		h.bumpInstret()
	}
	if !res.PCUpdated {
		h.Reg.SetPC(pc + uint64(in.Size))
	}
	return nil
}

// bumpInstret increments the instructions-retired CSR. A CSR write
// that targets instret directly wins over the automatic increment,
// so an explicit write isn't immediately clobbered by it.
func (h *Hart[X]) bumpInstret() {
	h.Reg.SetCSR(isa.CSRInstret, h.Reg.CSR(isa.CSRInstret)+1)
}

// Run steps the hart until Host signals *ErrExit, a fault halts
// execution, or maxSteps instructions have retired (0 means
// unlimited). It returns the *ErrExit from a clean guest exit
// unwrapped so callers can check errors.As for it, or a *FaultError on
// a halt.
func (h *Hart[X]) Run(maxSteps uint64) error {
	for maxSteps == 0 || h.Steps < maxSteps {
		if err := h.Step(); err != nil {
			return err
		}
	}
	return nil
}

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

// Cause numbers the RISC-V unprivileged exception causes this core can
// raise. Values match the mcause/scause encoding so a host embedding
// this core against real firmware sees the numbers it expects.
//
// riscv-privileged-v1.10.pdf; Table 3.6
type Cause uint32

const (
	CauseInstructionAddressMisaligned Cause = 0
	CauseInstructionAccessFault       Cause = 1
	CauseIllegalInstruction           Cause = 2
	CauseBreakpoint                   Cause = 3
	CauseLoadAddressMisaligned        Cause = 4
	CauseLoadAccessFault              Cause = 5
	CauseStoreAMOAddressMisaligned    Cause = 6
	CauseStoreAMOAccessFault          Cause = 7
	CauseEnvironmentCall              Cause = 8
)

var causeNames = map[Cause]string{
	CauseInstructionAddressMisaligned: "instruction address misaligned",
	CauseInstructionAccessFault:       "instruction access fault",
	CauseIllegalInstruction:           "illegal instruction",
	CauseBreakpoint:                   "breakpoint",
	CauseLoadAddressMisaligned:        "load address misaligned",
	CauseLoadAccessFault:              "load access fault",
	CauseStoreAMOAddressMisaligned:    "store/AMO address misaligned",
	CauseStoreAMOAccessFault:          "store/AMO access fault",
	CauseEnvironmentCall:              "environment call",
}

func (c Cause) String() string {
	if s, ok := causeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Cause(%d)", c)
}

// Fault reports that Exec could not complete an instruction the way a
// hart ordinarily would: either it hit a real RISC-V exception (a bad
// memory access, an illegal encoding) or it reached a control transfer
// to the execution environment (ECALL/EBREAK) that only a host can
// resolve. In both cases Exec has NOT advanced pc; pkg/hart is the only
// place that moves pc after inspecting a Fault.
type Fault struct {
	Cause Cause
	Tval  uint64 // the address or instruction word associated with the fault
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s (tval=%#x)", f.Cause, f.Tval)
}

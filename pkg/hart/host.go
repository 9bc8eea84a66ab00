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

package hart

import "github.com/lmmilewski/rvcore/pkg/isa"

// HostService carries out the side effects pkg/isa.Exec refuses to:
// the guest program's ECALL and EBREAK. Putting the syscall switch
// behind an interface instead of inlining it into the loop lets
// cmd/rvcore swap in a reference syscall ABI, a debugger stub, or a
// test fake without pkg/hart knowing about any of them.
//
// Both methods read/write reg and mem directly (e.g. to fetch the
// syscall number from a7 and print a C string from memory) and return
// ErrExit when the guest has asked to terminate. Any other error halts
// the hart's Run loop.
type HostService interface {
	// Syscall handles an ECALL trap. a7 (x17) conventionally carries
	// the syscall number.
	Syscall(reg *isa.RegisterFile, mem *isa.Memory) error

	// Breakpoint handles an EBREAK trap.
	Breakpoint(reg *isa.RegisterFile, mem *isa.Memory) error
}

// ErrExit is returned by a HostService to ask Hart.Run to stop
// cleanly: not a failure, just "the guest program is done."
type ErrExit struct {
	Code int
}

func (e *ErrExit) Error() string { return "guest requested exit" }

// NopHostService traps ECALL/EBREAK as no-ops, advancing past them.
// Useful for running code that never expects to reach the trap
// boundary (e.g. decoder/exec unit tests) without wiring a real host.
type NopHostService struct{}

func (NopHostService) Syscall(*isa.RegisterFile, *isa.Memory) error    { return nil }
func (NopHostService) Breakpoint(*isa.RegisterFile, *isa.Memory) error { return nil }

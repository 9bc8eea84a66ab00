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

// Package hostsvc implements the reference syscall ABI the bundled
// factorial fixture is written against: a0 selects the call, a1
// carries the argument.
package hostsvc

import (
	"fmt"
	"io"

	"github.com/lmmilewski/rvcore/pkg/hart"
	"github.com/lmmilewski/rvcore/pkg/isa"
)

// Call numbers accepted in a0.
const (
	CallPrintInt  = 1  // a1: value to print in decimal
	CallPrintChar = 11 // a1: character to print
	CallExit      = 10 // ends the run
)

// Console is a HostService that prints decimal integers and raw
// characters on CallPrintInt/CallPrintChar, and "\n[exit]\n" on
// CallExit before signaling *hart.ErrExit.
type Console struct {
	Out io.Writer
}

func (c Console) Syscall(reg *isa.RegisterFile, mem *isa.Memory) error {
	switch a0 := reg.Get(10); a0 {
	case CallPrintInt:
		fmt.Fprintf(c.Out, "%d", int64(reg.Get(11)))
		return nil
	case CallPrintChar:
		fmt.Fprintf(c.Out, "%c", rune(reg.Get(11)))
		return nil
	case CallExit:
		fmt.Fprintf(c.Out, "\n[exit]\n")
		return &hart.ErrExit{Code: 0}
	default:
		return fmt.Errorf("hostsvc: invalid environment call number %d (a7=%d) at pc=%#x", a0, reg.Get(17), reg.PC())
	}
}

func (c Console) Breakpoint(reg *isa.RegisterFile, mem *isa.Memory) error {
	fmt.Fprintf(c.Out, "breakpoint at pc=%#x\n", reg.PC())
	return nil
}

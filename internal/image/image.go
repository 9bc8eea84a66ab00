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

// Package image builds a pkg/isa.Memory region ready to hand a
// pkg/hart.Hart: it loads an ELF binary's allocatable sections (or a
// flat raw binary) and, when argv/env are supplied, lays out the
// initial process stack — argc, argv pointers, a NULL, envp pointers,
// a NULL, then the argv and envp C strings themselves, with sp left
// 8-byte aligned.
package image

import (
	"debug/elf"
	"fmt"

	"github.com/lmmilewski/rvcore/pkg/isa"
)

// Program describes a guest binary and the process state to build
// around it.
type Program struct {
	Argv    []string
	Env     []string
	MemSize uint64 // total flat memory size; must be large enough for sections + stack
}

// Loaded is the result of loading a Program: a ready-to-run memory
// image, the entry point, and the initial stack pointer (0 if Argv
// and Env were both nil — the caller is then responsible for setting
// up the stack itself, e.g. when mirroring another simulator's memory).
type Loaded struct {
	Mem   *isa.Memory
	Entry uint64
	SP    uint64
}

// LoadELF reads an ELF file's allocatable sections into a fresh memory
// region of size p.MemSize and, if p.Argv or p.Env is non-nil,
// initializes the stack at the top of memory.
func LoadELF(path string, p *Program) (*Loaded, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}
	defer f.Close()

	mem := isa.NewMemory(int(p.MemSize))
	for _, s := range f.Sections {
		if s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		if s.Type == elf.SHT_NOBITS {
			continue // .bss: already zero
		}
		data, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("image: read section %s (addr %#x): %w", s.Name, s.Addr, err)
		}
		if s.Addr+uint64(len(data)) > p.MemSize {
			return nil, fmt.Errorf("image: section %s (addr %#x, size %d) exceeds memory size %d", s.Name, s.Addr, len(data), p.MemSize)
		}
		mem.CopyIn(s.Addr, data)
	}

	sp := initStack(mem, p.Argv, p.Env)
	return &Loaded{Mem: mem, Entry: f.Entry, SP: sp}, nil
}

// LoadFlat loads a raw, already-assembled binary at address 0. Used
// for hand-built fixtures (e.g. the factorial program) that have no
// ELF wrapper.
func LoadFlat(text []byte, p *Program) (*Loaded, error) {
	size := p.MemSize
	if size < uint64(len(text)) {
		size = uint64(len(text))
	}
	mem := isa.NewMemory(int(size))
	mem.CopyIn(0, text)
	sp := initStack(mem, p.Argv, p.Env)
	return &Loaded{Mem: mem, Entry: 0, SP: sp}, nil
}

// initStack lays out argc/argv/envp at the top of mem and returns the
// resulting stack pointer. Returns 0 (leaving mem's top untouched) if
// both argv and env are nil.
func initStack(mem *isa.Memory, argv, env []string) uint64 {
	if argv == nil && env == nil {
		return 0
	}

	sp := uint64(mem.Size())
	push := func(s string) uint64 {
		b := append([]byte(s), 0)
		sp -= uint64(len(b))
		mem.CopyIn(sp, b)
		return sp
	}

	var addrs []uint64
	addrs = append(addrs, 0)
	for i := len(env) - 1; i >= 0; i-- {
		addrs = append(addrs, push(env[i]))
	}
	addrs = append(addrs, 0)
	for i := len(argv) - 1; i >= 0; i-- {
		addrs = append(addrs, push(argv[i]))
	}

	sp &^= 0x7 // align to 8 bytes before the pointer table
	for _, a := range addrs {
		sp -= 8
		mem.StoreU64(sp, a)
	}
	sp -= 8
	mem.StoreU64(sp, uint64(len(argv)))

	return sp
}

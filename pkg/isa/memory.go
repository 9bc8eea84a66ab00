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

import "encoding/binary"

// Memory is a flat, contiguous, byte-addressable region [0, Size()).
// Every access is bounds-checked; an access whose byte range exits the
// region reports ok=false instead of panicking or wrapping. Alignment
// is never required.
type Memory struct {
	b []byte
}

// NewMemory allocates a zeroed region of the given size.
func NewMemory(size int) *Memory {
	return &Memory{b: make([]byte, size)}
}

// NewMemoryFromBytes wraps an existing byte slice as a Memory region,
// taking ownership of it (the loader builds the image, then hands it
// to the hart).
func NewMemoryFromBytes(b []byte) *Memory {
	return &Memory{b: b}
}

// Size returns the region's size in bytes.
func (m *Memory) Size() int { return len(m.b) }

// Bytes returns the underlying storage. Used by loaders and the host
// service to read/write spans directly (e.g. printing a C string);
// interpreter semantics should prefer the typed accessors below.
func (m *Memory) Bytes() []byte { return m.b }

func (m *Memory) inBounds(addr uint64, n int) bool {
	if addr > uint64(len(m.b)) {
		return false
	}
	end := addr + uint64(n)
	return end >= addr && end <= uint64(len(m.b))
}

// LoadU8 reads one byte at addr.
func (m *Memory) LoadU8(addr uint64) (uint8, bool) {
	if !m.inBounds(addr, 1) {
		return 0, false
	}
	return m.b[addr], true
}

// LoadU16 reads two little-endian bytes at addr.
func (m *Memory) LoadU16(addr uint64) (uint16, bool) {
	if !m.inBounds(addr, 2) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(m.b[addr:]), true
}

// LoadU32 reads four little-endian bytes at addr.
func (m *Memory) LoadU32(addr uint64) (uint32, bool) {
	if !m.inBounds(addr, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(m.b[addr:]), true
}

// LoadU64 reads eight little-endian bytes at addr.
func (m *Memory) LoadU64(addr uint64) (uint64, bool) {
	if !m.inBounds(addr, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(m.b[addr:]), true
}

// StoreU8 writes one byte at addr.
func (m *Memory) StoreU8(addr uint64, v uint8) bool {
	if !m.inBounds(addr, 1) {
		return false
	}
	m.b[addr] = v
	return true
}

// StoreU16 writes two little-endian bytes at addr.
func (m *Memory) StoreU16(addr uint64, v uint16) bool {
	if !m.inBounds(addr, 2) {
		return false
	}
	binary.LittleEndian.PutUint16(m.b[addr:], v)
	return true
}

// StoreU32 writes four little-endian bytes at addr.
func (m *Memory) StoreU32(addr uint64, v uint32) bool {
	if !m.inBounds(addr, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(m.b[addr:], v)
	return true
}

// StoreU64 writes eight little-endian bytes at addr.
func (m *Memory) StoreU64(addr uint64, v uint64) bool {
	if !m.inBounds(addr, 8) {
		return false
	}
	binary.LittleEndian.PutUint64(m.b[addr:], v)
	return true
}

// CopyIn copies data into the region starting at offset, e.g. to load
// program text or the loader's initial stack contents. It panics if
// data doesn't fit; callers size the region before calling this (a
// loader bug, not a guest-facing fault).
func (m *Memory) CopyIn(offset uint64, data []byte) {
	if !m.inBounds(offset, len(data)) {
		panic("isa: CopyIn out of bounds")
	}
	copy(m.b[offset:], data)
}

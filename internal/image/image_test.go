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

package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmmilewski/rvcore/pkg/isa"
)

func TestLoadFlat_NoArgvEnv(t *testing.T) {
	text := []byte{0x01, 0x02, 0x03, 0x04}
	loaded, err := LoadFlat(text, &Program{MemSize: 4096})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), loaded.Entry)
	assert.Equal(t, uint64(0), loaded.SP, "sp stays 0 when argv and env are both nil")
	assert.Equal(t, 4096, loaded.Mem.Size())

	got, ok := loaded.Mem.LoadU32(0)
	require.True(t, ok)
	assert.Equal(t, uint32(0x04030201), got)
}

func TestLoadFlat_GrowsToFitText(t *testing.T) {
	text := make([]byte, 128)
	loaded, err := LoadFlat(text, &Program{MemSize: 16})
	require.NoError(t, err)
	assert.Equal(t, 128, loaded.Mem.Size(), "memory must grow to fit text larger than MemSize")
}

func TestInitStack_ArgcAndPointerTable(t *testing.T) {
	mem := isa.NewMemory(4096)
	sp := initStack(mem, []string{"prog", "one"}, []string{"A=1"})

	require.NotZero(t, sp)
	assert.Zero(t, sp%8, "sp must be 8-byte aligned")

	argc, ok := mem.LoadU64(sp)
	require.True(t, ok)
	assert.Equal(t, uint64(2), argc)

	argv0, ok := mem.LoadU64(sp + 8)
	require.True(t, ok)
	argv1, ok := mem.LoadU64(sp + 16)
	require.True(t, ok)
	argvNull, ok := mem.LoadU64(sp + 24)
	require.True(t, ok)
	assert.Zero(t, argvNull, "argv pointer table must be NULL-terminated")

	envp0, ok := mem.LoadU64(sp + 32)
	require.True(t, ok)
	envpNull, ok := mem.LoadU64(sp + 40)
	require.True(t, ok)
	assert.Zero(t, envpNull, "envp pointer table must be NULL-terminated")

	assertCString(t, mem, argv0, "prog")
	assertCString(t, mem, argv1, "one")
	assertCString(t, mem, envp0, "A=1")
}

func TestInitStack_NilArgvAndEnv(t *testing.T) {
	mem := isa.NewMemory(4096)
	sp := initStack(mem, nil, nil)
	assert.Equal(t, uint64(0), sp)
}

func assertCString(t *testing.T, mem *isa.Memory, addr uint64, want string) {
	t.Helper()
	for i := 0; i < len(want); i++ {
		b, ok := mem.LoadU8(addr + uint64(i))
		require.True(t, ok)
		require.Equal(t, want[i], b)
	}
	nul, ok := mem.LoadU8(addr + uint64(len(want)))
	require.True(t, ok)
	assert.Zero(t, nul)
}

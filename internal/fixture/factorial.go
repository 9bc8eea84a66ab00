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

// Package fixture holds the canonical end-to-end test program:
// factorial of four inputs via a multiply-accumulate subroutine
// called through a software stack, printing each result through the
// hostsvc syscall ABI. Instruction words are transcribed directly
// from the reference C++ fixture's NoneHart integration test so the
// fixture matches it bit-for-bit.
package fixture

import "encoding/binary"

// factorialWords is the 38-instruction RV32IM program. Each word is
// little-endian RISC-V machine code; the inline comment shows the
// assembly and byte offset from the original fixture.
var factorialWords = []uint32{
	0x000002B3, //        add t0, x0, x0                0x00
	0x00400313, //        addi t1, x0, 4                0x04
	0x00000397, //        la t2, test_input (auipc)     0x08
	0x09038393, //        addi t2, t2, 0x90              0x0c
	//    main_loop:
	0x06628263, //        beq t0, t1, main_exit         0x10
	0x00229E13, //        slli t3, t0, 2                0x14
	0x01C38EB3, //        add t4, t2, t3                0x18
	0x000EA503, //        lw a0, 0(t4)                  0x1c
	0xFEC10113, //        addi sp, sp, -20              0x20
	0x00512023, //        sw t0, 0(sp)                  0x24
	0x00612223, //        sw t1, 4(sp)                  0x28
	0x00712423, //        sw t2, 8(sp)                  0x2c
	0x01C12623, //        sw t3, 12(sp)                 0x30
	0x01D12823, //        sw t4, 16(sp)                 0x34
	0x044000EF, //        jal ra, factorial             0x38
	0x00012283, //        lw t0, 0(sp)                  0x3c
	0x00412303, //        lw t1, 4(sp)                  0x40
	0x00812383, //        lw t2, 8(sp)                  0x44
	0x00C12E03, //        lw t3, 12(sp)                 0x48
	0x01012E83, //        lw t4, 16(sp)                 0x4c
	0x01410113, //        addi sp, sp, 20               0x50
	0x00050593, //        addi a1, a0, 0                0x54
	0x00100513, //        addi a0, x0, 1                0x58
	0x00000073, //        ecall # print int             0x5c
	0x02000593, //        addi a1, x0, ' '              0x60
	0x00B00513, //        addi a0, x0, 11               0x64
	0x00000073, //        ecall # print char            0x68
	0x00128293, //        addi t0, t0, 1                0x6c
	0xFA1FF06F, //        jal x0, main_loop             0x70
	//    main_exit:
	0x00A00513, //        addi a0, x0, 10               0x74
	0x00000073, //        ecall # exit                  0x78
	//    factorial:
	0x00050293, //        addi t0, a0, 0                0x7c
	0x00100513, //        addi a0, x0, 1                0x80
	//    factorial_loop:
	0x00028863, //        beq t0, x0, factorial_ret     0x84
	0x02550533, //        mul a0, a0, t0                0x88
	0xFFF28293, //        addi t0, t0, -1               0x8c
	0xFF5FF06F, //        jal x0, factorial_loop        0x90
	//    factorial_ret:
	0x00008067, //        jalr x0, 0(ra)                0x94
}

// FactorialInputs are the four values the program computes factorials
// of, laid out in memory immediately after FactorialText.
var FactorialInputs = []uint32{7, 8, 9, 10}

// FactorialText returns the assembled program text as little-endian bytes.
func FactorialText() []byte {
	b := make([]byte, len(factorialWords)*4)
	for i, w := range factorialWords {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// FactorialData returns FactorialInputs as little-endian bytes, ready
// to place immediately after FactorialText in memory.
func FactorialData() []byte {
	b := make([]byte, len(FactorialInputs)*4)
	for i, w := range FactorialInputs {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// FactorialImage returns the full 4096-byte memory image (text + data,
// zero-padded) and the initial stack pointer the scenario specifies:
// sp=4092.
func FactorialImage() (mem []byte, sp uint64) {
	mem = make([]byte, 4096)
	copy(mem, FactorialText())
	copy(mem[len(factorialWords)*4:], FactorialData())
	return mem, 4092
}

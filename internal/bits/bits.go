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

// Package bits provides the single bit-field primitive instruction
// decoding builds on: extracting, masking, and sign-extending fixed
// ranges of a machine word.
package bits

import "fmt"

// Extract returns ((val >> lo) & mask(hi-lo)) << off, i.e. the bits
// [lo, hi) of val, right-shifted out and re-placed at bit offset off
// in the result. hi is exclusive, lo is inclusive.
//
// Extract panics if hi <= lo or if hi-lo+off would not fit in 64 bits;
// both are programmer errors (a fixed field layout), not data errors.
func Extract(val uint64, hi, lo, off uint) uint64 {
	if hi <= lo {
		panic(fmt.Sprintf("bits: hi (%d) must be greater than lo (%d)", hi, lo))
	}
	width := hi - lo
	if width+off > 64 {
		panic(fmt.Sprintf("bits: hi-lo+off (%d) exceeds 64 bits", width+off))
	}
	mask := uint64(1)<<width - 1
	return ((val >> lo) & mask) << off
}

// SignExtend treats bit as the top meaningful bit (0-indexed) of val
// and sign-extends it through bit 63, using arithmetic shift on the
// signed interpretation of val.
func SignExtend(val uint64, bit uint) uint64 {
	shift := 63 - bit
	return uint64(int64(val<<shift) >> shift)
}

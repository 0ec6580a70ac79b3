// Copyright The raster6502 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package asmwriter

import "fmt"

// BasicLoadAddress is the fixed C64 BASIC program load address ($0801);
// the stub itself always begins here regardless of the eventual code start.
const BasicLoadAddress uint16 = 0x0801

// DefaultCodeStart is the code origin a "10 SYS <addr>" stub advances to by
// default after the stub bytes.
const DefaultCodeStart uint16 = 0x0810

const sysToken = 0x9E

// EmitBasicStub writes, at BasicLoadAddress, the byte sequence a C64 BASIC
// line "10 SYS <codeStart>" encodes: a next-line pointer, the line number
// (little-endian), the SYS token, the decimal address as ASCII digits, a
// $00 line terminator, then $00 $00 to end the BASIC program. It then
// advances the origin to codeStart.
func (w *Writer) EmitBasicStub(codeStart uint16) {
	w.SectionBanner(SectionBasic)
	w.Origin(BasicLoadAddress)

	digits := []byte(fmt.Sprintf("%d", codeStart))

	// next-line pointer: load address + 2 (pointer) + 2 (line number) +
	// 1 (SYS token) + len(digits) + 1 (terminator), i.e. the address of the
	// $00 $00 end-of-program marker.
	lineBodyLen := 2 + 1 + len(digits) + 1
	nextLine := BasicLoadAddress + uint16(2+lineBodyLen)

	w.Word("next-line pointer", nextLine)
	w.Word("line number 10", 10)
	w.Byte("SYS token", sysToken)

	tokenBytes := make([]uint8, len(digits))
	for i, d := range digits {
		tokenBytes[i] = d
	}

	w.Byte(fmt.Sprintf("\"%s\" as PETSCII digits", string(digits)), tokenBytes...)
	w.Byte("end of line 10", 0x00)
	w.Byte("end of BASIC program", 0x00, 0x00)

	w.SectionBanner(SectionCode)
	w.Origin(codeStart)
}

// EmitRawOrigin skips the BASIC stub entirely, advancing straight to the
// explicit load address — the behavior when the stub is disabled.
func (w *Writer) EmitRawOrigin(loadAddress uint16) {
	w.SectionBanner(SectionCode)
	w.Origin(loadAddress)
}

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
package types

import "fmt"

// TypeOfIntegerLiteral determines the narrowest primitive type that can hold
// a decimal or hex integer literal's value:
// 255 is byte, 256 and 65535 are word, 65536 is out of range. hex and decimal
// literals are sized identically by value; the caller (the external lexer)
// is responsible for distinguishing "100" from "$64" before this is called —
// this function only ever sees the resolved magnitude.
func TypeOfIntegerLiteral(value uint32) (Type, error) {
	switch {
	case value <= 255:
		return Byte, nil
	case value <= 65535:
		return Word, nil
	default:
		return Type{}, fmt.Errorf("integer literal %d is out of word range (max 65535)", value)
	}
}

// InferArraySize computes the size of an array type declared with empty
// brackets (e.g. "byte x[] = [1,2,3]").
//
//   - hasInitializer=false                    -> error: no initializer provided
//   - initializer is a literal array of N      -> size = N
//   - initializer is a literal array of 0      -> error: empty array literal
//   - initializer is anything else (e.g. an    -> error: non-literal initializer
//     identifier referring to another array)
func InferArraySize(hasInitializer bool, initializerIsLiteralArray bool, literalLength int) (uint32, error) {
	if !hasInitializer {
		return 0, fmt.Errorf("cannot infer array size: no initializer provided")
	}

	if !initializerIsLiteralArray {
		return 0, fmt.Errorf("cannot infer array size from non-literal initializer")
	}

	if literalLength == 0 {
		return 0, fmt.Errorf("cannot infer array size: empty array literal")
	}

	return uint32(literalLength), nil
}

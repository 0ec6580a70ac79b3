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

// Package types implements the closed type lattice of the source language:
// the primitive kinds byte/word/bool/void, the compound
// array and function kinds, and the conversion rules between them. Types are
// immutable and compared structurally, never by pointer identity.
package types

import "fmt"

// Kind identifies which shape a Type has.
type Kind uint8

const (
	// KindByte is an 8-bit unsigned integer.
	KindByte Kind = iota
	// KindWord is a 16-bit unsigned integer.
	KindWord
	// KindBool is a boolean.
	KindBool
	// KindVoid is the absence of a value (function return type only).
	KindVoid
	// KindArray is a fixed-size homogeneous array of a primitive element type.
	KindArray
	// KindFunction is a function signature.
	KindFunction
)

// String gives the lower-case source-language spelling of a Kind.
func (k Kind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindWord:
		return "word"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	default:
		return "?"
	}
}

// Type is an immutable, structurally-comparable type descriptor. Two Types
// are the same type iff Equals returns true; Go's == is NOT meaningful here
// because array/function types are allocated per occurrence.
type Type struct {
	kind Kind
	// Element is the element type, valid only when kind == KindArray.
	element *Type
	// Size is the array length, valid only when kind == KindArray.
	size uint32
	// Params is the parameter type list, valid only when kind == KindFunction.
	params []Type
	// Return is the return type, valid only when kind == KindFunction.
	ret *Type
}

// Byte is the 8-bit unsigned primitive type.
var Byte = Type{kind: KindByte}

// Word is the 16-bit unsigned primitive type.
var Word = Type{kind: KindWord}

// Bool is the boolean primitive type.
var Bool = Type{kind: KindBool}

// Void is the absence-of-value type, valid only as a function return type.
var Void = Type{kind: KindVoid}

// NewArray constructs an array type of the given element type and size.
// Panics if element is not a primitive type, since array element types must
// be primitive.
func NewArray(element Type, size uint32) Type {
	if !element.IsPrimitive() {
		panic(fmt.Sprintf("array element type must be primitive, got %s", element))
	}

	e := element

	return Type{kind: KindArray, element: &e, size: size}
}

// NewFunction constructs a function type from its parameter types and return
// type.
func NewFunction(params []Type, ret Type) Type {
	r := ret
	ps := make([]Type, len(params))
	copy(ps, params)

	return Type{kind: KindFunction, params: ps, ret: &r}
}

// Kind returns this type's kind.
func (t Type) Kind() Kind { return t.kind }

// IsPrimitive reports whether this is one of byte/word/bool/void.
func (t Type) IsPrimitive() bool {
	switch t.kind {
	case KindByte, KindWord, KindBool, KindVoid:
		return true
	default:
		return false
	}
}

// Element returns the array element type. Panics if this is not an array.
func (t Type) Element() Type {
	if t.kind != KindArray {
		panic("Element() called on non-array type")
	}

	return *t.element
}

// Size returns the array length. Panics if this is not an array.
func (t Type) Size() uint32 {
	if t.kind != KindArray {
		panic("Size() called on non-array type")
	}

	return t.size
}

// Params returns the function parameter types. Panics if this is not a
// function type.
func (t Type) Params() []Type {
	if t.kind != KindFunction {
		panic("Params() called on non-function type")
	}

	out := make([]Type, len(t.params))
	copy(out, t.params)

	return out
}

// Return returns the function return type. Panics if this is not a function
// type.
func (t Type) Return() Type {
	if t.kind != KindFunction {
		panic("Return() called on non-function type")
	}

	return *t.ret
}

// Equals performs a structural equality comparison between two types.
func (t Type) Equals(o Type) bool {
	if t.kind != o.kind {
		return false
	}

	switch t.kind {
	case KindArray:
		return t.size == o.size && t.element.Equals(*o.element)
	case KindFunction:
		if len(t.params) != len(o.params) || !t.ret.Equals(*o.ret) {
			return false
		}

		for i := range t.params {
			if !t.params[i].Equals(o.params[i]) {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// String renders the type in source-language syntax, e.g. "byte", "word[4]",
// "function(byte,word):bool".
func (t Type) String() string {
	switch t.kind {
	case KindArray:
		return fmt.Sprintf("%s[%d]", t.element, t.size)
	case KindFunction:
		s := "function("

		for i, p := range t.params {
			if i != 0 {
				s += ","
			}

			s += p.String()
		}

		return s + "):" + t.ret.String()
	default:
		return t.kind.String()
	}
}

// BitWidth returns the storage width in bits of a primitive type. Panics for
// compound types, which have no single width.
func (t Type) BitWidth() uint {
	switch t.kind {
	case KindByte, KindBool:
		return 8
	case KindWord:
		return 16
	default:
		panic(fmt.Sprintf("BitWidth() undefined for %s", t.kind))
	}
}

// ConvertibleTo determines whether a value of type t can flow into a context
// expecting type target, per the conversion lattice:
// bool<->byte is always implicit, byte->word widens implicitly, word->byte
// requires an explicit narrowing and is rejected here (the caller must use
// NarrowableTo to check whether an explicit cast would be legal).
func (t Type) ConvertibleTo(target Type) bool {
	if t.Equals(target) {
		return true
	}

	switch {
	case t.kind == KindBool && target.kind == KindByte:
		return true
	case t.kind == KindByte && target.kind == KindBool:
		return true
	case t.kind == KindByte && target.kind == KindWord:
		return true
	default:
		return false
	}
}

// NarrowableTo determines whether an explicit cast from t to target is
// permitted. Word->byte is the only conversion that requires an explicit
// cast; everything ConvertibleTo already allows is trivially narrowable too.
func (t Type) NarrowableTo(target Type) bool {
	if t.ConvertibleTo(target) {
		return true
	}

	return t.kind == KindWord && target.kind == KindByte
}

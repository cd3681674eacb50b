// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrShapeMismatch is matched by every [ShapeMismatchError].
	ErrShapeMismatch = errors.New("der: shape mismatch")

	// ErrTypeMismatch is matched by every [TypeMismatchError].
	ErrTypeMismatch = errors.New("der: type mismatch")

	errTrailingData     = errors.New("trailing data after top-level value")
	errMaxDepth         = errors.New("maximum nesting depth exceeded")
	errExceedsParent    = errors.New("element exceeds its enclosing value")
	errConstructedNull  = errors.New("NULL must use the primitive encoding")
	errNullContent      = errors.New("NULL must not have content")
	errPrimitiveStruct  = errors.New("SEQUENCE and SET must use the constructed encoding")
	errUnsortedSet      = errors.New("SET elements are not in ascending order of their encodings")
	errInvalidInteger   = errors.New("der: invalid INTEGER encoding")
	errIntegerTooLarge  = errors.New("der: INTEGER too large")
	errInvalidBitString = errors.New("der: invalid BIT STRING encoding")
	errInvalidOID       = errors.New("der: invalid OBJECT IDENTIFIER")
	errInvalidIA5String = errors.New("der: IA5String contains non-ASCII characters")
)

// An EncodeError is returned when the ToValue method of an [Encodable] fails.
type EncodeError struct {
	Type string // Go type of the value
	Err  error
}

func (e *EncodeError) Error() string {
	return "der: cannot encode " + e.Type + ": " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error { return e.Err }

// A ShapeMismatchError is returned when a SEQUENCE has the wrong number of
// elements for a typed view, or when one of its elements cannot be converted to
// the type the view expects.
type ShapeMismatchError struct {
	Type string // name of the typed view

	// Min and Max are the expected bounds of the number of elements. Actual is
	// the number of elements present.
	Min, Max, Actual int

	// Field is the name of the element that could not be converted, if any. Err
	// holds the reason.
	Field string
	Err   error
}

func (e *ShapeMismatchError) Error() string {
	if e.Field != "" {
		return "der: shape mismatch decoding " + e.Type + ": field " + e.Field + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return "der: shape mismatch decoding " + e.Type + ": " + e.Err.Error()
	}
	b := []byte("der: shape mismatch decoding " + e.Type + ": expected ")
	b = strconv.AppendInt(b, int64(e.Min), 10)
	if e.Max != e.Min {
		b = strconv.AppendInt(append(b, " to "...), int64(e.Max), 10)
	}
	b = append(b, " elements, got "...)
	b = strconv.AppendInt(b, int64(e.Actual), 10)
	return string(b)
}

func (e *ShapeMismatchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrShapeMismatch) match any ShapeMismatchError.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// A TypeMismatchError is returned when a value is converted to a type it cannot
// represent, for example a primitive value to a typed view of a SEQUENCE.
type TypeMismatchError struct {
	Type string // name of the requested type
	Got  string // description of the value that was found
}

func (e *TypeMismatchError) Error() string {
	return "der: type mismatch decoding " + e.Type + ": got " + e.Got
}

// Is makes errors.Is(err, ErrTypeMismatch) match any TypeMismatchError.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// describe returns a short description of e for a [TypeMismatchError].
func describe(e Encodable) string {
	switch v := e.(type) {
	case nil:
		return "nil"
	case Value:
		if isNilValue(v) {
			return "nil " + typeName(e)
		}
		s := v.Tag().String() + " " + v.Kind().String()
		if name := v.Tag().TypeName(); name != "" {
			s += " (" + name + ")"
		}
		return s
	default:
		return typeName(e)
	}
}

func isNilValue(v Value) bool {
	switch v := v.(type) {
	case *Primitive:
		return v == nil
	case *Constructed:
		return v == nil
	}
	return false
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

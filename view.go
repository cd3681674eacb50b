// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"strconv"
)

// Shape describes the SEQUENCE underlying a typed view.
type Shape struct {
	// Name of the view, used in error messages.
	Name string

	// Fields holds the names of the elements in order.
	Fields []string

	// Required is the number of leading elements that must be present. The
	// remaining fields are optional. A value of 0 makes all fields required.
	Required int
}

func (s Shape) required() int {
	if s.Required <= 0 || s.Required > len(s.Fields) {
		return len(s.Fields)
	}
	return s.Required
}

// check verifies that seq has an acceptable number of elements.
func (s Shape) check(seq *Constructed) error {
	if n := seq.Len(); n < s.required() || n > len(s.Fields) {
		return &ShapeMismatchError{Type: s.Name, Min: s.required(), Max: len(s.Fields), Actual: n}
	}
	return nil
}

// FromValue implements the conversion of a value into the typed view T
// described by s:
//
//   - If e already is a T, it is returned unchanged.
//   - If e is a universal SEQUENCE with a number of elements allowed by s, build
//     is called to create the view. Errors returned by build are reported as a
//     [*ShapeMismatchError].
//   - Otherwise a [*TypeMismatchError] is returned.
//
// The build function should convert the elements using [Field] and store seq in
// the view so that its ToValue method can return seq itself.
func FromValue[T Encodable](e Encodable, s Shape, build func(seq *Constructed) (T, error)) (T, error) {
	if t, ok := e.(T); ok {
		return t, nil
	}
	var zero T
	seq, ok := e.(*Constructed)
	if !ok || seq == nil || seq.tag != sequenceTag {
		return zero, &TypeMismatchError{Type: s.Name, Got: describe(e)}
	}
	if err := s.check(seq); err != nil {
		return zero, err
	}
	t, err := build(seq)
	if err != nil {
		if errors.Is(err, ErrShapeMismatch) {
			return zero, err
		}
		return zero, &ShapeMismatchError{Type: s.Name, Min: s.required(), Max: len(s.Fields), Actual: seq.Len(), Err: err}
	}
	return t, nil
}

// Field converts the i-th element of seq using conv. If the conversion fails,
// the error is wrapped in a [*ShapeMismatchError] naming the field. If seq has
// no element at index i, the zero F and a nil error are returned, so optional
// trailing fields need no special handling.
func Field[F any](seq *Constructed, s Shape, i int, conv func(Encodable) (F, error)) (F, error) {
	var zero F
	if i >= seq.Len() {
		return zero, nil
	}
	f, err := conv(seq.At(i))
	if err != nil {
		name := "#" + strconv.Itoa(i)
		if i < len(s.Fields) {
			name = s.Fields[i]
		}
		return zero, &ShapeMismatchError{
			Type: s.Name, Min: s.required(), Max: len(s.Fields), Actual: seq.Len(),
			Field: name, Err: err,
		}
	}
	return f, nil
}

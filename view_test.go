// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"testing"

	"codello.dev/der/internal/testenv"
)

// pair is a typed view of SEQUENCE { name IA5String, count INTEGER, extra ANY OPTIONAL }.
type pair struct {
	seq   *Constructed
	name  IA5String
	count Integer
	extra Value
}

var pairShape = Shape{Name: "Pair", Fields: []string{"name", "count", "extra"}, Required: 2}

func newPair(name IA5String, count Integer) (*pair, error) {
	seq, err := NewSequence(name, count)
	if err != nil {
		return nil, err
	}
	return &pair{seq: seq, name: name, count: count}, nil
}

func pairFrom(e Encodable) (*pair, error) {
	return FromValue(e, pairShape, func(seq *Constructed) (*pair, error) {
		p := &pair{seq: seq}
		var err error
		if p.name, err = Field(seq, pairShape, 0, IA5StringFrom); err != nil {
			return nil, err
		}
		if p.count, err = Field(seq, pairShape, 1, IntegerFrom); err != nil {
			return nil, err
		}
		if seq.Len() > 2 {
			p.extra = seq.At(2)
		}
		return p, nil
	})
}

func (p *pair) ToValue() (Value, error) {
	if p == nil {
		return nil, nil
	}
	return p.seq, nil
}

func TestFromValue(t *testing.T) {
	assert, require := testenv.MakeAR(t)
	data := testenv.BytesFromHex("3008 1603616263 02012A")
	v, err := Unmarshal(data)
	require.NoError(err)

	p, err := pairFrom(v)
	require.NoError(err)
	assert.Equal(IA5String("abc"), p.name)
	assert.Equal(Integer(42), p.count)
	assert.Nil(p.extra)

	// the view keeps the original value
	pv, err := p.ToValue()
	require.NoError(err)
	assert.Same(v, pv)

	got, err := Marshal(p)
	require.NoError(err)
	assert.Equal(data, got)

	// identity short-circuit
	same, err := pairFrom(p)
	require.NoError(err)
	assert.Same(p, same)
}

func TestFromValue_Optional(t *testing.T) {
	assert, require := testenv.MakeAR(t)
	data := testenv.BytesFromHex("3008 160161 020101 0500")
	v, err := Unmarshal(data)
	require.NoError(err)

	p, err := pairFrom(v)
	require.NoError(err)
	if assert.NotNil(p.extra) {
		assert.True(p.extra.(*Primitive).IsNull())
	}
}

func TestFromValue_Idempotence(t *testing.T) {
	assert, require := testenv.MakeAR(t)
	p, err := newPair("key", 7)
	require.NoError(err)

	v, err := p.ToValue()
	require.NoError(err)
	want, err := Marshal(v)
	require.NoError(err)

	q, err := pairFrom(v)
	require.NoError(err)
	got, err := Marshal(q)
	require.NoError(err)
	assert.Equal(want, got)

	decoded, err := Unmarshal(want)
	require.NoError(err)
	r, err := pairFrom(decoded)
	require.NoError(err)
	got, err = Marshal(r)
	require.NoError(err)
	assert.Equal(want, got)
	assert.Equal(p.name, r.name)
	assert.Equal(p.count, r.count)
}

func TestFromValue_Errors(t *testing.T) {
	tests := map[string]struct {
		data      string
		wantErr   error
		wantField string
		wantCount int
	}{
		"OneElement":    {"3005 1603616263", ErrShapeMismatch, "", 1},
		"TooMany":       {"300A 160161 020101 0500 0500", ErrShapeMismatch, "", 4},
		"Empty":         {"3000", ErrShapeMismatch, "", 0},
		"WrongName":     {"3006 0401FF 020101", ErrShapeMismatch, "name", 2},
		"WrongCount":    {"3006 160161 0401FF", ErrShapeMismatch, "count", 2},
		"InvalidCount":  {"3007 160161 02020001", ErrShapeMismatch, "count", 2},
		"Primitive":     {"1603616263", ErrTypeMismatch, "", 0},
		"Set":           {"3106 020101 160161", ErrTypeMismatch, "", 0},
		"ContextTagged": {"A006 160161 020101", ErrTypeMismatch, "", 0},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert, require := testenv.MakeAR(t)
			v, err := Unmarshal(testenv.BytesFromHex(tc.data))
			require.NoError(err)

			p, err := pairFrom(v)
			assert.Nil(p)
			require.ErrorIs(err, tc.wantErr)

			var shapeErr *ShapeMismatchError
			if errors.As(err, &shapeErr) {
				assert.Equal("Pair", shapeErr.Type)
				assert.Equal(tc.wantField, shapeErr.Field)
				assert.Equal(tc.wantCount, shapeErr.Actual)
				assert.Equal(2, shapeErr.Min)
				assert.Equal(3, shapeErr.Max)
			} else {
				var typeErr *TypeMismatchError
				require.ErrorAs(err, &typeErr)
				assert.Equal("Pair", typeErr.Type)
			}
		})
	}
}

func TestFromValue_NotAValue(t *testing.T) {
	tests := map[string]Encodable{
		"Nil":            nil,
		"NilConstructed": (*Constructed)(nil),
		"Leaf":           IA5String("abc"),
		"Null":           Null{},
	}
	for name, e := range tests {
		t.Run(name, func(t *testing.T) {
			assert, _ := testenv.MakeAR(t)
			_, err := pairFrom(e)
			assert.ErrorIs(err, ErrTypeMismatch)
			assert.NotErrorIs(err, ErrShapeMismatch)
		})
	}
}

func TestShapeMismatchError_Error(t *testing.T) {
	tests := map[string]struct {
		err  *ShapeMismatchError
		want string
	}{
		"Count": {
			&ShapeMismatchError{Type: "PublicKeyAndChallenge", Min: 2, Max: 2, Actual: 1},
			"der: shape mismatch decoding PublicKeyAndChallenge: expected 2 elements, got 1",
		},
		"Range": {
			&ShapeMismatchError{Type: "AlgorithmIdentifier", Min: 1, Max: 2, Actual: 3},
			"der: shape mismatch decoding AlgorithmIdentifier: expected 1 to 2 elements, got 3",
		},
		"Field": {
			&ShapeMismatchError{Type: "Pair", Field: "count", Err: &TypeMismatchError{Type: "INTEGER", Got: "[UNIVERSAL 4] Primitive (OCTET STRING)"}},
			"der: shape mismatch decoding Pair: field count: der: type mismatch decoding INTEGER: got [UNIVERSAL 4] Primitive (OCTET STRING)",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert, _ := testenv.MakeAR(t)
			assert.Equal(tc.want, tc.err.Error())
		})
	}
}

// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"errors"
	"testing"

	"codello.dev/der/internal/testenv"
	"codello.dev/der/tlv"
)

// failingEncodable returns err from ToValue.
type failingEncodable struct{ err error }

func (f failingEncodable) ToValue() (Value, error) { return nil, f.err }

// nilValue returns a nil Value without an error.
type nilValue struct{}

func (nilValue) ToValue() (Value, error) { return nil, nil }

func TestMarshal(t *testing.T) {
	mustSeq := func(elems ...Encodable) *Constructed {
		seq, err := NewSequence(elems...)
		if err != nil {
			t.Fatalf("NewSequence() error = %v", err)
		}
		return seq
	}
	mustSet := func(elems ...Encodable) *Constructed {
		set, err := NewSet(elems...)
		if err != nil {
			t.Fatalf("NewSet() error = %v", err)
		}
		return set
	}

	tests := map[string]struct {
		v    Encodable
		want string
	}{
		"Nil":              {nil, "0500"},
		"NilPrimitive":     {(*Primitive)(nil), "0500"},
		"NilConstructed":   {(*Constructed)(nil), "0500"},
		"NilValue":         {nilValue{}, "0500"},
		"Null":             {Null{}, "0500"},
		"NullPrimitive":    {NewPrimitive(nullTag, nil), "0500"},
		"IntegerZero":      {Integer(0), "020100"},
		"Integer127":       {Integer(127), "02017F"},
		"Integer128":       {Integer(128), "02020080"},
		"IntegerMinus128":  {Integer(-128), "020180"},
		"IntegerMinus129":  {Integer(-129), "0202FF7F"},
		"OctetString":      {OctetString("abc"), "0403616263"},
		"IA5String":        {IA5String("abc"), "1603616263"},
		"BitString":        {BitString{Bytes: []byte{0xFF}, BitLength: 3}, "030205E0"},
		"BitStringEmpty":   {BitString{}, "030100"},
		"OID":              {ObjectIdentifier{1, 3, 101, 112}, "06032B6570"},
		"OIDLargeSecond":   {ObjectIdentifier{2, 999, 3}, "0603883703"},
		"EmptySequence":    {mustSeq(), "3000"},
		"SequenceWithNull": {mustSeq(nil), "30020500"},
		"Nested":           {mustSeq(Integer(1), mustSeq(IA5String("a"))), "3008 020101 3003 160161"},
		"SetOrdered":       {mustSet(IA5String("b"), Integer(5), Null{}), "3108 020105 0500 160162"},
		"SequenceKeepsOrder": {
			mustSeq(IA5String("b"), Integer(5), Null{}), "3008 160162 020105 0500",
		},
		"HighTag": {
			NewConstructed(Tag{ClassContextSpecific, 40}, NewPrimitive(Universal(TagInteger), []byte{1})),
			"BF28 03 020101",
		},
		"Application": {NewPrimitive(Tag{ClassApplication, 3}, []byte{0xAA}), "4301AA"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert, require := testenv.MakeAR(t)
			got, err := Marshal(tc.v)
			require.NoError(err)
			testenv.HexEqual(assert, tc.want, got)

			var buf bytes.Buffer
			require.NoError(NewEncoder(&buf).Encode(tc.v))
			assert.Equal(got, buf.Bytes())

			if v, err := toValue(tc.v); assert.NoError(err) {
				assert.Equal(len(got), v.EncodedLen())
			}
		})
	}
}

func TestMarshal_LongLength(t *testing.T) {
	assert, require := testenv.MakeAR(t)
	content := bytes.Repeat([]byte{0x42}, 200)
	got, err := Marshal(OctetString(content))
	require.NoError(err)
	assert.Equal([]byte{0x04, 0x81, 0xC8}, got[:3])
	assert.Equal(content, got[3:])
	assert.Equal(203, NewPrimitive(Universal(TagOctetString), content).EncodedLen())
}

func TestMarshal_Errors(t *testing.T) {
	invalid := errors.New("invalid state")
	tests := map[string]struct {
		v          Encodable
		opts       []tlv.Option
		wantErr    error
		wantEncErr bool
	}{
		"ToValue":     {failingEncodable{invalid}, nil, invalid, true},
		"InvalidIA5":  {IA5String("grüße"), nil, errInvalidIA5String, true},
		"InvalidOID":  {ObjectIdentifier{3, 1}, nil, errInvalidOID, true},
		"InvalidBits": {BitString{Bytes: nil, BitLength: 9}, nil, errInvalidBitString, true},
		"LengthOverflow": {
			OctetString(make([]byte, 256)),
			[]tlv.Option{tlv.WithLimits(tlv.Limits{MaxLengthOctets: 1})},
			tlv.ErrOverflow, false,
		},
		"TagOverflow": {
			NewPrimitive(Tag{ClassPrivate, 1 << 14}, nil),
			[]tlv.Option{tlv.WithLimits(tlv.Limits{MaxTagOctets: 1})},
			tlv.ErrOverflow, false,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert, _ := testenv.MakeAR(t)
			_, err := Marshal(tc.v, tc.opts...)
			assert.ErrorIs(err, tc.wantErr)

			var encErr *EncodeError
			assert.Equal(tc.wantEncErr, errors.As(err, &encErr))
		})
	}
}

func TestNewSequence_Error(t *testing.T) {
	assert, _ := testenv.MakeAR(t)
	invalid := errors.New("invalid state")
	_, err := NewSequence(Integer(1), failingEncodable{invalid})
	assert.ErrorIs(err, invalid)
	var encErr *EncodeError
	if assert.ErrorAs(err, &encErr) {
		assert.Equal("der.failingEncodable", encErr.Type)
	}
}

func TestNewConstructed_NilElements(t *testing.T) {
	assert, require := testenv.MakeAR(t)
	seq := NewConstructed(sequenceTag, nil, (*Constructed)(nil), (*Primitive)(nil))
	require.Equal(3, seq.Len())
	for _, el := range seq.All() {
		assert.Same(null, el)
	}
	got, err := Marshal(seq)
	require.NoError(err)
	testenv.HexEqual(assert, "3006 0500 0500 0500", got)
}

func TestEncoder_IOError(t *testing.T) {
	assert, _ := testenv.MakeAR(t)
	seq, err := NewSequence(Integer(1), IA5String("x"))
	assert.NoError(err)

	broken := errors.New("broken pipe")
	err = NewEncoder(errWriter{broken}).Encode(seq)
	assert.ErrorIs(err, broken)
	assert.True(tlv.IsIOError(err))
}

type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func TestEncoder_Sequential(t *testing.T) {
	assert, require := testenv.MakeAR(t)
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(enc.Encode(Integer(1)))
	require.NoError(enc.Encode(nil))
	require.NoError(enc.Encode(IA5String("hi")))
	testenv.HexEqual(assert, "020101 0500 16026869", buf.Bytes())
}

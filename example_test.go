// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der_test

import (
	"fmt"

	"codello.dev/der"
)

func ExampleTag_String() {
	t1 := der.Tag{Class: der.ClassApplication, Number: 17}
	t2 := der.Tag{Class: der.ClassContextSpecific, Number: 8}
	t3 := der.Universal(der.TagInteger)
	fmt.Println(t1.String())
	fmt.Println(t2.String())
	fmt.Println(t3.String())
	// Output:
	// [APPLICATION 17]
	// [8]
	// [UNIVERSAL 2]
}

func ExampleMarshal() {
	seq, err := der.NewSequence(der.IA5String("abc"), der.Integer(42), nil)
	if err != nil {
		panic(err)
	}
	b, err := der.Marshal(seq)
	if err != nil {
		panic(err)
	}
	fmt.Printf("% X\n", b)
	// Output:
	// 30 0A 16 03 61 62 63 02 01 2A 05 00
}

func ExampleUnmarshal() {
	v, err := der.Unmarshal([]byte{0x30, 0x06, 0x16, 0x01, 0x61, 0x02, 0x01, 0x2A})
	if err != nil {
		panic(err)
	}
	seq := v.(*der.Constructed)
	for i, el := range seq.All() {
		fmt.Println(i, el.Tag(), el.Tag().TypeName())
	}
	// Output:
	// 0 [UNIVERSAL 22] IA5String
	// 1 [UNIVERSAL 2] INTEGER
}

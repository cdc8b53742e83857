// Package datatype implements the typed fields that frame bodies are made of.
package datatype

import (
	"bytes"
	"fmt"
	"slices"
)

// Kind identifies the type carried by a Value
type Kind int

const (
	KindInt Kind = iota + 1
	KindUint
	KindBool
	KindChar
	KindFloat
	KindString
	KindBytes
	KindBools
	KindInts
	KindUints
	KindFloats
	KindStrings
)

var kindNames = map[Kind]string{
	KindInt:     "int",
	KindUint:    "uint",
	KindBool:    "bool",
	KindChar:    "char",
	KindFloat:   "float",
	KindString:  "string",
	KindBytes:   "bytes",
	KindBools:   "[]bool",
	KindInts:    "[]int",
	KindUints:   "[]uint",
	KindFloats:  "[]float",
	KindStrings: "[]string",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is the content of a field. The set of implementations is closed:
// only the types declared in this file satisfy it.
type Value interface {
	Kind() Kind
	value()
}

type (
	Int     int64
	Uint    uint64
	Bool    bool
	Char    rune
	Float   float64
	String  string
	Bytes   []byte
	Bools   []bool
	Ints    []int64
	Uints   []uint64
	Floats  []float64
	Strings []string
)

func (Int) Kind() Kind     { return KindInt }
func (Uint) Kind() Kind    { return KindUint }
func (Bool) Kind() Kind    { return KindBool }
func (Char) Kind() Kind    { return KindChar }
func (Float) Kind() Kind   { return KindFloat }
func (String) Kind() Kind  { return KindString }
func (Bytes) Kind() Kind   { return KindBytes }
func (Bools) Kind() Kind   { return KindBools }
func (Ints) Kind() Kind    { return KindInts }
func (Uints) Kind() Kind   { return KindUints }
func (Floats) Kind() Kind  { return KindFloats }
func (Strings) Kind() Kind { return KindStrings }

func (Int) value()     {}
func (Uint) value()    {}
func (Bool) value()    {}
func (Char) value()    {}
func (Float) value()   {}
func (String) value()  {}
func (Bytes) value()   {}
func (Bools) value()   {}
func (Ints) value()    {}
func (Uints) value()   {}
func (Floats) value()  {}
func (Strings) value() {}

// Clone returns a copy of v that shares no backing arrays with it.
func Clone(v Value) (Value, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Int, Uint, Bool, Char, Float, String:
		return t, nil
	case Bytes:
		return slices.Clone(t), nil
	case Bools:
		return slices.Clone(t), nil
	case Ints:
		return slices.Clone(t), nil
	case Uints:
		return slices.Clone(t), nil
	case Floats:
		return slices.Clone(t), nil
	case Strings:
		return slices.Clone(t), nil
	}
	return nil, &UnsupportedKindError{Kind: v.Kind()}
}

// Equal compares two values. Array kinds are compared element by element.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Bytes:
		y, ok := b.(Bytes)
		return ok && bytes.Equal(x, y)
	case Bools:
		y, ok := b.(Bools)
		return ok && slices.Equal(x, y)
	case Ints:
		y, ok := b.(Ints)
		return ok && slices.Equal(x, y)
	case Uints:
		y, ok := b.(Uints)
		return ok && slices.Equal(x, y)
	case Floats:
		y, ok := b.(Floats)
		return ok && slices.Equal(x, y)
	case Strings:
		y, ok := b.(Strings)
		return ok && slices.Equal(x, y)
	}
	switch b.(type) {
	case Bytes, Bools, Ints, Uints, Floats, Strings:
		return false
	}
	return a == b
}

package datatype

import (
	"bytes"
	"fmt"
)

func asString(v Value) (string, error) {
	switch s := v.(type) {
	case String:
		return string(s), nil
	case nil:
		return "", nil
	}
	return "", &TypeError{Want: KindString, Got: v}
}

// terminator returns the index of the first aligned null unit at or after
// offset, or -1.
func terminator(buf []byte, offset, width int) int {
	for i := offset; i+width <= len(buf); i += width {
		if buf[i] == 0 && (width == 1 || buf[i+1] == 0) {
			return i
		}
	}
	return -1
}

func pickEncoding(latin1 bool, f *Field) TextEncoding {
	if latin1 {
		return ISO88591
	}
	return f.Encoding()
}

// NullTerminatedString ends at the first null unit of the body's text
// encoding, or at the end of the budget when there is none. Latin1 fields
// ignore the body's encoding.
type NullTerminatedString struct {
	Latin1 bool
}

func (c NullTerminatedString) Zero() Value            { return String("") }
func (c NullTerminatedString) usesTextEncoding() bool { return !c.Latin1 }

func (c NullTerminatedString) Decode(f *Field, buf []byte, offset int) (int, error) {
	if err := restBounds(buf, offset); err != nil {
		return 0, err
	}
	enc := pickEncoding(c.Latin1, f)
	end, consumed := len(buf), len(buf)-offset
	if i := terminator(buf, offset, enc.Width()); i >= 0 {
		end, consumed = i, i-offset+enc.Width()
	}
	s, err := enc.Decode(buf[offset:end])
	if err != nil {
		return 0, err
	}
	f.Value = String(s)
	return consumed, nil
}

func (c NullTerminatedString) Encode(f *Field) ([]byte, error) {
	s, err := asString(f.Value)
	if err != nil {
		return nil, err
	}
	enc := pickEncoding(c.Latin1, f)
	b, err := enc.Encode(s)
	if err != nil {
		return nil, err
	}
	return append(b, make([]byte, enc.Width())...), nil
}

// SizeTerminatedString takes every remaining byte of the budget. A single
// trailing null unit is dropped on decode.
type SizeTerminatedString struct {
	Latin1 bool
}

func (c SizeTerminatedString) Zero() Value            { return String("") }
func (c SizeTerminatedString) usesTextEncoding() bool { return !c.Latin1 }

func (c SizeTerminatedString) Decode(f *Field, buf []byte, offset int) (int, error) {
	if err := restBounds(buf, offset); err != nil {
		return 0, err
	}
	enc := pickEncoding(c.Latin1, f)
	rest := trimTerminator(buf[offset:], enc.Width())
	s, err := enc.Decode(rest)
	if err != nil {
		return 0, err
	}
	f.Value = String(s)
	return len(buf) - offset, nil
}

func (c SizeTerminatedString) Encode(f *Field) ([]byte, error) {
	s, err := asString(f.Value)
	if err != nil {
		return nil, err
	}
	return pickEncoding(c.Latin1, f).Encode(s)
}

func trimTerminator(b []byte, width int) []byte {
	if len(b) >= width && len(b)%width == 0 && bytes.Equal(b[len(b)-width:], make([]byte, width)) {
		return b[:len(b)-width]
	}
	return b
}

// NullTerminatedStrings is a list of null separated strings running to the
// end of the budget, as used by multi-valued text frames.
type NullTerminatedStrings struct{}

func (NullTerminatedStrings) Zero() Value            { return Strings{} }
func (NullTerminatedStrings) usesTextEncoding() bool { return true }

func (NullTerminatedStrings) Decode(f *Field, buf []byte, offset int) (int, error) {
	if err := restBounds(buf, offset); err != nil {
		return 0, err
	}
	enc := f.Encoding()
	w := enc.Width()
	var list Strings
	for pos := offset; pos < len(buf); {
		end, next := len(buf), len(buf)
		if i := terminator(buf, pos, w); i >= 0 {
			end, next = i, i+w
		}
		s, err := enc.Decode(buf[pos:end])
		if err != nil {
			return 0, err
		}
		list = append(list, s)
		pos = next
	}
	if list == nil {
		list = Strings{}
	}
	f.Value = list
	return len(buf) - offset, nil
}

func (NullTerminatedStrings) Encode(f *Field) ([]byte, error) {
	var list Strings
	switch v := f.Value.(type) {
	case Strings:
		list = v
	case String:
		list = Strings{string(v)}
	case nil:
	default:
		return nil, &TypeError{Want: KindStrings, Got: f.Value}
	}
	enc := f.Encoding()
	var out []byte
	for i, s := range list {
		if i > 0 {
			out = append(out, make([]byte, enc.Width())...)
		}
		b, err := enc.Encode(s)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// FixedString is exactly Size ISO-8859-1 bytes, null padded. Names
// optionally lists the known values (language codes and the like).
type FixedString struct {
	Size  int
	Names map[string]string
}

func (c FixedString) Zero() Value { return String("") }

func (c FixedString) Decode(f *Field, buf []byte, offset int) (int, error) {
	if c.Size <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, c.Size)
	}
	if err := bounds(buf, offset, c.Size); err != nil {
		return 0, err
	}
	s, err := ISO88591.Decode(bytes.TrimRight(buf[offset:offset+c.Size], "\x00"))
	if err != nil {
		return 0, err
	}
	f.Value = String(s)
	return c.Size, nil
}

func (c FixedString) Encode(f *Field) ([]byte, error) {
	s, err := asString(f.Value)
	if err != nil {
		return nil, err
	}
	b, err := ISO88591.Encode(s)
	if err != nil {
		return nil, err
	}
	if len(b) > c.Size {
		return nil, fmt.Errorf("datatype: %q is longer than %d bytes", s, c.Size)
	}
	return append(b, make([]byte, c.Size-len(b))...), nil
}

// Known reports whether s is one of the enumerated values
func (c FixedString) Known(s string) bool {
	_, ok := c.Names[s]
	return ok
}

// Character is a single ISO-8859-1 byte
type Character struct{}

func (Character) Zero() Value { return Char(' ') }

func (Character) Decode(f *Field, buf []byte, offset int) (int, error) {
	if err := bounds(buf, offset, 1); err != nil {
		return 0, err
	}
	f.Value = Char(rune(buf[offset]))
	return 1, nil
}

func (Character) Encode(f *Field) ([]byte, error) {
	c, ok := f.Value.(Char)
	if !ok {
		return nil, &TypeError{Want: KindChar, Got: f.Value}
	}
	if c < 0 || c > 0xFF {
		return nil, fmt.Errorf("datatype: character %q outside ISO-8859-1", rune(c))
	}
	return []byte{byte(c)}, nil
}

// BooleanString is a one byte '1' or '0' flag
type BooleanString struct{}

func (BooleanString) Zero() Value { return Bool(false) }

func (BooleanString) Decode(f *Field, buf []byte, offset int) (int, error) {
	if err := bounds(buf, offset, 1); err != nil {
		return 0, err
	}
	f.Value = Bool(buf[offset] == '1')
	return 1, nil
}

func (BooleanString) Encode(f *Field) ([]byte, error) {
	switch b := f.Value.(type) {
	case Bool:
		if b {
			return []byte{'1'}, nil
		}
		return []byte{'0'}, nil
	case nil:
		return []byte{'0'}, nil
	}
	return nil, &TypeError{Want: KindBool, Got: f.Value}
}

// SizeTerminatedBytes takes every remaining byte of the budget
type SizeTerminatedBytes struct{}

func (SizeTerminatedBytes) Zero() Value { return Bytes{} }

func (SizeTerminatedBytes) Decode(f *Field, buf []byte, offset int) (int, error) {
	if err := restBounds(buf, offset); err != nil {
		return 0, err
	}
	f.Value = Bytes(append([]byte{}, buf[offset:]...))
	return len(buf) - offset, nil
}

func (SizeTerminatedBytes) Encode(f *Field) ([]byte, error) {
	switch b := f.Value.(type) {
	case Bytes:
		return append([]byte{}, b...), nil
	case nil:
		return []byte{}, nil
	}
	return nil, &TypeError{Want: KindBytes, Got: f.Value}
}

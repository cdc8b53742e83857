package datatype

import (
	"encoding/binary"
	"fmt"
	"math"
)

// bounds checks that size bytes can be read from buf at offset
func bounds(buf []byte, offset, size int) error {
	if offset < 0 || offset >= len(buf) {
		return fmt.Errorf("%w: offset = %d, length = %d", ErrOffsetOutOfRange, offset, len(buf))
	}
	if offset+size > len(buf) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, size, len(buf)-offset)
	}
	return nil
}

// restBounds checks offset for codecs that consume the rest of the budget;
// an offset at the very end leaves them empty.
func restBounds(buf []byte, offset int) error {
	if offset < 0 || offset > len(buf) {
		return fmt.Errorf("%w: offset = %d, length = %d", ErrOffsetOutOfRange, offset, len(buf))
	}
	return nil
}

func asUint(v Value) (uint64, error) {
	switch n := v.(type) {
	case Uint:
		return uint64(n), nil
	case Int:
		if n < 0 {
			return 0, fmt.Errorf("datatype: negative value %d for unsigned field", n)
		}
		return uint64(n), nil
	case nil:
		return 0, nil
	}
	return 0, &TypeError{Want: KindUint, Got: v}
}

// FixedNumber is an unsigned big-endian number of exactly Size bytes.
// Names optionally maps known values to descriptions.
type FixedNumber struct {
	Size  int
	Names map[uint64]string
}

func (c FixedNumber) Zero() Value { return Uint(0) }

func (c FixedNumber) check() error {
	if c.Size <= 0 || c.Size > 8 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, c.Size)
	}
	return nil
}

func (c FixedNumber) Decode(f *Field, buf []byte, offset int) (int, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	if err := bounds(buf, offset, c.Size); err != nil {
		return 0, err
	}
	var v uint64
	for _, b := range buf[offset : offset+c.Size] {
		v = v<<8 | uint64(b)
	}
	f.Value = Uint(v)
	return c.Size, nil
}

func (c FixedNumber) Encode(f *Field) ([]byte, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	v, err := asUint(f.Value)
	if err != nil {
		return nil, err
	}
	if c.Size < 8 && v>>(8*uint(c.Size)) != 0 {
		return nil, fmt.Errorf("datatype: value %d does not fit in %d bytes", v, c.Size)
	}
	out := make([]byte, c.Size)
	for i := c.Size - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out, nil
}

// Name returns the enumeration name of v, if any
func (c FixedNumber) Name(v uint64) (string, bool) {
	s, ok := c.Names[v]
	return s, ok
}

// SignedNumber is a two's complement big-endian number of Size bytes
type SignedNumber struct {
	Size int
}

func (c SignedNumber) Zero() Value { return Int(0) }

func (c SignedNumber) Decode(f *Field, buf []byte, offset int) (int, error) {
	u := FixedNumber{Size: c.Size}
	tmp := &Field{ID: f.ID}
	n, err := u.Decode(tmp, buf, offset)
	if err != nil {
		return 0, err
	}
	shift := uint(64 - 8*c.Size)
	f.Value = Int(int64(uint64(tmp.Value.(Uint))<<shift) >> shift)
	return n, nil
}

func (c SignedNumber) Encode(f *Field) ([]byte, error) {
	if c.Size <= 0 || c.Size > 8 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, c.Size)
	}
	var v int64
	switch n := f.Value.(type) {
	case Int:
		v = int64(n)
	case nil:
	default:
		return nil, &TypeError{Want: KindInt, Got: f.Value}
	}
	if c.Size < 8 {
		limit := int64(1) << (8*uint(c.Size) - 1)
		if v < -limit || v >= limit {
			return nil, fmt.Errorf("datatype: value %d does not fit in %d bytes", v, c.Size)
		}
	}
	out := make([]byte, c.Size)
	u := uint64(v)
	for i := c.Size - 1; i >= 0; i-- {
		out[i] = byte(u)
		u >>= 8
	}
	return out, nil
}

// VariableNumber is an unsigned number that takes the rest of the budget,
// written with at least MinSize bytes (play counters).
type VariableNumber struct {
	MinSize int
}

func (c VariableNumber) Zero() Value { return Uint(0) }

func (c VariableNumber) Decode(f *Field, buf []byte, offset int) (int, error) {
	if err := restBounds(buf, offset); err != nil {
		return 0, err
	}
	rest := buf[offset:]
	if len(rest) < c.MinSize {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, c.MinSize, len(rest))
	}
	if len(rest) > 8 {
		return 0, fmt.Errorf("datatype: %d byte counter overflows uint64", len(rest))
	}
	var v uint64
	for _, b := range rest {
		v = v<<8 | uint64(b)
	}
	f.Value = Uint(v)
	return len(rest), nil
}

func (c VariableNumber) Encode(f *Field) ([]byte, error) {
	v, err := asUint(f.Value)
	if err != nil {
		return nil, err
	}
	var out []byte
	for ; v != 0; v >>= 8 {
		out = append([]byte{byte(v)}, out...)
	}
	for len(out) < c.MinSize {
		out = append([]byte{0}, out...)
	}
	return out, nil
}

// FixedFloat is an IEEE-754 big-endian float of 4 or 8 bytes
type FixedFloat struct {
	Size int
}

func (c FixedFloat) Zero() Value { return Float(0) }

func (c FixedFloat) Decode(f *Field, buf []byte, offset int) (int, error) {
	if c.Size != 4 && c.Size != 8 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, c.Size)
	}
	if err := bounds(buf, offset, c.Size); err != nil {
		return 0, err
	}
	if c.Size == 4 {
		f.Value = Float(math.Float32frombits(binary.BigEndian.Uint32(buf[offset:])))
	} else {
		f.Value = Float(math.Float64frombits(binary.BigEndian.Uint64(buf[offset:])))
	}
	return c.Size, nil
}

func (c FixedFloat) Encode(f *Field) ([]byte, error) {
	var v float64
	switch n := f.Value.(type) {
	case Float:
		v = float64(n)
	case nil:
	default:
		return nil, &TypeError{Want: KindFloat, Got: f.Value}
	}
	switch c.Size {
	case 4:
		return binary.BigEndian.AppendUint32(nil, math.Float32bits(float32(v))), nil
	case 8:
		return binary.BigEndian.AppendUint64(nil, math.Float64bits(v)), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidSize, c.Size)
}

// BitFlags exposes Size bytes as booleans, most significant bit first
type BitFlags struct {
	Size int
}

func (c BitFlags) Zero() Value { return make(Bools, 8*c.Size) }

func (c BitFlags) Decode(f *Field, buf []byte, offset int) (int, error) {
	if c.Size <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, c.Size)
	}
	if err := bounds(buf, offset, c.Size); err != nil {
		return 0, err
	}
	bits := make(Bools, 0, 8*c.Size)
	for _, b := range buf[offset : offset+c.Size] {
		for i := 7; i >= 0; i-- {
			bits = append(bits, b&(1<<uint(i)) != 0)
		}
	}
	f.Value = bits
	return c.Size, nil
}

func (c BitFlags) Encode(f *Field) ([]byte, error) {
	bits, ok := f.Value.(Bools)
	if !ok {
		return nil, &TypeError{Want: KindBools, Got: f.Value}
	}
	if len(bits) != 8*c.Size {
		return nil, fmt.Errorf("datatype: %d flags for %d bytes", len(bits), c.Size)
	}
	out := make([]byte, c.Size)
	for i, set := range bits {
		if set {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out, nil
}

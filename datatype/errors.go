package datatype

import (
	"errors"
	"fmt"
)

var (
	ErrOffsetOutOfRange = errors.New("datatype: offset out of range")
	ErrShortBuffer      = errors.New("datatype: buffer too short for field")
	ErrInvalidSize      = errors.New("datatype: invalid field size")
	ErrNoSuchField      = errors.New("datatype: no such field")
)

// DecodeError reports which field of a body failed to decode
type DecodeError struct {
	Field  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("datatype: decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports which field of a body failed to encode
type EncodeError struct {
	Field string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("datatype: encode %s: %v", e.Field, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// UnsupportedKindError is returned when a value of a kind this package does
// not know how to copy is met.
type UnsupportedKindError struct {
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("datatype: unsupported value kind %s", e.Kind)
}

// TypeError is returned when a codec is handed a value of the wrong kind
type TypeError struct {
	Want Kind
	Got  Value
}

func (e *TypeError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("datatype: expected %s value, got nil", e.Want)
	}
	return fmt.Sprintf("datatype: expected %s value, got %s", e.Want, e.Got.Kind())
}

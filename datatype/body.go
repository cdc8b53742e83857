package datatype

import (
	"fmt"
	"strings"
)

// TextEncodingField is the field id text codecs consult for their encoding
const TextEncodingField = "TextEncoding"

// Codec decodes a field from a frame budget and encodes it back.
// Decode returns the number of bytes consumed starting at offset.
type Codec interface {
	Decode(f *Field, buf []byte, offset int) (int, error)
	Encode(f *Field) ([]byte, error)
	Zero() Value
}

// textCodec is implemented by codecs whose bytes follow the body's text encoding
type textCodec interface {
	usesTextEncoding() bool
}

// Spec declares one field of a body
type Spec struct {
	ID      string
	Codec   Codec
	Default Value
}

// Field is one typed value inside a body
type Field struct {
	ID    string
	Codec Codec
	Value Value
	body  *Body
}

// Body returns the body that owns f
func (f *Field) Body() *Body { return f.body }

// Encoding returns the text encoding in effect for f
func (f *Field) Encoding() TextEncoding {
	if f.body == nil {
		return ISO88591
	}
	return f.body.TextEncoding()
}

// Decode reads f from buf at offset and returns how many bytes it used.
func (f *Field) Decode(buf []byte, offset int) (int, error) {
	n, err := f.Codec.Decode(f, buf, offset)
	if err != nil {
		return 0, &DecodeError{Field: f.ID, Offset: offset, Err: err}
	}
	return n, nil
}

func (f *Field) Encode() ([]byte, error) {
	b, err := f.Codec.Encode(f)
	if err != nil {
		return nil, &EncodeError{Field: f.ID, Err: err}
	}
	return b, nil
}

// Size is the encoded length of f
func (f *Field) Size() (int, error) {
	b, err := f.Encode()
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// Body is the ordered list of fields that make up a frame body
type Body struct {
	id          string
	fields      []*Field
	unsupported bool
}

// NewBody builds a body with every field set to its default value
func NewBody(id string, specs []Spec) *Body {
	b := &Body{id: id, fields: make([]*Field, 0, len(specs))}
	for _, s := range specs {
		v := s.Default
		if v == nil {
			v = s.Codec.Zero()
		} else {
			v, _ = Clone(v)
		}
		b.fields = append(b.fields, &Field{ID: s.ID, Codec: s.Codec, Value: v, body: b})
	}
	return b
}

// NewUnsupportedBody wraps bytes of a body that could not be decoded. The
// bytes are written back unchanged.
func NewUnsupportedBody(id string, raw []byte) *Body {
	b := NewBody(id, []Spec{{ID: "Data", Codec: SizeTerminatedBytes{}}})
	b.fields[0].Value = Bytes(append([]byte(nil), raw...))
	b.unsupported = true
	return b
}

func (b *Body) ID() string { return b.id }

// Unsupported reports whether b is an opaque placeholder
func (b *Body) Unsupported() bool { return b.unsupported }

func (b *Body) Fields() []*Field { return b.fields }

// Field returns the field with id, or nil
func (b *Body) Field(id string) *Field {
	for _, f := range b.fields {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Value returns the value of field id, or nil
func (b *Body) Value(id string) Value {
	if f := b.Field(id); f != nil {
		return f.Value
	}
	return nil
}

func (b *Body) SetValue(id string, v Value) error {
	f := b.Field(id)
	if f == nil {
		return fmt.Errorf("%w: %s in %s", ErrNoSuchField, id, b.id)
	}
	f.Value = v
	return nil
}

// Text returns a string or string list field as text; lists are joined
// with "; ".
func (b *Body) Text(id string) string {
	switch v := b.Value(id).(type) {
	case String:
		return string(v)
	case Strings:
		return strings.Join(v, "; ")
	}
	return ""
}

// TextEncoding returns the body's text encoding, ISO-8859-1 when the body
// has no encoding field.
func (b *Body) TextEncoding() TextEncoding {
	switch v := b.Value(TextEncodingField).(type) {
	case Uint:
		return TextEncoding(v)
	case Int:
		return TextEncoding(v)
	}
	return ISO88591
}

// SetTextEncoding changes the encoding field, if the body has one
func (b *Body) SetTextEncoding(e TextEncoding) {
	if f := b.Field(TextEncodingField); f != nil {
		f.Value = Uint(e)
	}
}

// Decode fills every field from buf, which holds exactly the frame body.
func (b *Body) Decode(buf []byte) error {
	offset := 0
	for _, f := range b.fields {
		n, err := f.Decode(buf, offset)
		if err != nil {
			return err
		}
		offset += n
	}
	return nil
}

// Encode writes the fields in order. A body declared as ISO-8859-1 is
// switched to UTF-16 first if any of its text cannot be represented.
func (b *Body) Encode() ([]byte, error) {
	b.upgradeEncoding()
	var out []byte
	for _, f := range b.fields {
		fb, err := f.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, fb...)
	}
	return out, nil
}

func (b *Body) upgradeEncoding() {
	if b.Field(TextEncodingField) == nil || b.TextEncoding() != ISO88591 {
		return
	}
	for _, f := range b.fields {
		if tc, ok := f.Codec.(textCodec); !ok || !tc.usesTextEncoding() {
			continue
		}
		var texts []string
		switch v := f.Value.(type) {
		case String:
			texts = []string{string(v)}
		case Strings:
			texts = v
		}
		for _, s := range texts {
			if !ISO88591.CanEncode(s) {
				b.SetTextEncoding(UTF16)
				return
			}
		}
	}
}

// Size is the encoded length of the whole body
func (b *Body) Size() (int, error) {
	enc, err := b.Encode()
	if err != nil {
		return 0, err
	}
	return len(enc), nil
}

// Copy returns a deep copy whose fields point back at the new body
func (b *Body) Copy() (*Body, error) {
	c := &Body{id: b.id, unsupported: b.unsupported, fields: make([]*Field, 0, len(b.fields))}
	for _, f := range b.fields {
		v, err := Clone(f.Value)
		if err != nil {
			return nil, fmt.Errorf("copy %s.%s: %w", b.id, f.ID, err)
		}
		c.fields = append(c.fields, &Field{ID: f.ID, Codec: f.Codec, Value: v, body: c})
	}
	return c, nil
}

// Equal reports whether both bodies carry the same fields and values
func (b *Body) Equal(o *Body) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.id != o.id || b.unsupported != o.unsupported || len(b.fields) != len(o.fields) {
		return false
	}
	for i, f := range b.fields {
		g := o.fields[i]
		if f.ID != g.ID || !Equal(f.Value, g.Value) {
			return false
		}
	}
	return true
}

package datatype

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// TextEncoding is the encoding byte that leads text carrying frame bodies
type TextEncoding byte

const (
	ISO88591 TextEncoding = 0
	UTF16    TextEncoding = 1 // with byte order mark
	UTF16BE  TextEncoding = 2
	UTF8     TextEncoding = 3
)

// TextEncodingNames is the enumeration used for the text encoding field
var TextEncodingNames = map[uint64]string{
	uint64(ISO88591): "ISO-8859-1",
	uint64(UTF16):    "UTF-16",
	uint64(UTF16BE):  "UTF-16BE",
	uint64(UTF8):     "UTF-8",
}

func (e TextEncoding) String() string {
	if s, ok := TextEncodingNames[uint64(e)]; ok {
		return s
	}
	return fmt.Sprintf("TextEncoding(%d)", byte(e))
}

func (e TextEncoding) Valid() bool { return e <= UTF8 }

// Width is the size in bytes of one code unit, and so of the terminator
func (e TextEncoding) Width() int {
	if e == UTF16 || e == UTF16BE {
		return 2
	}
	return 1
}

func (e TextEncoding) codec() encoding.Encoding {
	switch e {
	case UTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case UTF8:
		return nil
	}
	return charmap.ISO8859_1
}

// Decode converts encoded bytes to a UTF-8 string
func (e TextEncoding) Decode(b []byte) (string, error) {
	if !e.Valid() {
		return "", fmt.Errorf("datatype: unknown text encoding %d", byte(e))
	}
	if len(b) == 0 {
		return "", nil
	}
	c := e.codec()
	if c == nil {
		return string(b), nil
	}
	out, err := c.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("datatype: decode %s: %w", e, err)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string to this encoding
func (e TextEncoding) Encode(s string) ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("datatype: unknown text encoding %d", byte(e))
	}
	c := e.codec()
	if c == nil {
		// UTF-8 text is kept as read, malformed bytes included
		return []byte(s), nil
	}
	if s == "" {
		if e == UTF16 {
			return []byte{0xFF, 0xFE}, nil
		}
		return []byte{}, nil
	}
	out, err := c.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("datatype: encode %s: %w", e, err)
	}
	return out, nil
}

// CanEncode reports whether s is representable in this encoding
func (e TextEncoding) CanEncode(s string) bool {
	_, err := e.Encode(s)
	return err == nil
}

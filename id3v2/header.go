package id3v2

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mikkyang/id3-go/encodedbytes"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

// HeaderSize is the length of the tag header, and of the v2.4 footer
const HeaderSize = 10

const (
	FlagUnsynchronisation byte = 0x80
	FlagExtendedHeader    byte = 0x40 // compression in v2.2
	FlagExperimental      byte = 0x20
	FlagFooter            byte = 0x10
)

// Header is the fixed ten byte header in front of every tag
type Header struct {
	Version  frames.Version
	Revision byte
	Flags    byte
	Size     int // bytes after the header, footer excluded
}

// ParseHeader decodes the header at the start of b. For a tag of an unknown
// version it returns the header along with ErrUnsupportedVersion, so the
// tag can still be skipped.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize || string(b[:3]) != "ID3" {
		return Header{}, ErrNoTag
	}
	h := Header{Version: frames.Version(b[3]), Revision: b[4], Flags: b[5]}
	size, err := encodedbytes.SynchInt(b[6:10])
	if err != nil {
		return Header{}, fmt.Errorf("id3v2: tag size: %w", err)
	}
	h.Size = int(size)
	if !h.Version.Valid() {
		return h, fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, b[3], b[4])
	}
	return h, nil
}

// ReadHeader reads the header at offset 0 of r
func ReadHeader(r io.ReaderAt) (Header, error) {
	b := make([]byte, HeaderSize)
	if _, err := r.ReadAt(b, 0); err != nil {
		if errors.Is(err, io.EOF) {
			return Header{}, ErrNoTag
		}
		return Header{}, fmt.Errorf("id3v2: read header: %w", err)
	}
	return ParseHeader(b)
}

// Bytes encodes the header
func (h Header) Bytes() []byte {
	b := make([]byte, 0, HeaderSize)
	b = append(b, "ID3"...)
	b = append(b, byte(h.Version), h.Revision, h.Flags)
	return append(b, encodedbytes.SynchBytes(uint32(h.Size))...)
}

// TagSize is the total length of the tag including header and footer
func (h Header) TagSize() int {
	n := HeaderSize + h.Size
	if h.Version == frames.V24 && h.Flags&FlagFooter != 0 {
		n += HeaderSize
	}
	return n
}

// extendedHeaderSize returns how many bytes of the tag body the extended
// header occupies.
func extendedHeaderSize(v frames.Version, body []byte) (int, error) {
	if len(body) < 4 {
		return 0, fmt.Errorf("id3v2: truncated extended header")
	}
	var n int
	switch v {
	case frames.V23:
		size, err := encodedbytes.NormInt(body[:4])
		if err != nil {
			return 0, err
		}
		n = int(size) + 4
	case frames.V24:
		size, err := encodedbytes.SynchInt(body[:4])
		if err != nil {
			return 0, err
		}
		n = int(size)
	default:
		return 0, nil
	}
	if n > len(body) {
		return 0, fmt.Errorf("id3v2: extended header of %d bytes overruns tag", n)
	}
	return n, nil
}

// resync reverses unsynchronisation: every 0xFF 0x00 becomes 0xFF
func resync(b []byte) []byte {
	if !bytes.Contains(b, []byte{0xFF, 0x00}) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}

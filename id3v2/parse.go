package id3v2

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/mikkyang/id3-go/encodedbytes"
	"github.com/zhangxincheng/fork-jaudiotagger/datatype"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

// ReadFrom reads a tag from the start of r
func ReadFrom(r io.Reader) (*Tag, error) {
	head := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrNoTag
		}
		return nil, fmt.Errorf("id3v2: read header: %w", err)
	}
	h, err := ParseHeader(head)
	if err != nil {
		return nil, err
	}
	body := make([]byte, h.Size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("id3v2: read %d byte tag: %w", h.Size, err)
	}
	return parse(h, body), nil
}

// Parse decodes the tag at the start of b. Bytes after the tag are ignored.
func Parse(b []byte) (*Tag, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if len(b) < HeaderSize+h.Size {
		return nil, fmt.Errorf("id3v2: tag of %d bytes in %d bytes: %w", h.Size, len(b)-HeaderSize, io.ErrUnexpectedEOF)
	}
	return parse(h, b[HeaderSize:HeaderSize+h.Size]), nil
}

// parse never fails: anything that is not a frame is counted and skipped
func parse(h Header, body []byte) *Tag {
	t := NewTag(h.Version)
	t.revision, t.flags = h.Revision, h.Flags
	t.fileReadSize = h.Size

	if h.Version == frames.V22 && h.Flags&FlagExtendedHeader != 0 {
		log.Printf("[WARN] id3v2: compressed %s tag is not supported, ignoring its frames", h.Version)
		return t
	}
	if h.Version != frames.V24 && h.Flags&FlagUnsynchronisation != 0 {
		body = resync(body)
	}
	if h.Version != frames.V22 && h.Flags&FlagExtendedHeader != 0 {
		n, err := extendedHeaderSize(h.Version, body)
		if err != nil {
			log.Printf("[WARN] id3v2: %v", err)
			t.invalidFrameBytes += len(body)
			return t
		}
		body = body[n:]
	}
	t.readFrames(body, h.Flags&FlagUnsynchronisation != 0)
	return t
}

func (t *Tag) readFrames(body []byte, unsync bool) {
	v := t.version
	hs := frameHeaderSize(v)
	idLen := v.IDLength()
	for off := 0; off+hs <= len(body); {
		if body[off] == 0 {
			// padding
			break
		}
		id := string(body[off : off+idLen])
		if !frames.IsValidID(v, id) {
			t.invalidFrameBytes++
			off++
			continue
		}
		size, flags, err := frameHeader(v, body[off:off+hs])
		if err != nil {
			t.invalidFrameBytes++
			off++
			continue
		}
		if size == 0 {
			log.Printf("[DEBUG] id3v2: empty frame %s", id)
			t.emptyFrameBytes += hs
			off += hs
			continue
		}
		if off+hs+size > len(body) {
			log.Printf("[WARN] id3v2: frame %s of %d bytes overruns tag", id, size)
			t.invalidFrameBytes += len(body) - off
			break
		}
		f, err := decodeFrame(v, id, flags, body[off+hs:off+hs+size], unsync)
		if err != nil {
			log.Printf("[WARN] id3v2: %v", err)
			t.invalidFrameBytes += hs + size
		} else {
			f.diskSize = hs + size
			t.loadFrame(f)
		}
		off += hs + size
	}
}

func frameHeader(v frames.Version, b []byte) (int, uint16, error) {
	switch v {
	case frames.V22:
		size, err := encodedbytes.NormInt(b[3:6])
		return int(size), 0, err
	case frames.V23:
		size, err := encodedbytes.NormInt(b[4:8])
		return int(size), uint16(b[8])<<8 | uint16(b[9]), err
	}
	size, err := encodedbytes.SynchInt(b[4:8])
	if err != nil {
		// Some writers store plain sizes in v2.4 tags
		size, err = encodedbytes.NormInt(b[4:8])
	}
	return int(size), uint16(b[8])<<8 | uint16(b[9]), err
}

func decodeFrame(v frames.Version, id string, rawFlags uint16, data []byte, unsync bool) (*Frame, error) {
	f := &Frame{id: id, version: v, rawFlags: rawFlags, Flags: decodeFlags(v, rawFlags)}
	if f.Flags.Encrypted {
		f.Body = datatype.NewUnsupportedBody(id, data)
		return f, nil
	}
	var err error
	switch v {
	case frames.V23:
		data, err = f.v23Payload(data)
	case frames.V24:
		data, err = f.v24Payload(data, unsync)
	}
	if err != nil {
		return nil, &FrameError{ID: id, Err: err}
	}
	specs, ok := bodySpecs(v, id)
	if !ok {
		f.Body = datatype.NewUnsupportedBody(id, data)
		return f, nil
	}
	f.Body = datatype.NewBody(id, specs)
	if err := f.Body.Decode(data); err != nil {
		return nil, &FrameError{ID: id, Err: err}
	}
	return f, nil
}

// v23Payload strips the extra header bytes selected by the flags and
// inflates compressed frames.
func (f *Frame) v23Payload(data []byte) ([]byte, error) {
	var inflated int
	if f.Flags.Compressed {
		if len(data) < 4 {
			return nil, fmt.Errorf("truncated decompressed size")
		}
		n, err := encodedbytes.NormInt(data[:4])
		if err != nil {
			return nil, err
		}
		inflated, data = int(n), data[4:]
	}
	if f.Flags.Grouped {
		if len(data) < 1 {
			return nil, fmt.Errorf("missing group id")
		}
		f.Flags.Group, data = data[0], data[1:]
	}
	if f.Flags.Compressed {
		return inflate(data, inflated)
	}
	return data, nil
}

func (f *Frame) v24Payload(data []byte, unsync bool) ([]byte, error) {
	if f.Flags.Grouped {
		if len(data) < 1 {
			return nil, fmt.Errorf("missing group id")
		}
		f.Flags.Group, data = data[0], data[1:]
	}
	inflated := -1
	if f.rawFlags&v24DataLengthInd != 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("truncated data length indicator")
		}
		n, err := encodedbytes.SynchInt(data[:4])
		if err != nil {
			return nil, err
		}
		inflated, data = int(n), data[4:]
	}
	if unsync || f.rawFlags&v24Unsync != 0 {
		data = resync(data)
	}
	if f.Flags.Compressed {
		return inflate(data, inflated)
	}
	return data, nil
}

// inflate decompresses a zlib stream. size is the expected length, or
// negative when the frame does not say.
func inflate(data []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	if size >= 0 && len(out) != size {
		return nil, fmt.Errorf("inflate: got %d bytes, header says %d", len(out), size)
	}
	return out, nil
}

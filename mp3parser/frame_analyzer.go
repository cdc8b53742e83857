// Package mp3parser locates MPEG audio frames and derives stream facts.
package mp3parser

import (
	"encoding/binary"
	"fmt"
)

const (
	xingFlagFrames  = 1 << 0
	xingFlagBytes   = 1 << 1
	xingFlagTOC     = 1 << 2
	xingFlagQuality = 1 << 3

	// id + flags + frames + bytes + toc + quality
	xingMaxSize = 4 + 4 + 4 + 4 + 100 + 4
	// largest side info plus a CRC
	xingMaxOffset = 32 + 2
)

// sideInfoSize is the length of the layer III side information that
// follows the header (and CRC) of a frame.
func sideInfoSize(h *FrameHeader) int {
	if h.Version == MPEGVersion1 {
		if h.ChannelMode == Mono {
			return 17
		}
		return 32
	}
	if h.ChannelMode == Mono {
		return 9
	}
	return 17
}

// xingOffsets lists where a Xing id may start, relative to the frame.
// Writers disagree on whether the CRC counts.
func xingOffsets(h *FrameHeader) []int {
	off := frameHeaderSize + sideInfoSize(h)
	if h.Protected {
		return []int{off, off + 2}
	}
	return []int{off}
}

// findXing returns the offset of a "Xing" or "Info" id within frame, or -1
func findXing(h *FrameHeader, frame []byte) int {
	for _, off := range xingOffsets(h) {
		if off+4 > len(frame) {
			continue
		}
		switch string(frame[off : off+4]) {
		case "Xing", "Info":
			return off
		}
	}
	return -1
}

// ParseXingFrame parses the summary whose id starts at b[0]
func ParseXingFrame(b []byte) (*XingFrame, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("xing frame too short: %d bytes", len(b))
	}
	x := &XingFrame{}
	switch string(b[:4]) {
	case "Xing":
		x.VBR = true
	case "Info":
	default:
		return nil, fmt.Errorf("invalid xing id %q", b[:4])
	}
	flags := binary.BigEndian.Uint32(b[4:8])
	pos := 8
	next := func(n int) ([]byte, error) {
		if pos+n > len(b) {
			return nil, fmt.Errorf("xing frame truncated at %d", pos)
		}
		v := b[pos : pos+n]
		pos += n
		return v, nil
	}
	if flags&xingFlagFrames != 0 {
		v, err := next(4)
		if err != nil {
			return nil, err
		}
		x.FrameCountEnabled = true
		x.FrameCount = binary.BigEndian.Uint32(v)
	}
	if flags&xingFlagBytes != 0 {
		v, err := next(4)
		if err != nil {
			return nil, err
		}
		x.AudioSizeEnabled = true
		x.AudioSize = binary.BigEndian.Uint32(v)
	}
	if flags&xingFlagTOC != 0 {
		v, err := next(100)
		if err != nil {
			return nil, err
		}
		x.TOC = append([]byte(nil), v...)
	}
	if flags&xingFlagQuality != 0 {
		v, err := next(4)
		if err != nil {
			return nil, err
		}
		x.QualityEnabled = true
		x.Quality = binary.BigEndian.Uint32(v)
	}
	return x, nil
}

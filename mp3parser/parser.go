package mp3parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/eaburns/bit"
)

const (
	frameHeaderSize = 4
	id3v1Size       = 128
)

// kbps, indexed by [version row][layer][index]
var bitrateTable = [2][4][16]int{
	{ // MPEG-1
		{},
		{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
		{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
	},
	{ // MPEG-2 and 2.5
		{},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
	},
}

var sampleRateTable = map[MPEGVersion][3]int{
	MPEGVersion1:  {44100, 48000, 32000},
	MPEGVersion2:  {22050, 24000, 16000},
	MPEGVersion25: {11025, 12000, 8000},
}

var samplesPerFrame = map[Layer]int{
	Layer1: 384,
	Layer2: 1152,
	Layer3: 1152,
}

// isSync reports whether b starts with the 11 frame sync bits
func isSync(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0
}

// ParseFrameHeader decodes the four header bytes at the start of b.
func ParseFrameHeader(b []byte) (*FrameHeader, error) {
	if len(b) < frameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	br := bit.NewReader(bytes.NewReader(b[:frameHeaderSize]))
	fields, err := br.ReadFields(11, 2, 2, 1, 4, 2, 1, 1, 2, 2, 1, 1, 2)
	if err != nil {
		return nil, err
	}
	if fields[0] != 0x7FF {
		return nil, fmt.Errorf("invalid sync word: 0x%02X%02X%02X%02X", b[0], b[1], b[2], b[3])
	}

	h := &FrameHeader{
		Version:       MPEGVersion(fields[1]),
		Layer:         Layer(fields[2]),
		Protected:     fields[3] == 0,
		Padding:       fields[6] == 1,
		Private:       fields[7] == 1,
		ChannelMode:   ChannelMode(fields[8]),
		ModeExtension: int(fields[9]),
		Copyright:     fields[10] == 1,
		Original:      fields[11] == 1,
		Emphasis:      Emphasis(fields[12]),
	}
	if h.Version == MPEGVersionReserved {
		return nil, fmt.Errorf("reserved MPEG version")
	}
	if h.Layer == LayerReserved {
		return nil, fmt.Errorf("reserved MPEG layer")
	}
	if h.Emphasis == 2 {
		return nil, fmt.Errorf("reserved emphasis")
	}
	bitrateIdx := int(fields[4])
	sampleRateIdx := int(fields[5])
	if sampleRateIdx == 3 {
		return nil, fmt.Errorf("reserved sample rate index")
	}

	row := 0
	if h.Version != MPEGVersion1 {
		row = 1
	}
	h.Bitrate = bitrateTable[row][h.Layer][bitrateIdx]
	h.SampleRate = sampleRateTable[h.Version][sampleRateIdx]
	if h.Bitrate == 0 {
		return nil, fmt.Errorf("unsupported bitrate index %d", bitrateIdx)
	}
	h.Samples = samplesPerFrame[h.Layer]
	h.FrameLength = frameLength(h)
	return h, nil
}

func frameLength(h *FrameHeader) int {
	bps := h.Bitrate * 1000
	pad := btoi(h.Padding)
	switch {
	case h.Layer == Layer1:
		return (12*bps/h.SampleRate + pad) * 4
	case h.Layer == Layer3 && h.Version != MPEGVersion1:
		return 72*bps/h.SampleRate + pad
	}
	return 144*bps/h.SampleRate + pad
}

// ReadID3v1 reads the trailing ID3v1 tag of a size byte stream. It returns
// nil without error when there is none.
func ReadID3v1(r io.ReaderAt, size int64) (*ID3v1Tag, error) {
	if size < id3v1Size {
		return nil, nil
	}
	buf := make([]byte, id3v1Size)
	if _, err := r.ReadAt(buf, size-id3v1Size); err != nil && err != io.EOF {
		return nil, err
	}

	if string(buf[:3]) != "TAG" {
		return nil, nil
	}
	t := &ID3v1Tag{
		Title:   trimV1(buf[3:33]),
		Artist:  trimV1(buf[33:63]),
		Album:   trimV1(buf[63:93]),
		Year:    trimV1(buf[93:97]),
		Comment: trimV1(buf[97:127]),
		Genre:   buf[127],
	}
	if buf[125] == 0 && buf[126] != 0 {
		t.Comment = trimV1(buf[97:125])
		t.Track = buf[126]
	}
	return t, nil
}

func trimV1(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), " ")
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

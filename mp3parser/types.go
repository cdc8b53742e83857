package mp3parser

// MPEGVersion holds the raw two version bits of a frame header
type MPEGVersion int

const (
	MPEGVersion25       MPEGVersion = 0
	MPEGVersionReserved MPEGVersion = 1
	MPEGVersion2        MPEGVersion = 2
	MPEGVersion1        MPEGVersion = 3
)

func (v MPEGVersion) String() string {
	switch v {
	case MPEGVersion1:
		return "MPEG-1"
	case MPEGVersion2:
		return "MPEG-2"
	case MPEGVersion25:
		return "MPEG-2.5"
	}
	return "reserved"
}

// Layer holds the raw two layer bits of a frame header
type Layer int

const (
	LayerReserved Layer = 0
	Layer3        Layer = 1
	Layer2        Layer = 2
	Layer1        Layer = 3
)

func (l Layer) String() string {
	switch l {
	case Layer1:
		return "Layer 1"
	case Layer2:
		return "Layer 2"
	case Layer3:
		return "Layer 3"
	}
	return "reserved"
}

type ChannelMode int

const (
	Stereo      ChannelMode = 0
	JointStereo ChannelMode = 1
	DualChannel ChannelMode = 2
	Mono        ChannelMode = 3
)

func (m ChannelMode) String() string {
	return [...]string{"Stereo", "Joint Stereo", "Dual", "Mono"}[m&3]
}

type Emphasis int

func (e Emphasis) String() string {
	return [...]string{"None", "5/15 ms", "reserved", "CCITT J.17"}[e&3]
}

// FrameHeader represents an MPEG audio frame header
type FrameHeader struct {
	Version       MPEGVersion
	Layer         Layer
	Protected     bool
	Bitrate       int // kbps
	SampleRate    int
	Padding       bool
	Private       bool
	ChannelMode   ChannelMode
	ModeExtension int
	Copyright     bool
	Original      bool
	Emphasis      Emphasis
	FrameLength   int
	Samples       int
}

// VariableBitRate reports the VBR indication of a lone header. A frame
// header has no way of saying so, only a Xing frame does.
func (h *FrameHeader) VariableBitRate() bool { return false }

// XingFrame is the VBR summary carried by the first frame of many streams
type XingFrame struct {
	VBR               bool
	FrameCountEnabled bool
	FrameCount        uint32
	AudioSizeEnabled  bool
	AudioSize         uint32
	TOC               []byte
	QualityEnabled    bool
	Quality           uint32
}

// ID3v1Tag represents ID3v1 tag (128 bytes at end of file)
type ID3v1Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Track   byte // ID3v1.1, zero when absent
	Genre   byte
}

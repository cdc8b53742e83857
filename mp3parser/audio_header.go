package mp3parser

import (
	"fmt"
	"io"
	"strconv"
)

const vbrIdentifier = "~"

// AudioHeader holds the facts derived from the first audio frame
type AudioHeader struct {
	StartByte              int64
	FileSize               int64
	Header                 *FrameHeader
	Xing                   *XingFrame
	NumberOfFrames         int64
	NumberOfFramesEstimate int64
	TimePerFrame           float64 // seconds
	TrackLength            float64 // seconds
	Bitrate                int64   // kbps
}

// ReadAudioHeader finds the first audio frame at or after start in a
// fileSize byte stream and derives the stream facts from it.
func ReadAudioHeader(r io.ReaderAt, fileSize, start int64) (*AudioHeader, error) {
	sp, err := Seek(r, start)
	if err != nil {
		return nil, err
	}
	a := &AudioHeader{
		StartByte: sp.Offset,
		FileSize:  fileSize,
		Header:    sp.Header,
		Xing:      sp.Xing,
	}
	a.setTimePerFrame()
	a.setNumberOfFrames()
	a.TrackLength = float64(a.NumberOfFrames) * a.TimePerFrame
	a.setBitrate()
	return a, nil
}

func (a *AudioHeader) setTimePerFrame() {
	h := a.Header
	a.TimePerFrame = float64(h.Samples) / float64(h.SampleRate)
	// frame lengths of MPEG-2 and 2.5 layer II and III are computed from
	// half the samples, the time has to follow
	if h.Version == MPEGVersion2 || h.Version == MPEGVersion25 {
		if h.Layer == Layer2 || h.Layer == Layer3 {
			a.TimePerFrame /= 2
		}
	}
}

func (a *AudioHeader) setNumberOfFrames() {
	a.NumberOfFramesEstimate = (a.FileSize - a.StartByte) / int64(a.Header.FrameLength)
	if a.Xing != nil && a.Xing.FrameCountEnabled {
		a.NumberOfFrames = int64(a.Xing.FrameCount)
	} else {
		a.NumberOfFrames = a.NumberOfFramesEstimate
	}
}

func (a *AudioHeader) setBitrate() {
	if a.Xing == nil || !a.Xing.VBR {
		a.Bitrate = int64(a.Header.Bitrate)
		return
	}
	duration := a.TimePerFrame * float64(a.NumberOfFrames) * 1000
	if duration <= 0 {
		a.Bitrate = 0
		return
	}
	audioBytes := a.FileSize - a.StartByte
	if a.Xing.AudioSizeEnabled && a.Xing.AudioSize > 0 {
		audioBytes = int64(a.Xing.AudioSize)
	}
	a.Bitrate = int64(float64(audioBytes*8) / duration)
}

// VariableBitRate prefers the Xing flag over the header's own indication
func (a *AudioHeader) VariableBitRate() bool {
	if a.Xing != nil {
		return a.Xing.VBR
	}
	return a.Header.VariableBitRate()
}

// BitRateString is the bitrate in kbps, prefixed with "~" for VBR streams
func (a *AudioHeader) BitRateString() string {
	s := strconv.FormatInt(a.Bitrate, 10)
	if a.Xing != nil && a.Xing.VBR {
		return vbrIdentifier + s
	}
	return s
}

// TrackLengthString formats the whole seconds of the track as mm:ss
func (a *AudioHeader) TrackLengthString() string {
	secs := int64(a.TrackLength)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Format is the version and layer, e.g. "MPEG-1 Layer 3"
func (a *AudioHeader) Format() string {
	return a.Header.Version.String() + " " + a.Header.Layer.String()
}

func (a *AudioHeader) Channels() string { return a.Header.ChannelMode.String() }

func (a *AudioHeader) SampleRate() int { return a.Header.SampleRate }

func (a *AudioHeader) EncodingType() string { return "mp3" }

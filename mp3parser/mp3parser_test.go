package mp3parser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

var (
	// MPEG-1 layer III, 128 kbps, 44.1 kHz, joint stereo, 417 bytes
	mpeg1Header = []byte{0xFF, 0xFB, 0x90, 0x44}
	// MPEG-2 layer III, 64 kbps, 22.05 kHz, mono, 208 bytes
	mpeg2MonoHeader = []byte{0xFF, 0xF3, 0x80, 0xC0}
)

func mpegFrame(header []byte, length int) []byte {
	f := make([]byte, length)
	copy(f, header)
	return f
}

func frames(header []byte, length, n int) []byte {
	var out []byte
	for i := 0; i < n; i++ {
		out = append(out, mpegFrame(header, length)...)
	}
	return out
}

func xingFrame(id string, frameCount, audioSize uint32) []byte {
	f := mpegFrame(mpeg1Header, 417)
	x := f[4+32:]
	copy(x, id)
	binary.BigEndian.PutUint32(x[4:], xingFlagFrames|xingFlagBytes)
	binary.BigEndian.PutUint32(x[8:], frameCount)
	binary.BigEndian.PutUint32(x[12:], audioSize)
	return f
}

func TestParseFrameHeader(t *testing.T) {
	h, err := ParseFrameHeader(mpeg1Header)
	if err != nil {
		t.Fatal(err)
	}
	expected := FrameHeader{
		Version:     MPEGVersion1,
		Layer:       Layer3,
		Protected:   false,
		Bitrate:     128,
		SampleRate:  44100,
		ChannelMode: JointStereo,
		Original:    true,
		FrameLength: 417,
		Samples:     1152,
	}
	if *h != expected {
		t.Errorf("expected %+v, got %+v", expected, *h)
	}

	h, err = ParseFrameHeader(mpeg2MonoHeader)
	if err != nil {
		t.Fatal(err)
	}
	if h.Version != MPEGVersion2 || h.ChannelMode != Mono || h.FrameLength != 208 || h.Bitrate != 64 {
		t.Errorf("unexpected MPEG-2 header %+v", *h)
	}
}

func TestParseFrameHeaderInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		b    []byte
	}{
		{"no sync", []byte{0xFF, 0x1B, 0x90, 0x44}},
		{"reserved layer", []byte{0xFF, 0xE0, 0x90, 0x44}},
		{"reserved version", []byte{0xFF, 0xEB, 0x90, 0x44}},
		{"bad bitrate", []byte{0xFF, 0xFB, 0xF0, 0x44}},
		{"free format", []byte{0xFF, 0xFB, 0x00, 0x44}},
		{"reserved sample rate", []byte{0xFF, 0xFB, 0x9C, 0x44}},
		{"reserved emphasis", []byte{0xFF, 0xFB, 0x90, 0x46}},
		{"short", []byte{0xFF, 0xFB}},
	} {
		if _, err := ParseFrameHeader(tc.b); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestFrameLengths(t *testing.T) {
	for _, tc := range []struct {
		h      FrameHeader
		length int
	}{
		{FrameHeader{Version: MPEGVersion1, Layer: Layer3, Bitrate: 128, SampleRate: 44100, Padding: true}, 418},
		{FrameHeader{Version: MPEGVersion1, Layer: Layer2, Bitrate: 192, SampleRate: 48000}, 576},
		{FrameHeader{Version: MPEGVersion1, Layer: Layer1, Bitrate: 32, SampleRate: 32000}, 48},
		{FrameHeader{Version: MPEGVersion25, Layer: Layer3, Bitrate: 8, SampleRate: 8000}, 72},
		{FrameHeader{Version: MPEGVersion2, Layer: Layer2, Bitrate: 160, SampleRate: 24000}, 960},
	} {
		if got := frameLength(&tc.h); got != tc.length {
			t.Errorf("%s %s %d/%d: expected %d, got %d", tc.h.Version, tc.h.Layer, tc.h.Bitrate, tc.h.SampleRate, tc.length, got)
		}
	}
}

func TestSeekSkipsFalseSyncBeforeXingFrame(t *testing.T) {
	data := append([]byte{0xFF, 0xE0}, xingFrame("Xing", 1000, 417000)...)
	data = append(data, make([]byte, 300)...)

	sp, err := Seek(bytes.NewReader(data), 0)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Offset != 2 {
		t.Errorf("expected offset 2, got %d", sp.Offset)
	}
	if sp.Xing == nil || !sp.Xing.VBR || sp.Xing.FrameCount != 1000 || sp.Xing.AudioSize != 417000 {
		t.Errorf("unexpected xing frame %+v", sp.Xing)
	}
}

func TestSeekLookaheadRejectsLoneHeader(t *testing.T) {
	data := mpegFrame(mpeg1Header, 600)
	data = append(data, frames(mpeg1Header, 417, 3)...)

	sp, err := Seek(bytes.NewReader(data), 0)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Offset != 600 {
		t.Errorf("expected offset 600, got %d", sp.Offset)
	}
	if sp.Xing != nil {
		t.Error("expected no xing frame")
	}
}

func TestSeekRefillsWindowFromAbsoluteOffset(t *testing.T) {
	data := make([]byte, 7000)
	data = append(data, frames(mpeg1Header, 417, 3)...)

	sp, err := Seek(bytes.NewReader(data), 0)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Offset != 7000 {
		t.Errorf("expected offset 7000, got %d", sp.Offset)
	}
}

func TestSeekFromStart(t *testing.T) {
	data := frames(mpeg1Header, 417, 4)
	sp, err := Seek(bytes.NewReader(data), 417)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Offset != 417 {
		t.Errorf("expected offset 417, got %d", sp.Offset)
	}
}

func TestSeekNoSync(t *testing.T) {
	for _, data := range [][]byte{
		make([]byte, 10000),
		nil,
		mpegFrame(mpeg1Header, 100),
	} {
		if _, err := Seek(bytes.NewReader(data), 0); !errors.Is(err, ErrSyncNotFound) {
			t.Errorf("expected ErrSyncNotFound for %d bytes, got %v", len(data), err)
		}
	}
}

func TestAudioHeaderVBR(t *testing.T) {
	data := xingFrame("Xing", 1000, 417000)
	data = append(data, frames(mpeg1Header, 417, 2)...)

	a, err := ReadAudioHeader(bytes.NewReader(data), int64(len(data)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if a.NumberOfFrames != 1000 {
		t.Errorf("expected 1000 frames from xing, got %d", a.NumberOfFrames)
	}
	if a.NumberOfFramesEstimate != 3 {
		t.Errorf("expected estimate of 3 frames, got %d", a.NumberOfFramesEstimate)
	}
	if math.Abs(a.TimePerFrame-1152.0/44100) > 1e-9 {
		t.Errorf("unexpected time per frame %f", a.TimePerFrame)
	}
	if a.TrackLengthString() != "00:26" {
		t.Errorf("expected 00:26, got %s", a.TrackLengthString())
	}
	if !a.VariableBitRate() {
		t.Error("expected VBR")
	}
	if a.BitRateString() != "~127" {
		t.Errorf("expected ~127, got %s", a.BitRateString())
	}
	if a.Format() != "MPEG-1 Layer 3" || a.Channels() != "Joint Stereo" {
		t.Errorf("unexpected format %q channels %q", a.Format(), a.Channels())
	}
}

func TestAudioHeaderInfoFrameIsCBR(t *testing.T) {
	data := xingFrame("Info", 10, 4170)
	data = append(data, frames(mpeg1Header, 417, 2)...)

	a, err := ReadAudioHeader(bytes.NewReader(data), int64(len(data)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if a.VariableBitRate() {
		t.Error("Info frame marks a CBR stream")
	}
	if a.BitRateString() != "128" {
		t.Errorf("expected 128, got %s", a.BitRateString())
	}
}

func TestAudioHeaderMPEG2HalvesTimePerFrame(t *testing.T) {
	data := frames(mpeg2MonoHeader, 208, 10)

	a, err := ReadAudioHeader(bytes.NewReader(data), int64(len(data)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(a.TimePerFrame-576.0/22050) > 1e-9 {
		t.Errorf("expected %f, got %f", 576.0/22050, a.TimePerFrame)
	}
	if a.NumberOfFrames != 10 {
		t.Errorf("expected 10 frames, got %d", a.NumberOfFrames)
	}
	if a.VariableBitRate() || a.BitRateString() != "64" {
		t.Errorf("expected CBR 64, got %s", a.BitRateString())
	}
}

func TestParseXingFrame(t *testing.T) {
	b := []byte("Xing")
	b = binary.BigEndian.AppendUint32(b, xingFlagFrames|xingFlagTOC|xingFlagQuality)
	b = binary.BigEndian.AppendUint32(b, 42)
	b = append(b, bytes.Repeat([]byte{7}, 100)...)
	b = binary.BigEndian.AppendUint32(b, 78)

	x, err := ParseXingFrame(b)
	if err != nil {
		t.Fatal(err)
	}
	if !x.FrameCountEnabled || x.FrameCount != 42 || x.AudioSizeEnabled || len(x.TOC) != 100 || x.Quality != 78 {
		t.Errorf("unexpected xing frame %+v", x)
	}
	if _, err := ParseXingFrame(b[:20]); err == nil {
		t.Error("expected truncated error")
	}
}

func TestReadID3v1(t *testing.T) {
	tag := make([]byte, 128)
	copy(tag, "TAG")
	copy(tag[3:], "Title")
	copy(tag[33:], "Artist   ")
	copy(tag[93:], "1999")
	tag[126] = 7
	tag[127] = 17
	data := append(make([]byte, 50), tag...)

	v1, err := ReadID3v1(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	expected := ID3v1Tag{Title: "Title", Artist: "Artist", Year: "1999", Track: 7, Genre: 17}
	if v1 == nil || *v1 != expected {
		t.Errorf("expected %+v, got %+v", expected, v1)
	}
}

func TestTrackLengthString(t *testing.T) {
	a := &AudioHeader{TrackLength: 4000.7}
	if s := a.TrackLengthString(); s != "66:40" {
		t.Errorf("expected 66:40, got %s", s)
	}
}

package audio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/zhangxincheng/fork-jaudiotagger/frames"
	"github.com/zhangxincheng/fork-jaudiotagger/id3v2"
	"github.com/zhangxincheng/fork-jaudiotagger/mp3parser"
)

// MP3File is an MP3 file with its ID3v2 tag and audio facts
type MP3File struct {
	// Padding is added to the tag when the audio has to be moved
	Padding int
	// PreserveModTime keeps the modification time of the file across
	// Commit. Without it the file looks modified, like after any write.
	PreserveModTime bool

	path       string
	size       int64
	tag        *id3v2.Tag
	v1         *mp3parser.ID3v1Tag
	audio      *mp3parser.AudioHeader
	audioStart int64
	onDisk     bool // an ID3v2 header starts the file
}

// Read opens path, reads its tags and locates the first audio frame
func Read(path string) (*MP3File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	m := &MP3File{path: path, size: info.Size()}

	var tagEnd int64
	th, err := id3v2.ReadHeader(f)
	switch {
	case errors.Is(err, id3v2.ErrNoTag):
	case errors.Is(err, id3v2.ErrUnsupportedVersion):
		m.onDisk = true
		tagEnd = int64(th.TagSize())
		log.Printf("[WARN] audio: %s: %v", path, err)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", path, err)
	default:
		m.onDisk = true
		tagEnd = int64(th.TagSize())
		m.tag, err = id3v2.ReadFrom(io.NewSectionReader(f, 0, tagEnd))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	m.audio, err = mp3parser.ReadAudioHeader(f, m.size, tagEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.audioStart = m.audio.StartByte
	if m.audioStart != tagEnd {
		log.Printf("[DEBUG] audio: %s: %d bytes between tag and audio", path, m.audioStart-tagEnd)
	}

	m.v1, err = mp3parser.ReadID3v1(f, m.size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *MP3File) Path() string { return m.path }

// Tag returns the ID3v2 tag, or nil when the file has none
func (m *MP3File) Tag() *id3v2.Tag { return m.tag }

func (m *MP3File) ID3v1() *mp3parser.ID3v1Tag { return m.v1 }

func (m *MP3File) AudioHeader() *mp3parser.AudioHeader { return m.audio }

// AudioStart is the offset of the first audio frame
func (m *MP3File) AudioStart() int64 { return m.audioStart }

// SetTag replaces the tag written by the next Commit
func (m *MP3File) SetTag(t *id3v2.Tag) { m.tag = t }

// TagOrNew returns the tag, creating an empty one of version v if needed
func (m *MP3File) TagOrNew(v frames.Version) *id3v2.Tag {
	if m.tag == nil {
		m.tag = id3v2.NewTag(v)
	}
	return m.tag
}

// Commit writes the tag to the file. The audio is moved only when the tag
// outgrows the space in front of it, after which the audio facts are read
// again from the new offset.
func (m *MP3File) Commit() error {
	if m.tag == nil {
		return nil
	}
	var mtime time.Time
	if m.PreserveModTime {
		info, err := os.Stat(m.path)
		if err != nil {
			return &SurgeryError{Op: "stat", Path: m.path, Err: err}
		}
		mtime = info.ModTime()
	}
	required, err := m.tag.RequiredSize()
	if err != nil {
		return err
	}
	start := int(m.audioStart)
	size := id3v2.CalculateTagSize(required, start)
	if size != start {
		size += m.Padding
	}
	b, err := m.tag.Bytes(size)
	if err != nil {
		return err
	}
	if size != start {
		if err := AdjustPadding(m.path, size, m.audioStart); err != nil {
			return err
		}
		m.size += int64(size - start)
		m.audioStart = int64(size)
	}
	if err := writeAt(m.path, b, 0); err != nil {
		return err
	}
	m.onDisk = true
	if size != start {
		if err := m.readAudio(); err != nil {
			return err
		}
	}
	if m.PreserveModTime {
		if err := os.Chtimes(m.path, mtime, mtime); err != nil {
			return &SurgeryError{Op: "chtimes", Path: m.path, Err: err}
		}
	}
	log.Printf("[DEBUG] audio: wrote %d byte %s tag to %s", size, m.tag.Version(), m.path)
	return nil
}

func (m *MP3File) readAudio() error {
	f, err := os.Open(m.path)
	if err != nil {
		return &SurgeryError{Op: "open", Path: m.path, Err: err}
	}
	defer f.Close()
	a, err := mp3parser.ReadAudioHeader(f, m.size, m.audioStart)
	if err != nil {
		return fmt.Errorf("%s: %w", m.path, err)
	}
	m.audio = a
	return nil
}

// DeleteTag invalidates the ID3v2 tag in place by clearing its magic. The
// tag bytes stay in front of the audio.
func (m *MP3File) DeleteTag() error {
	m.tag = nil
	if !m.onDisk {
		return nil
	}
	if err := writeAt(m.path, make([]byte, 3), 0); err != nil {
		return err
	}
	m.onDisk = false
	return nil
}

func writeAt(path string, b []byte, off int64) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return &SurgeryError{Op: "open", Path: path, Err: err}
	}
	if _, err := f.WriteAt(b, off); err != nil {
		f.Close()
		return &SurgeryError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &SurgeryError{Op: "close", Path: path, Err: err}
	}
	return nil
}

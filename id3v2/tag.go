// Package id3v2 reads, edits and writes ID3v2.2, v2.3 and v2.4 tags.
package id3v2

import (
	"fmt"
	"log"
	"strings"

	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

// TagSizeIncrement is the extra room given to a tag that has to grow
const TagSizeIncrement = 100

// Entry holds the frames stored under one id. Most ids hold one frame,
// ids that allow multiples hold them in load order.
type Entry struct {
	frames []*Frame
}

// Many reports whether the entry holds more than one frame
func (e *Entry) Many() bool { return len(e.frames) > 1 }

// Frame returns the first frame of the entry
func (e *Entry) Frame() *Frame { return e.frames[0] }

func (e *Entry) Frames() []*Frame { return e.frames }

func (e *Entry) Len() int { return len(e.frames) }

// Tag is an ordered collection of frames of one ID3v2 version
type Tag struct {
	version  frames.Version
	revision byte
	flags    byte

	order   []string
	entries map[string]*Entry

	duplicateBytes    int
	duplicateIDs      []string
	emptyFrameBytes   int
	invalidFrameBytes int
	fileReadSize      int
}

// NewTag returns an empty tag of version v
func NewTag(v frames.Version) *Tag {
	return &Tag{version: v, entries: make(map[string]*Entry)}
}

func (t *Tag) Version() frames.Version { return t.version }

func (t *Tag) Revision() byte { return t.revision }

// DuplicateBytes is the size of frames dropped because their id was
// already present.
func (t *Tag) DuplicateBytes() int { return t.duplicateBytes }

func (t *Tag) DuplicateFrameIDs() []string { return append([]string(nil), t.duplicateIDs...) }

// EmptyFrameBytes is the size of frame headers declaring an empty body
func (t *Tag) EmptyFrameBytes() int { return t.emptyFrameBytes }

// InvalidFrameBytes is the size of data skipped as not being a frame
func (t *Tag) InvalidFrameBytes() int { return t.invalidFrameBytes }

// FileReadSize is the tag size declared by the header it was read from
func (t *Tag) FileReadSize() int { return t.fileReadSize }

func (t *Tag) insert(id string, e *Entry) {
	if _, ok := t.entries[id]; !ok {
		t.order = append(t.order, id)
	}
	t.entries[id] = e
}

// loadFrame stores a frame read from a file. Frames that may occur more
// than once are appended, a second frame of any other id is dropped and
// counted as duplicate.
func (t *Tag) loadFrame(f *Frame) {
	id := f.ID()
	e, ok := t.entries[id]
	switch {
	case frames.MultipleAllowed(id):
		if !ok {
			t.insert(id, &Entry{frames: []*Frame{f}})
			return
		}
		e.frames = append(e.frames, f)
	case ok:
		t.duplicateBytes += e.Frame().DiskSize()
		t.duplicateIDs = append(t.duplicateIDs, id)
		log.Printf("[DEBUG] id3v2: duplicate frame %s, keeping the first one", id)
	default:
		t.insert(id, &Entry{frames: []*Frame{f}})
	}
}

// copyFrame stores a frame converted from another version. Date
// components arriving from v2.3 are merged into the existing TDRC frame,
// any other collision drops the incoming frame.
func (t *Tag) copyFrame(f *Frame) {
	id := f.ID()
	e, ok := t.entries[id]
	if !ok {
		if id == "TDRC" && f.OriginalID != "" && f.OriginalID != id {
			var d RecordingDate
			if d.set(f.OriginalID, f.Text()) {
				f.SetText(d.String())
				f.date = &d
			}
		}
		t.insert(id, &Entry{frames: []*Frame{f}})
		return
	}
	if id == "TDRC" && !e.Many() && e.Frame().mergeDate(f) {
		return
	}
	log.Printf("[WARN] id3v2: cannot copy %s as %s, frame already present", f.OriginalID, id)
}

// SetFrame stores f under its id, replacing whatever was there
func (t *Tag) SetFrame(f *Frame) {
	t.insert(f.ID(), &Entry{frames: []*Frame{f}})
}

// SetFrames replaces the frames stored under id
func (t *Tag) SetFrames(id string, fs []*Frame) {
	if len(fs) == 0 {
		t.RemoveFrame(id)
		return
	}
	t.insert(id, &Entry{frames: append([]*Frame(nil), fs...)})
}

// AddFrame appends f when its id allows multiples and replaces the
// stored frame otherwise.
func (t *Tag) AddFrame(f *Frame) {
	e, ok := t.entries[f.ID()]
	if ok && frames.MultipleAllowed(f.ID()) {
		e.frames = append(e.frames, f)
		return
	}
	t.SetFrame(f)
}

// Entry returns what is stored under id, or nil
func (t *Tag) Entry(id string) *Entry { return t.entries[id] }

// FirstFrame returns the first frame stored under id, or nil
func (t *Tag) FirstFrame(id string) *Frame {
	if e := t.entries[id]; e != nil {
		return e.Frame()
	}
	return nil
}

func (t *Tag) HasFrame(id string) bool {
	_, ok := t.entries[id]
	return ok
}

// HasFrameAndBody reports whether id is present with a decoded body. An
// entry of several frames always counts.
func (t *Tag) HasFrameAndBody(id string) bool {
	e, ok := t.entries[id]
	if !ok {
		return false
	}
	return e.Many() || e.Frame().Supported()
}

// FramesOfType returns every frame whose id starts with prefix
func (t *Tag) FramesOfType(prefix string) []*Frame {
	var out []*Frame
	for _, id := range t.order {
		if strings.HasPrefix(id, prefix) {
			out = append(out, t.entries[id].frames...)
		}
	}
	return out
}

func (t *Tag) HasFrameOfType(prefix string) bool {
	for _, id := range t.order {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// RemoveFrame removes every frame stored under id
func (t *Tag) RemoveFrame(id string) {
	if _, ok := t.entries[id]; !ok {
		return
	}
	delete(t.entries, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// RemoveFrameOfType removes every id starting with prefix
func (t *Tag) RemoveFrameOfType(prefix string) {
	t.removeIf(func(f *Frame) bool { return strings.HasPrefix(f.ID(), prefix) })
}

// RemoveUnsupportedFrames drops every frame kept as opaque bytes
func (t *Tag) RemoveUnsupportedFrames() {
	t.removeIf(func(f *Frame) bool { return !f.Supported() })
}

// RemoveDiscardOnFileAlter drops the frames that must not survive a change
// of the audio data.
func (t *Tag) RemoveDiscardOnFileAlter() {
	r := frames.For(t.version)
	t.removeIf(func(f *Frame) bool {
		return f.Flags.FileAlterDiscard || (r != nil && r.IsDiscardOnFileAlter(f.ID()))
	})
}

func (t *Tag) removeIf(drop func(*Frame) bool) {
	order := t.order[:0]
	for _, id := range t.order {
		e := t.entries[id]
		kept := e.frames[:0]
		for _, f := range e.frames {
			if !drop(f) {
				kept = append(kept, f)
			}
		}
		if len(kept) == 0 {
			delete(t.entries, id)
			continue
		}
		e.frames = kept
		order = append(order, id)
	}
	t.order = order
}

// FrameCount is the number of distinct ids in the tag
func (t *Tag) FrameCount() int { return len(t.order) }

// IDs returns the stored ids in iteration order
func (t *Tag) IDs() []string { return append([]string(nil), t.order...) }

// Frames returns every frame in iteration order
func (t *Tag) Frames() []*Frame {
	var out []*Frame
	for _, id := range t.order {
		out = append(out, t.entries[id].frames...)
	}
	return out
}

// Size sums the on-disk size of every frame, see Frame.DiskSize. It can
// differ from what WriteFrames produces, for example for frames that were
// compressed when read.
func (t *Tag) Size() int {
	n := 0
	for _, f := range t.Frames() {
		n += f.DiskSize()
	}
	return n
}

// RequiredSize is the smallest tag, header included, that holds the frames
// as they are written now.
func (t *Tag) RequiredSize() (int, error) {
	b, err := t.WriteFrames()
	if err != nil {
		return 0, err
	}
	return HeaderSize + len(b), nil
}

// WriteFrames encodes all frames in iteration order
func (t *Tag) WriteFrames() ([]byte, error) {
	var out []byte
	for _, f := range t.Frames() {
		if f.Version() != t.version {
			return nil, &FrameError{ID: f.ID(), Err: fmt.Errorf("%s frame in %s tag", f.Version(), t.version)}
		}
		b, err := f.Bytes()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// Bytes encodes the tag into exactly tagSize bytes, the frames followed by
// zero padding.
func (t *Tag) Bytes(tagSize int) ([]byte, error) {
	body, err := t.WriteFrames()
	if err != nil {
		return nil, err
	}
	if HeaderSize+len(body) > tagSize {
		return nil, fmt.Errorf("%w: %d bytes of frames, tag of %d", ErrTagTooLarge, len(body), tagSize)
	}
	h := Header{
		Version:  t.version,
		Revision: t.revision,
		Flags:    t.flags & FlagExperimental,
		Size:     tagSize - HeaderSize,
	}
	out := make([]byte, tagSize)
	copy(out, h.Bytes())
	copy(out[HeaderSize:], body)
	return out, nil
}

// CalculateTagSize returns audioStart when a tag of tagSize bytes fits in
// front of the audio, and tagSize plus TagSizeIncrement otherwise.
func CalculateTagSize(tagSize, audioStart int) int {
	if tagSize <= audioStart {
		return audioStart
	}
	return tagSize + TagSizeIncrement
}

// Copy returns a deep copy of t
func (t *Tag) Copy() (*Tag, error) {
	c := NewTag(t.version)
	c.revision, c.flags = t.revision, t.flags
	c.duplicateBytes = t.duplicateBytes
	c.duplicateIDs = t.DuplicateFrameIDs()
	c.emptyFrameBytes = t.emptyFrameBytes
	c.invalidFrameBytes = t.invalidFrameBytes
	c.fileReadSize = t.fileReadSize
	for _, id := range t.order {
		e := &Entry{}
		for _, f := range t.entries[id].frames {
			fc, err := f.Copy()
			if err != nil {
				return nil, err
			}
			e.frames = append(e.frames, fc)
		}
		c.insert(id, e)
	}
	return c, nil
}

func (t *Tag) String() string {
	return fmt.Sprintf("%s tag with %d frames", t.version, len(t.Frames()))
}

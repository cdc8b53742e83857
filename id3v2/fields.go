package id3v2

import (
	"fmt"
	"strings"

	"github.com/zhangxincheng/fork-jaudiotagger/datatype"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

// FieldKey names a tag field independent of the frame that stores it
type FieldKey int

const (
	Title FieldKey = iota
	Artist
	Album
	AlbumArtist
	Year
	Track
	Disc
	Genre
	Comment
	Composer
	Lyrics
	Grouping
	BPM
	Encoder
	Copyright
	Mood
)

var fieldKeyNames = []string{
	Title:       "title",
	Artist:      "artist",
	Album:       "album",
	AlbumArtist: "album_artist",
	Year:        "year",
	Track:       "track",
	Disc:        "disc",
	Genre:       "genre",
	Comment:     "comment",
	Composer:    "composer",
	Lyrics:      "lyrics",
	Grouping:    "grouping",
	BPM:         "bpm",
	Encoder:     "encoder",
	Copyright:   "copyright",
	Mood:        "mood",
}

// v23FieldIDs maps every key to its v2.3 frame, keys missing here exist
// only in v2.4.
var v23FieldIDs = map[FieldKey]string{
	Title:       "TIT2",
	Artist:      "TPE1",
	Album:       "TALB",
	AlbumArtist: "TPE2",
	Year:        "TYER",
	Track:       "TRCK",
	Disc:        "TPOS",
	Genre:       "TCON",
	Comment:     "COMM",
	Composer:    "TCOM",
	Lyrics:      "USLT",
	Grouping:    "TIT1",
	BPM:         "TBPM",
	Encoder:     "TENC",
	Copyright:   "TCOP",
}

var v24OnlyFieldIDs = map[FieldKey]string{
	Mood: "TMOO",
}

func (k FieldKey) String() string {
	if k >= 0 && int(k) < len(fieldKeyNames) {
		return fieldKeyNames[k]
	}
	return fmt.Sprintf("FieldKey(%d)", int(k))
}

// FieldKeys returns every key in declaration order
func FieldKeys() []FieldKey {
	keys := make([]FieldKey, len(fieldKeyNames))
	for i := range keys {
		keys[i] = FieldKey(i)
	}
	return keys
}

// ParseFieldKey looks a key up by its name
func ParseFieldKey(name string) (FieldKey, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range fieldKeyNames {
		if n == name {
			return FieldKey(i), true
		}
	}
	return 0, false
}

// FrameID returns the frame that stores key in version v
func FrameID(v frames.Version, key FieldKey) (string, bool) {
	if id, ok := v24OnlyFieldIDs[key]; ok {
		return id, v == frames.V24
	}
	id, ok := v23FieldIDs[key]
	if !ok {
		return "", false
	}
	return frames.Convert(frames.V23, v, id)
}

func (t *Tag) fieldID(key FieldKey) (string, error) {
	id, ok := FrameID(t.version, key)
	if !ok {
		return "", fmt.Errorf("%w: %s field in %s tag", ErrUnsupportedOperation, key, t.version)
	}
	return id, nil
}

// describedFrame finds the frame with an empty description among the
// frames of id. Comments and lyrics are keyed that way.
func (t *Tag) describedFrame(id string) *Frame {
	e := t.Entry(id)
	if e == nil {
		return nil
	}
	for _, f := range e.Frames() {
		if f.Body.Text(FieldDescription) == "" {
			return f
		}
	}
	return nil
}

func isDescribed(id string) bool {
	switch id {
	case "COMM", "COM", "USLT", "ULT":
		return true
	}
	return false
}

// Field returns the text stored for key, empty when the tag has none
func (t *Tag) Field(key FieldKey) (string, error) {
	id, err := t.fieldID(key)
	if err != nil {
		return "", err
	}
	var f *Frame
	if isDescribed(id) {
		f = t.describedFrame(id)
	} else {
		f = t.FirstFrame(id)
	}
	if f == nil || !f.Supported() {
		return "", nil
	}
	return f.Text(), nil
}

// SetField stores value for key, replacing the previous value
func (t *Tag) SetField(key FieldKey, value string) error {
	id, err := t.fieldID(key)
	if err != nil {
		return err
	}
	if isDescribed(id) {
		if f := t.describedFrame(id); f != nil && f.Supported() {
			f.SetText(value)
			return nil
		}
		t.AddFrame(NewTextFrame(t.version, id, value))
		return nil
	}
	f := NewTextFrame(t.version, id, value)
	if !f.Supported() {
		return fmt.Errorf("%w: %s has no text body in %s", ErrUnsupportedOperation, id, t.version)
	}
	if value != "" && !datatype.ISO88591.CanEncode(value) && t.version == frames.V24 {
		f.Body.SetTextEncoding(datatype.UTF8)
	}
	t.SetFrame(f)
	return nil
}

// DeleteField removes the frame storing key
func (t *Tag) DeleteField(key FieldKey) error {
	id, err := t.fieldID(key)
	if err != nil {
		return err
	}
	if !isDescribed(id) {
		t.RemoveFrame(id)
		return nil
	}
	e := t.Entry(id)
	if e == nil {
		return nil
	}
	var kept []*Frame
	for _, f := range e.Frames() {
		if f.Body.Text(FieldDescription) != "" {
			kept = append(kept, f)
		}
	}
	t.SetFrames(id, kept)
	return nil
}

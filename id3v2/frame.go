package id3v2

import (
	"fmt"

	"github.com/mikkyang/id3-go/encodedbytes"
	"github.com/zhangxincheng/fork-jaudiotagger/datatype"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

// v2.3 frame flag bits
const (
	v23TagAlter    uint16 = 0x8000
	v23FileAlter   uint16 = 0x4000
	v23ReadOnly    uint16 = 0x2000
	v23Compression uint16 = 0x0080
	v23Encryption  uint16 = 0x0040
	v23Grouping    uint16 = 0x0020
)

// v2.4 frame flag bits
const (
	v24TagAlter      uint16 = 0x4000
	v24FileAlter     uint16 = 0x2000
	v24ReadOnly      uint16 = 0x1000
	v24Grouping      uint16 = 0x0040
	v24Compression   uint16 = 0x0008
	v24Encryption    uint16 = 0x0004
	v24Unsync        uint16 = 0x0002
	v24DataLengthInd uint16 = 0x0001
)

// FrameFlags holds the frame header flags independent of the tag version.
// Compression and unsynchronisation are undone on read and not reapplied
// on write.
type FrameFlags struct {
	TagAlterDiscard  bool
	FileAlterDiscard bool
	ReadOnly         bool
	Grouped          bool
	Group            byte
	Compressed       bool
	Encrypted        bool
}

func (fl FrameFlags) encode(v frames.Version) uint16 {
	var w uint16
	set := func(b bool, bit uint16) {
		if b {
			w |= bit
		}
	}
	switch v {
	case frames.V23:
		set(fl.TagAlterDiscard, v23TagAlter)
		set(fl.FileAlterDiscard, v23FileAlter)
		set(fl.ReadOnly, v23ReadOnly)
		set(fl.Grouped, v23Grouping)
	case frames.V24:
		set(fl.TagAlterDiscard, v24TagAlter)
		set(fl.FileAlterDiscard, v24FileAlter)
		set(fl.ReadOnly, v24ReadOnly)
		set(fl.Grouped, v24Grouping)
	}
	return w
}

func decodeFlags(v frames.Version, w uint16) FrameFlags {
	switch v {
	case frames.V23:
		return FrameFlags{
			TagAlterDiscard:  w&v23TagAlter != 0,
			FileAlterDiscard: w&v23FileAlter != 0,
			ReadOnly:         w&v23ReadOnly != 0,
			Grouped:          w&v23Grouping != 0,
			Compressed:       w&v23Compression != 0,
			Encrypted:        w&v23Encryption != 0,
		}
	case frames.V24:
		return FrameFlags{
			TagAlterDiscard:  w&v24TagAlter != 0,
			FileAlterDiscard: w&v24FileAlter != 0,
			ReadOnly:         w&v24ReadOnly != 0,
			Grouped:          w&v24Grouping != 0,
			Compressed:       w&v24Compression != 0,
			Encrypted:        w&v24Encryption != 0,
		}
	}
	return FrameFlags{}
}

// frameHeaderSize is the length of a frame header in version v
func frameHeaderSize(v frames.Version) int {
	if v == frames.V22 {
		return 6
	}
	return 10
}

// Frame is one frame of a tag
type Frame struct {
	Flags FrameFlags
	Body  *datatype.Body
	// OriginalID is the id the frame carried before a version conversion
	OriginalID string

	id       string
	version  frames.Version
	diskSize int
	rawFlags uint16 // flag word as read, kept for encrypted frames
	date     *RecordingDate
}

// NewFrame returns a frame with an empty body declared for id in version v
func NewFrame(v frames.Version, id string) *Frame {
	return &Frame{id: id, version: v, Body: NewBody(v, id)}
}

// NewTextFrame returns a frame with its text field set to s
func NewTextFrame(v frames.Version, id, s string) *Frame {
	f := NewFrame(v, id)
	f.SetText(s)
	return f
}

func (f *Frame) ID() string { return f.id }

func (f *Frame) Version() frames.Version { return f.version }

// Description is the registry description of the frame id
func (f *Frame) Description() string {
	if r := frames.For(f.version); r != nil {
		return r.Description(f.id)
	}
	return ""
}

// Supported reports whether the body was decoded into typed fields
func (f *Frame) Supported() bool {
	return f.Body != nil && !f.Body.Unsupported()
}

// Text returns the text or URL carried by the frame
func (f *Frame) Text() string {
	if f.Body == nil {
		return ""
	}
	if f.Body.Field(FieldText) != nil {
		return f.Body.Text(FieldText)
	}
	return f.Body.Text(FieldURL)
}

// SetText replaces the frame text. Text frames of v2.4 hold a list of
// values and get a single entry.
func (f *Frame) SetText(s string) {
	if f.Body == nil {
		return
	}
	f.date = nil
	f.diskSize = 0
	id := FieldText
	if f.Body.Field(id) == nil {
		id = FieldURL
	}
	field := f.Body.Field(id)
	if field == nil {
		return
	}
	if _, ok := field.Value.(datatype.Strings); ok {
		field.Value = datatype.Strings{s}
		return
	}
	field.Value = datatype.String(s)
}

// body encodes the frame body as it is written for the frame version
func (f *Frame) body() ([]byte, error) {
	if f.Body == nil {
		return nil, nil
	}
	if f.version != frames.V24 {
		switch f.Body.TextEncoding() {
		case datatype.UTF16BE, datatype.UTF8:
			// Only ISO-8859-1 and UTF-16 exist before v2.4
			f.Body.SetTextEncoding(datatype.UTF16)
		}
	}
	b, err := f.Body.Encode()
	if err != nil {
		return nil, &FrameError{ID: f.id, Err: err}
	}
	if f.Flags.Grouped && f.version != frames.V22 && !f.Flags.Encrypted {
		b = append([]byte{f.Flags.Group}, b...)
	}
	return b, nil
}

// Bytes encodes header and body of the frame
func (f *Frame) Bytes() ([]byte, error) {
	body, err := f.body()
	if err != nil {
		return nil, err
	}
	if len(f.id) != f.version.IDLength() {
		return nil, &FrameError{ID: f.id, Err: fmt.Errorf("id is not valid in %s", f.version)}
	}
	out := make([]byte, 0, frameHeaderSize(f.version)+len(body))
	out = append(out, f.id...)
	switch f.version {
	case frames.V22:
		if len(body) >= 1<<24 {
			return nil, &FrameError{ID: f.id, Err: ErrTagTooLarge}
		}
		out = append(out, encodedbytes.NormBytes(uint32(len(body)))[1:]...)
	case frames.V23:
		out = append(out, encodedbytes.NormBytes(uint32(len(body)))...)
	case frames.V24:
		if len(body) >= 1<<28 {
			return nil, &FrameError{ID: f.id, Err: ErrTagTooLarge}
		}
		out = append(out, encodedbytes.SynchBytes(uint32(len(body)))...)
	}
	if f.version != frames.V22 {
		flags := f.Flags.encode(f.version)
		if f.Flags.Encrypted {
			flags = f.rawFlags
		}
		out = append(out, byte(flags>>8), byte(flags))
	}
	return append(out, body...), nil
}

// Size is the number of bytes the frame takes when written
func (f *Frame) Size() (int, error) {
	b, err := f.Bytes()
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// DiskSize is the number of bytes the frame took in the data it was read
// from. Frames built in memory, or changed with SetText, report their
// encoded size instead, and zero when they cannot be encoded.
func (f *Frame) DiskSize() int {
	if f.diskSize > 0 {
		return f.diskSize
	}
	n, _ := f.Size()
	return n
}

// Copy returns a deep copy of f
func (f *Frame) Copy() (*Frame, error) {
	c := *f
	if f.Body != nil {
		body, err := f.Body.Copy()
		if err != nil {
			return nil, &FrameError{ID: f.id, Err: err}
		}
		c.Body = body
	}
	if f.date != nil {
		d := *f.date
		c.date = &d
	}
	return &c, nil
}

var binaryFields = []string{FieldPictureData, FieldData, FieldIdentifier}

func (f *Frame) IsBinary() bool {
	if !f.Supported() {
		return true
	}
	for _, id := range binaryFields {
		if f.Body.Field(id) != nil {
			return true
		}
	}
	return false
}

var commonIDs = map[string]bool{
	"TIT2": true, "TPE1": true, "TALB": true, "TYER": true, "TDRC": true,
	"TRCK": true, "TCON": true, "COMM": true,
	"TT2": true, "TP1": true, "TAL": true, "TYE": true, "TRK": true,
	"TCO": true, "COM": true,
}

func (f *Frame) IsCommon() bool { return commonIDs[f.id] }

func (f *Frame) IsEmpty() bool {
	if f.Body == nil {
		return true
	}
	for _, id := range append([]string{FieldText, FieldURL}, binaryFields...) {
		switch v := f.Body.Value(id).(type) {
		case datatype.String:
			return v == ""
		case datatype.Strings:
			return len(v) == 0 || (len(v) == 1 && v[0] == "")
		case datatype.Bytes:
			return len(v) == 0
		}
	}
	return false
}

func (f *Frame) RawContent() ([]byte, error) { return f.Bytes() }

func (f *Frame) String() string {
	return fmt.Sprintf("%s(%d)", f.id, f.DiskSize())
}

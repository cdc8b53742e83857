package id3v2

import (
	"fmt"
	"log"
	"strings"

	"github.com/zhangxincheng/fork-jaudiotagger/datatype"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

// ConvertTo returns a copy of t as a tag of version v. Frame ids are
// renamed, v2.3 date frames are merged into TDRC and back, and frames the
// target version has no place for are dropped.
func (t *Tag) ConvertTo(v frames.Version) (*Tag, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
	if v == t.version {
		return t.Copy()
	}
	c := NewTag(v)
	c.flags = t.flags & FlagExperimental
	for _, f := range t.Frames() {
		for _, cf := range convertFrame(f, v) {
			if frames.MultipleAllowed(cf.ID()) {
				c.AddFrame(cf)
				continue
			}
			c.copyFrame(cf)
		}
	}
	return c, nil
}

func convertFrame(f *Frame, v frames.Version) []*Frame {
	if f.Flags.Encrypted {
		log.Printf("[WARN] id3v2: dropping encrypted frame %s", f.ID())
		return nil
	}
	if f.ID() == "TDRC" && v != frames.V24 {
		var out []*Frame
		for _, part := range f.RecordingDate().split() {
			id, ok := frames.Convert(frames.V23, v, part.ID)
			if !ok {
				continue
			}
			p := NewTextFrame(v, id, part.Text)
			p.Flags, p.OriginalID = f.Flags, f.ID()
			p.Body.SetTextEncoding(f.Body.TextEncoding())
			out = append(out, p)
		}
		return out
	}
	id, ok := frames.Convert(f.version, v, f.ID())
	if !ok {
		if f.Supported() || len(f.ID()) != v.IDLength() {
			log.Printf("[DEBUG] id3v2: %s has no equivalent in %s", f.ID(), v)
			return nil
		}
		id = f.ID()
	}
	if !f.Supported() && id != f.ID() {
		log.Printf("[DEBUG] id3v2: cannot rename undecoded frame %s to %s", f.ID(), id)
		return nil
	}
	body, err := convertBody(f, v, id)
	if err != nil {
		log.Printf("[DEBUG] id3v2: dropping %s: %v", f.ID(), err)
		return nil
	}
	flags := f.Flags
	if v == frames.V22 {
		flags = FrameFlags{}
	}
	return []*Frame{{id: id, version: v, Body: body, Flags: flags, OriginalID: f.ID()}}
}

// convertBody declares a body for id in v and fills it from the fields of
// f with the same name.
func convertBody(f *Frame, v frames.Version, id string) (*datatype.Body, error) {
	if !f.Supported() {
		raw := f.Body.Value(FieldData)
		specs, ok := bodySpecs(v, id)
		if !ok {
			b, _ := raw.(datatype.Bytes)
			return datatype.NewUnsupportedBody(id, b), nil
		}
		body := datatype.NewBody(id, specs)
		if b, ok := raw.(datatype.Bytes); ok {
			if err := body.Decode(b); err != nil {
				return nil, err
			}
		}
		return body, nil
	}
	specs, ok := bodySpecs(v, id)
	if !ok {
		return nil, fmt.Errorf("no %s layout for %s", v, id)
	}
	body := datatype.NewBody(id, specs)
	for _, field := range body.Fields() {
		old := f.Body.Value(field.ID)
		if old == nil {
			continue
		}
		val, err := adaptValue(old, field.Value)
		if err != nil {
			return nil, err
		}
		field.Value = val
	}
	if err := convertPictureFormat(f.Body, body); err != nil {
		return nil, err
	}
	return body, nil
}

// adaptValue converts old to the kind of zero, joining or wrapping text
// lists as needed.
func adaptValue(old, zero datatype.Value) (datatype.Value, error) {
	switch z := zero.(type) {
	case datatype.String:
		if l, ok := old.(datatype.Strings); ok {
			return datatype.String(strings.Join(l, "; ")), nil
		}
	case datatype.Strings:
		if s, ok := old.(datatype.String); ok {
			return datatype.Strings{string(s)}, nil
		}
	default:
		if old.Kind() != z.Kind() {
			return nil, &datatype.TypeError{Want: z.Kind(), Got: old}
		}
	}
	return datatype.Clone(old)
}

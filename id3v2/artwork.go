package id3v2

import (
	"fmt"
	"strings"

	"github.com/zhangxincheng/fork-jaudiotagger/datatype"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

// PictureFrontCover is the picture type of a front cover
const PictureFrontCover byte = 0x03

// Artwork is an attached picture. Data holds the image file as it is, the
// picture is never decoded.
type Artwork struct {
	MIMEType    string
	PictureType byte
	Description string
	Data        []byte
}

// imageFormats maps MIME types to the three letter image format of v2.2
// PIC frames.
var imageFormats = map[string]string{
	"image/jpeg":      "JPG",
	"image/png":       "PNG",
	"image/gif":       "GIF",
	"image/bmp":       "BMP",
	"image/tiff":      "TIF",
	"image/x-pict":    "PCT",
	"application/pdf": "PDF",
}

var mimeTypes = func() map[string]string {
	m := make(map[string]string, len(imageFormats))
	for k, v := range imageFormats {
		m[v] = k
	}
	return m
}()

// ImageFormat returns the v2.2 image format for a MIME type
func ImageFormat(mimeType string) (string, bool) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	f, ok := imageFormats[mimeType]
	return f, ok
}

// MIMEType returns the MIME type for a v2.2 image format, empty when the
// format is unknown.
func MIMEType(imageFormat string) string {
	return mimeTypes[strings.ToUpper(imageFormat)]
}

// pictureMIMEType falls back to image/<format> for formats without a
// known MIME type
func pictureMIMEType(format string) string {
	if m := MIMEType(format); m != "" {
		return m
	}
	return "image/" + strings.ToLower(format)
}

// artworkID is the picture frame of version v
func artworkID(v frames.Version) (string, error) {
	id := "APIC"
	if v == frames.V22 {
		id = "PIC"
	}
	if _, ok := frames.For(v).Lookup(id); !ok {
		return "", fmt.Errorf("%w: artwork in %s tag", ErrUnsupportedOperation, v)
	}
	return id, nil
}

func artworkOf(f *Frame) (Artwork, bool) {
	if !f.Supported() {
		return Artwork{}, false
	}
	a := Artwork{Description: f.Body.Text(FieldDescription)}
	if f.Body.Field(FieldImageFormat) != nil {
		a.MIMEType = pictureMIMEType(f.Body.Text(FieldImageFormat))
	} else {
		a.MIMEType = f.Body.Text(FieldMIMEType)
	}
	if n, ok := f.Body.Value(FieldPictureType).(datatype.Uint); ok {
		a.PictureType = byte(n)
	}
	if b, ok := f.Body.Value(FieldPictureData).(datatype.Bytes); ok {
		a.Data = append([]byte(nil), b...)
	}
	return a, true
}

// Artworks returns the pictures of the tag in order
func (t *Tag) Artworks() []Artwork {
	id, err := artworkID(t.version)
	if err != nil {
		return nil
	}
	e := t.Entry(id)
	if e == nil {
		return nil
	}
	var out []Artwork
	for _, f := range e.Frames() {
		if a, ok := artworkOf(f); ok {
			out = append(out, a)
		}
	}
	return out
}

// FirstArtwork returns the first picture of the tag
func (t *Tag) FirstArtwork() (Artwork, bool) {
	as := t.Artworks()
	if len(as) == 0 {
		return Artwork{}, false
	}
	return as[0], true
}

// NewArtworkFrame builds the picture frame of version v for a
func NewArtworkFrame(v frames.Version, a Artwork) (*Frame, error) {
	id, err := artworkID(v)
	if err != nil {
		return nil, err
	}
	f := NewFrame(v, id)
	body := f.Body
	if v == frames.V22 {
		format, ok := ImageFormat(a.MIMEType)
		if !ok {
			return nil, fmt.Errorf("%w: %q artwork in %s tag", ErrUnsupportedOperation, a.MIMEType, v)
		}
		err = body.SetValue(FieldImageFormat, datatype.String(format))
	} else {
		err = body.SetValue(FieldMIMEType, datatype.String(a.MIMEType))
	}
	if err != nil {
		return nil, err
	}
	for _, set := range []struct {
		id string
		v  datatype.Value
	}{
		{FieldPictureType, datatype.Uint(a.PictureType)},
		{FieldDescription, datatype.String(a.Description)},
		{FieldPictureData, datatype.Bytes(append([]byte(nil), a.Data...))},
	} {
		if err := body.SetValue(set.id, set.v); err != nil {
			return nil, err
		}
	}
	if v == frames.V24 && !datatype.ISO88591.CanEncode(a.Description) {
		body.SetTextEncoding(datatype.UTF8)
	}
	return f, nil
}

// SetArtwork replaces all pictures of the tag with a
func (t *Tag) SetArtwork(a Artwork) error {
	f, err := NewArtworkFrame(t.version, a)
	if err != nil {
		return err
	}
	t.SetFrames(f.ID(), []*Frame{f})
	return nil
}

// AddArtwork appends a to the pictures of the tag
func (t *Tag) AddArtwork(a Artwork) error {
	f, err := NewArtworkFrame(t.version, a)
	if err != nil {
		return err
	}
	t.AddFrame(f)
	return nil
}

// DeleteArtwork removes all pictures
func (t *Tag) DeleteArtwork() error {
	id, err := artworkID(t.version)
	if err != nil {
		return err
	}
	t.RemoveFrame(id)
	return nil
}

// convertPictureFormat carries the image type across the MIME type of
// APIC and the image format of PIC.
func convertPictureFormat(from, to *datatype.Body) error {
	switch {
	case from.Field(FieldMIMEType) != nil && to.Field(FieldImageFormat) != nil:
		mime := from.Text(FieldMIMEType)
		format, ok := ImageFormat(mime)
		if !ok {
			return fmt.Errorf("%w: no image format for %q", ErrUnsupportedOperation, mime)
		}
		return to.SetValue(FieldImageFormat, datatype.String(format))
	case from.Field(FieldImageFormat) != nil && to.Field(FieldMIMEType) != nil:
		mime := MIMEType(from.Text(FieldImageFormat))
		if mime == "" {
			mime = "image/" + strings.ToLower(from.Text(FieldImageFormat))
		}
		return to.SetValue(FieldMIMEType, datatype.String(mime))
	}
	return nil
}

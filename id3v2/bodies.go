package id3v2

import (
	"github.com/zhangxincheng/fork-jaudiotagger/datatype"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
)

// Field ids used by the body declarations below
const (
	FieldText        = "Text"
	FieldDescription = "Description"
	FieldURL         = "URL"
	FieldOwner       = "Owner"
	FieldIdentifier  = "Identifier"
	FieldLanguage    = "Language"
	FieldMIMEType    = "MIMEType"
	FieldImageFormat = "ImageFormat"
	FieldPictureType = "PictureType"
	FieldPictureData = "PictureData"
	FieldData        = "Data"
	FieldEmail       = "Email"
	FieldRating      = "Rating"
	FieldCounter     = "Counter"
)

// Languages lists the ISO-639-2 codes offered for language fields
var Languages = map[string]string{
	"eng": "English",
	"fre": "French",
	"ger": "German",
	"ita": "Italian",
	"jpn": "Japanese",
	"spa": "Spanish",
	"dut": "Dutch",
	"por": "Portuguese",
	"rus": "Russian",
	"chi": "Chinese",
	"XXX": "Unknown",
}

var PictureTypes = map[uint64]string{
	0x00: "Other",
	0x01: "32x32 pixels 'file icon' (PNG only)",
	0x02: "Other file icon",
	0x03: "Cover (front)",
	0x04: "Cover (back)",
	0x05: "Leaflet page",
	0x06: "Media (e.g. label side of CD)",
	0x07: "Lead artist/lead performer/soloist",
	0x08: "Artist/performer",
	0x09: "Conductor",
	0x0A: "Band/Orchestra",
	0x0B: "Composer",
	0x0C: "Lyricist/text writer",
	0x0D: "Recording Location",
	0x0E: "During recording",
	0x0F: "During performance",
	0x10: "Movie/video screen capture",
	0x11: "A bright coloured fish",
	0x12: "Illustration",
	0x13: "Band/artist logotype",
	0x14: "Publisher/Studio logotype",
}

var (
	encodingSpec = datatype.Spec{
		ID:    datatype.TextEncodingField,
		Codec: datatype.FixedNumber{Size: 1, Names: datatype.TextEncodingNames},
	}
	languageSpec = datatype.Spec{
		ID:      FieldLanguage,
		Codec:   datatype.FixedString{Size: 3, Names: Languages},
		Default: datatype.String("eng"),
	}
	descriptionSpec = datatype.Spec{ID: FieldDescription, Codec: datatype.NullTerminatedString{}}
	textSpec        = datatype.Spec{ID: FieldText, Codec: datatype.SizeTerminatedString{}}
	textListSpec    = datatype.Spec{ID: FieldText, Codec: datatype.NullTerminatedStrings{}}
	urlSpec         = datatype.Spec{ID: FieldURL, Codec: datatype.SizeTerminatedString{Latin1: true}}
	ownerSpec       = datatype.Spec{ID: FieldOwner, Codec: datatype.NullTerminatedString{Latin1: true}}
	pictureTypeSpec = datatype.Spec{
		ID:      FieldPictureType,
		Codec:   datatype.FixedNumber{Size: 1, Names: PictureTypes},
		Default: datatype.Uint(3),
	}
)

// bodySpecs returns the field layout of frame id in version v. Frames that
// are not part of v, or have no declared layout, report false and are kept
// as opaque bytes.
func bodySpecs(v frames.Version, id string) ([]datatype.Spec, bool) {
	r := frames.For(v)
	if r == nil {
		return nil, false
	}
	if _, ok := r.Lookup(id); !ok {
		return nil, false
	}
	switch id {
	case "TXXX", "TXX":
		return []datatype.Spec{encodingSpec, descriptionSpec, textSpec}, true
	case "WXXX", "WXX":
		return []datatype.Spec{encodingSpec, descriptionSpec, urlSpec}, true
	case "UFID", "UFI":
		return []datatype.Spec{ownerSpec, {ID: FieldIdentifier, Codec: datatype.SizeTerminatedBytes{}}}, true
	case "COMM", "COM", "USLT", "ULT":
		return []datatype.Spec{encodingSpec, languageSpec, descriptionSpec, textSpec}, true
	case "USER":
		return []datatype.Spec{encodingSpec, languageSpec, textSpec}, true
	case "APIC":
		return []datatype.Spec{
			encodingSpec,
			{ID: FieldMIMEType, Codec: datatype.NullTerminatedString{Latin1: true}, Default: datatype.String("image/jpeg")},
			pictureTypeSpec,
			descriptionSpec,
			{ID: FieldPictureData, Codec: datatype.SizeTerminatedBytes{}},
		}, true
	case "PIC":
		return []datatype.Spec{
			encodingSpec,
			{ID: FieldImageFormat, Codec: datatype.FixedString{Size: 3}, Default: datatype.String("JPG")},
			pictureTypeSpec,
			descriptionSpec,
			{ID: FieldPictureData, Codec: datatype.SizeTerminatedBytes{}},
		}, true
	case "PRIV":
		return []datatype.Spec{ownerSpec, {ID: FieldData, Codec: datatype.SizeTerminatedBytes{}}}, true
	case "POPM", "POP":
		return []datatype.Spec{
			{ID: FieldEmail, Codec: datatype.NullTerminatedString{Latin1: true}},
			{ID: FieldRating, Codec: datatype.FixedNumber{Size: 1}},
			{ID: FieldCounter, Codec: datatype.VariableNumber{}},
		}, true
	case "PCNT", "CNT":
		return []datatype.Spec{{ID: FieldCounter, Codec: datatype.VariableNumber{MinSize: 4}}}, true
	case "RVA2":
		return []datatype.Spec{{ID: FieldData, Codec: datatype.SizeTerminatedBytes{}}}, true
	}
	switch id[0] {
	case 'T':
		if v == frames.V24 {
			return []datatype.Spec{encodingSpec, textListSpec}, true
		}
		return []datatype.Spec{encodingSpec, textSpec}, true
	case 'W':
		return []datatype.Spec{urlSpec}, true
	}
	return nil, false
}

// NewBody returns an empty body for frame id in version v, or an empty
// unsupported body when the frame has no layout in v.
func NewBody(v frames.Version, id string) *datatype.Body {
	specs, ok := bodySpecs(v, id)
	if !ok {
		return datatype.NewUnsupportedBody(id, nil)
	}
	return datatype.NewBody(id, specs)
}

// IsTextFrame reports whether id is a plain text information frame
func IsTextFrame(id string) bool {
	return len(id) > 0 && id[0] == 'T' && id != "TXXX" && id != "TXX"
}

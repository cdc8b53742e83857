// Package models contain shared records
package models

// TagField is one field of a tag, whatever the container format
type TagField interface {
	ID() string
	IsBinary() bool
	// IsCommon reports whether the field is one most formats carry
	IsCommon() bool
	IsEmpty() bool
	RawContent() ([]byte, error)
}

// ChunkSummary describes one chunk of a RIFF or AIFF container
type ChunkSummary struct {
	ID            string `json:"id"`
	StartLocation int64  `json:"start_location"`
	Size          int64  `json:"size"`
}

// EndLocation is the offset just past the chunk header and data
func (c ChunkSummary) EndLocation() int64 {
	return c.StartLocation + c.Size + 8
}

// AudioInfo represents the facts derived from the first audio frame
type AudioInfo struct {
	StartByte      int64   `json:"start_byte"`
	Format         string  `json:"format"`
	EncodingType   string  `json:"encoding_type"`
	ChannelMode    string  `json:"channel_mode"`
	Emphasis       string  `json:"emphasis"`
	SampleRate     int     `json:"sample_rate"`
	BitRate        string  `json:"bit_rate"`
	VBR            bool    `json:"vbr"`
	NumberOfFrames int64   `json:"number_of_frames"`
	TrackLength    string  `json:"track_length"`
	Seconds        float64 `json:"seconds"`
}

// FrameInfo represents one frame of a tag
type FrameInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Size        int    `json:"size"`
	Supported   bool   `json:"supported"`
	Text        string `json:"text,omitempty"`
}

// ArtworkInfo represents one attached picture, without its image data
type ArtworkInfo struct {
	MIMEType    string `json:"mime_type"`
	PictureType string `json:"picture_type"`
	Description string `json:"description,omitempty"`
	Size        int    `json:"size"`
}

// TagStats represents the anomalies tolerated while reading a tag
type TagStats struct {
	DuplicateBytes    int      `json:"duplicate_bytes"`
	DuplicateFrameIDs []string `json:"duplicate_frame_ids,omitempty"`
	EmptyFrameBytes   int      `json:"empty_frame_bytes"`
	InvalidFrameBytes int      `json:"invalid_frame_bytes"`
	FileReadSize      int      `json:"file_read_size"`
}

// InspectResponse represents the response of an inspection
type InspectResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Audio     *AudioInfo        `json:"audio,omitempty"`
	Version   string            `json:"version,omitempty"`
	TagSize   int               `json:"tag_size,omitempty"`
	Frames    []FrameInfo       `json:"frames,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Artwork   []ArtworkInfo     `json:"artwork,omitempty"`
	Stats     *TagStats         `json:"stats,omitempty"`
}

// TagResponse represents an error answer of the update and delete endpoints
type TagResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

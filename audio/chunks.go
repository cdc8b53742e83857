package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/zhangxincheng/fork-jaudiotagger/id3v2"
	"github.com/zhangxincheng/fork-jaudiotagger/models"
)

// ErrNotChunked is returned for data that is neither RIFF nor AIFF
var ErrNotChunked = errors.New("audio: not a RIFF or AIFF container")

const chunkHeaderSize = 8

// Chunks lists the top level chunks of a RIFF or AIFF container
type Chunks struct {
	Form   string // "WAVE", "AIFF", "AIFC"
	Chunks []models.ChunkSummary
	// ID3 is the chunk holding an ID3v2 tag, if any
	ID3 *models.ChunkSummary
}

// ScanChunks walks the chunk list of a size byte container. RIFF sizes
// are little-endian, AIFF sizes big-endian; chunks are padded to even
// length in both.
func ScanChunks(r io.ReaderAt, size int64) (*Chunks, error) {
	head := make([]byte, 12)
	if _, err := r.ReadAt(head, 0); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotChunked
		}
		return nil, err
	}
	var order binary.ByteOrder
	switch string(head[:4]) {
	case "RIFF":
		order = binary.LittleEndian
	case "FORM":
		order = binary.BigEndian
	default:
		return nil, ErrNotChunked
	}
	c := &Chunks{Form: string(head[8:12])}
	end := int64(order.Uint32(head[4:8])) + chunkHeaderSize
	if end > size {
		log.Printf("[DEBUG] audio: container claims %d bytes, file has %d", end, size)
		end = size
	}

	hdr := make([]byte, chunkHeaderSize)
	for pos := int64(12); pos+chunkHeaderSize <= end; {
		if _, err := r.ReadAt(hdr, pos); err != nil {
			return nil, fmt.Errorf("audio: chunk header at %d: %w", pos, err)
		}
		ch := models.ChunkSummary{
			ID:            string(hdr[:4]),
			StartLocation: pos,
			Size:          int64(order.Uint32(hdr[4:])),
		}
		if ch.EndLocation() > end {
			log.Printf("[WARN] audio: chunk %q at %d overruns container", ch.ID, pos)
			break
		}
		c.Chunks = append(c.Chunks, ch)
		if ch.ID == "id3 " || ch.ID == "ID3 " {
			id3 := ch
			c.ID3 = &id3
		}
		pos = ch.EndLocation() + ch.Size%2
	}
	return c, nil
}

// ReadTag parses the ID3v2 tag stored in the container's id3 chunk
func (c *Chunks) ReadTag(r io.ReaderAt) (*id3v2.Tag, error) {
	if c.ID3 == nil {
		return nil, id3v2.ErrNoTag
	}
	return id3v2.ReadFrom(io.NewSectionReader(r, c.ID3.StartLocation+chunkHeaderSize, c.ID3.Size))
}

package mp3parser

import (
	"errors"
	"io"
	"log"
)

const (
	// FileBufferSize is the size of the window the synchronizer scans
	FileBufferSize = 5000
	// bytes kept in reserve at the end of the window so a header and the
	// largest Xing summary can always be read from it
	minBufferRemaining = frameHeaderSize + xingMaxOffset + xingMaxSize
)

// ErrSyncNotFound is returned when no valid audio frame exists after start
var ErrSyncNotFound = errors.New("mp3parser: no audio frame found")

// SyncPoint is the first genuine audio frame of a stream
type SyncPoint struct {
	Offset int64
	Header *FrameHeader
	Xing   *XingFrame
}

type window struct {
	r    io.ReaderAt
	buf  []byte
	n    int
	base int64
}

// fill reloads the window so that it starts at the absolute offset at
func (w *window) fill(at int64) error {
	n, err := w.r.ReadAt(w.buf, at)
	if err != nil && err != io.EOF {
		return err
	}
	w.n, w.base = n, at
	return nil
}

// Seek scans r from start for the first audio frame. A candidate header
// is accepted when it carries a Xing summary or when another header
// parses exactly one frame length further on.
func Seek(r io.ReaderAt, start int64) (*SyncPoint, error) {
	w := &window{r: r, buf: make([]byte, FileBufferSize)}
	if err := w.fill(start); err != nil {
		return nil, err
	}
	for pos := start; ; pos++ {
		if w.n-int(pos-w.base) <= minBufferRemaining {
			if err := w.fill(pos); err != nil {
				return nil, err
			}
			if w.n <= minBufferRemaining {
				return nil, ErrSyncNotFound
			}
		}
		rel := int(pos - w.base)
		if !isSync(w.buf[rel:w.n]) {
			continue
		}
		h, err := ParseFrameHeader(w.buf[rel:w.n])
		if err != nil {
			continue
		}
		log.Printf("[DEBUG] mp3parser: possible header at 0x%x", pos)

		if off := findXing(h, w.buf[rel:w.n]); off >= 0 {
			x, err := ParseXingFrame(w.buf[rel+off : w.n])
			if err != nil {
				log.Printf("[DEBUG] mp3parser: ignoring corrupt xing frame at 0x%x: %v", pos, err)
				x = nil
			}
			return &SyncPoint{Offset: pos, Header: h, Xing: x}, nil
		}

		ok, err := w.nextFrameValid(pos, h)
		if err != nil {
			return nil, err
		}
		if ok {
			return &SyncPoint{Offset: pos, Header: h}, nil
		}
	}
}

// nextFrameValid checks for a second header one frame length after pos.
// The window may be reloaded to start at pos.
func (w *window) nextFrameValid(pos int64, h *FrameHeader) (bool, error) {
	if h.FrameLength > FileBufferSize-minBufferRemaining {
		log.Printf("[DEBUG] mp3parser: frame size %d is too large to be a frame", h.FrameLength)
		return false, nil
	}
	if w.n-int(pos-w.base) <= minBufferRemaining+h.FrameLength {
		if err := w.fill(pos); err != nil {
			return false, err
		}
		if w.n <= minBufferRemaining {
			log.Printf("[DEBUG] mp3parser: nearly at end of file at 0x%x", pos)
			return false, nil
		}
	}
	next := int(pos-w.base) + h.FrameLength
	if next+frameHeaderSize > w.n || !isSync(w.buf[next:w.n]) {
		return false, nil
	}
	if _, err := ParseFrameHeader(w.buf[next:w.n]); err != nil {
		return false, nil
	}
	return true, nil
}

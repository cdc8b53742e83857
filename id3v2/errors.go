package id3v2

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTag is returned when the data does not start with an ID3v2 header
	ErrNoTag = errors.New("id3v2: no tag")
	// ErrUnsupportedOperation is returned for edits the tag version cannot hold
	ErrUnsupportedOperation = errors.New("id3v2: unsupported operation")
	ErrUnsupportedVersion   = errors.New("id3v2: unsupported version")
	ErrTagTooLarge          = errors.New("id3v2: frames do not fit in tag")
)

// FrameError is a frame whose header or body breaks the format
type FrameError struct {
	ID  string
	Err error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("id3v2: frame %s: %v", e.ID, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

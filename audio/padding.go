// Package audio edits the tags of audio files on disk.
package audio

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// SurgeryError reports a failed read, write or rename while rewriting a
// file. The original file is left as it was.
type SurgeryError struct {
	Op   string
	Path string
	Err  error
}

func (e *SurgeryError) Error() string {
	return fmt.Sprintf("audio: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SurgeryError) Unwrap() error { return e.Err }

// AdjustPadding rewrites path as paddingSize zero bytes followed by the
// audio data that starts at audioStart. The new file is fully written to a
// temporary file next to the original and renamed over it, keeping the
// permissions and modification time of the original.
func AdjustPadding(path string, paddingSize int, audioStart int64) (err error) {
	if paddingSize < 0 || audioStart < 0 {
		return &SurgeryError{Op: "adjust", Path: path, Err: fmt.Errorf("negative padding %d or audio start %d", paddingSize, audioStart)}
	}
	log.Printf("[DEBUG] audio: moving audio of %s from %d to %d", path, audioStart, paddingSize)

	in, err := os.Open(path)
	if err != nil {
		return &SurgeryError{Op: "open", Path: path, Err: err}
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return &SurgeryError{Op: "stat", Path: path, Err: err}
	}
	if audioStart > info.Size() {
		return &SurgeryError{Op: "adjust", Path: path, Err: fmt.Errorf("audio start %d beyond end of %d byte file", audioStart, info.Size())}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &SurgeryError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(make([]byte, paddingSize)); err != nil {
		return &SurgeryError{Op: "write", Path: tmpName, Err: err}
	}
	copied, err := io.Copy(tmp, io.NewSectionReader(in, audioStart, info.Size()-audioStart))
	if err != nil {
		return &SurgeryError{Op: "copy", Path: tmpName, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &SurgeryError{Op: "sync", Path: tmpName, Err: err}
	}
	if want := info.Size() - audioStart; copied != want {
		err = fmt.Errorf("copied %d of %d audio bytes", copied, want)
		return &SurgeryError{Op: "copy", Path: tmpName, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &SurgeryError{Op: "close", Path: tmpName, Err: err}
	}
	if err = os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return &SurgeryError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err = os.Chtimes(tmpName, info.ModTime(), info.ModTime()); err != nil {
		return &SurgeryError{Op: "chtimes", Path: tmpName, Err: err}
	}
	in.Close()
	if err = os.Rename(tmpName, path); err != nil {
		return &SurgeryError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

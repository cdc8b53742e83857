package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	bogem "github.com/bogem/id3v2/v2"
	dhowden "github.com/dhowden/tag"
	"github.com/fortytw2/leaktest"
	"github.com/wader/osleaktest"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
	"github.com/zhangxincheng/fork-jaudiotagger/id3v2"
)

func leakChecks(t *testing.T) func() {
	leakFn := leaktest.Check(t)
	osLeakFn := osleaktest.Check(t)

	return func() {
		leakFn()
		osLeakFn()
	}
}

// tempDir is removed by the returned func, which has to run before the
// deferred leak check so the check does not see the test's own files.
func tempDir(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "audio-test-")
	if err != nil {
		t.Fatal(err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

// MPEG-1 layer III, 128 kbps, 44.1 kHz frames of 417 bytes
func audioFrames(n int) []byte {
	var out []byte
	for i := 0; i < n; i++ {
		f := make([]byte, 417)
		copy(f, []byte{0xFF, 0xFB, 0x90, 0x44})
		f[100] = byte(i)
		out = append(out, f...)
	}
	return out
}

func writeMP3(t *testing.T, dir string, tag *id3v2.Tag, tagSize int) (string, []byte) {
	t.Helper()
	var data []byte
	if tag != nil {
		b, err := tag.Bytes(tagSize)
		if err != nil {
			t.Fatal(err)
		}
		data = b
	}
	audio := audioFrames(20)
	path := filepath.Join(dir, "test.mp3")
	if err := os.WriteFile(path, append(data, audio...), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, audio
}

func titledTag(t *testing.T, v frames.Version, title string) *id3v2.Tag {
	t.Helper()
	tag := id3v2.NewTag(v)
	if err := tag.SetField(id3v2.Title, title); err != nil {
		t.Fatal(err)
	}
	return tag
}

func requiredSize(t *testing.T, tag *id3v2.Tag) int {
	t.Helper()
	n, err := tag.RequiredSize()
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestAdjustPadding(t *testing.T) {
	defer leakChecks(t)()

	dir, rm := tempDir(t)
	defer rm()
	path := filepath.Join(dir, "a.mp3")
	orig := make([]byte, 10200)
	for i := range orig {
		orig[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, orig, 0o640); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := AdjustPadding(path, 1500, 200); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 11500 {
		t.Fatalf("expected 11500 bytes, got %d", len(got))
	}
	if !bytes.Equal(got[:1500], make([]byte, 1500)) {
		t.Error("padding is not zero")
	}
	if !bytes.Equal(got[1500:], orig[200:]) {
		t.Error("audio bytes differ")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("expected mtime %s, got %s", mtime, info.ModTime())
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("expected mode 0640, got %o", info.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the rewritten file, got %d entries", len(entries))
	}
}

func TestAdjustPaddingFailure(t *testing.T) {
	defer leakChecks(t)()

	dir, rm := tempDir(t)
	defer rm()
	path := filepath.Join(dir, "a.mp3")
	orig := []byte("short file")
	if err := os.WriteFile(path, orig, 0o644); err != nil {
		t.Fatal(err)
	}

	err := AdjustPadding(path, 100, 500)
	var se *SurgeryError
	if !errors.As(err, &se) || se.Path != path {
		t.Fatalf("expected surgery error for %s, got %v", path, err)
	}
	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, orig) {
		t.Error("original changed")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 1 {
		t.Errorf("temporary file left behind, %d entries", len(entries))
	}

	err = AdjustPadding(filepath.Join(dir, "missing.mp3"), 10, 0)
	if !errors.Is(err, os.ErrNotExist) || !errors.As(err, &se) || se.Op != "open" {
		t.Errorf("expected open error, got %v", err)
	}
}

func TestReadAndCommit(t *testing.T) {
	defer leakChecks(t)()

	dir, rm := tempDir(t)
	defer rm()

	path, audio := writeMP3(t, dir, titledTag(t, frames.V23, "Before"), 200)
	m, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.AudioStart() != 200 {
		t.Errorf("expected audio at 200, got %d", m.AudioStart())
	}
	if title, _ := m.Tag().Field(id3v2.Title); title != "Before" {
		t.Errorf("unexpected title %q", title)
	}
	if m.AudioHeader().Bitrate != 128 || m.AudioHeader().SampleRate() != 44100 {
		t.Errorf("unexpected audio header %+v", m.AudioHeader())
	}

	// Fits in the existing padding
	m.Tag().SetField(id3v2.Title, "After")
	if err := m.Commit(); err != nil {
		t.Fatal(err)
	}
	info, _ := os.Stat(path)
	if info.Size() != int64(200+len(audio)) {
		t.Errorf("file was resized to %d", info.Size())
	}

	// Outgrows it
	m.Tag().SetField(id3v2.Comment, strings.Repeat("long comment ", 40))
	required := requiredSize(t, m.Tag())
	if err := m.Commit(); err != nil {
		t.Fatal(err)
	}
	if m.AudioStart() != int64(required+id3v2.TagSizeIncrement) {
		t.Errorf("expected audio at %d, got %d", required+id3v2.TagSizeIncrement, m.AudioStart())
	}
	info, _ = os.Stat(path)
	if a := m.AudioHeader(); a.StartByte != m.AudioStart() || a.FileSize != info.Size() {
		t.Errorf("stale audio header: start %d size %d, file of %d", a.StartByte, a.FileSize, info.Size())
	}

	again, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.AudioStart() != m.AudioStart() {
		t.Errorf("expected audio at %d, got %d", m.AudioStart(), again.AudioStart())
	}
	if title, _ := again.Tag().Field(id3v2.Title); title != "After" {
		t.Errorf("unexpected title %q", title)
	}
	if c, _ := again.Tag().Field(id3v2.Comment); !strings.HasPrefix(c, "long comment") {
		t.Errorf("unexpected comment %q", c)
	}
	data, _ := os.ReadFile(path)
	if !bytes.Equal(data[again.AudioStart():], audio) {
		t.Error("audio bytes changed")
	}
}

func TestCommitWithoutTag(t *testing.T) {
	defer leakChecks(t)()

	dir, rm := tempDir(t)
	defer rm()

	path, audio := writeMP3(t, dir, nil, 0)
	m, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Tag() != nil || m.AudioStart() != 0 {
		t.Fatalf("unexpected tag %v at %d", m.Tag(), m.AudioStart())
	}
	tag := m.TagOrNew(frames.V24)
	tag.SetField(id3v2.Title, "Fresh")
	tag.SetField(id3v2.Artist, "Someone")
	tag.SetField(id3v2.Album, "Record")
	if err := m.Commit(); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !bytes.Equal(data[m.AudioStart():], audio) {
		t.Error("audio bytes changed")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	md, err := dhowden.ReadFrom(f)
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	if md.Title() != "Fresh" || md.Artist() != "Someone" || md.Album() != "Record" {
		t.Errorf("dhowden read %q %q %q", md.Title(), md.Artist(), md.Album())
	}

	bt, err := bogem.Open(path, bogem.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer bt.Close()
	if bt.Title() != "Fresh" {
		t.Errorf("bogem read %q", bt.Title())
	}
}

func TestDeleteTag(t *testing.T) {
	defer leakChecks(t)()

	dir, rm := tempDir(t)
	defer rm()

	path, _ := writeMP3(t, dir, titledTag(t, frames.V24, "Gone"), 300)
	m, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteTag(); err != nil {
		t.Fatal(err)
	}
	if m.Tag() != nil {
		t.Error("tag still set")
	}
	data, _ := os.ReadFile(path)
	if !bytes.Equal(data[:3], []byte{0, 0, 0}) {
		t.Errorf("magic not cleared: % x", data[:3])
	}
	again, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Tag() != nil {
		t.Error("tag found after delete")
	}
	if again.AudioStart() != 300 {
		t.Errorf("expected audio at 300, got %d", again.AudioStart())
	}
	// Nothing on disk to clear
	if err := again.DeleteTag(); err != nil {
		t.Fatal(err)
	}
}

func TestReadNoAudio(t *testing.T) {
	defer leakChecks(t)()

	dir, rm := tempDir(t)
	defer rm()

	path := filepath.Join(dir, "empty.mp3")
	if err := os.WriteFile(path, make([]byte, 1000), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("expected error for file without audio")
	}
}

func chunk(order binary.AppendByteOrder, id string, body []byte) []byte {
	out := []byte(id)
	out = order.AppendUint32(out, uint32(len(body)))
	out = append(out, body...)
	if len(body)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func container(order binary.AppendByteOrder, magic, form string, chunks ...[]byte) []byte {
	body := []byte(form)
	for _, c := range chunks {
		body = append(body, c...)
	}
	out := []byte(magic)
	out = order.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

func TestScanChunks(t *testing.T) {
	tag := titledTag(t, frames.V23, "Chunked")
	tb, err := tag.Bytes(requiredSize(t, tag) + 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(tb)%2 == 0 {
		tb = append(tb, 0)
	}

	for _, tc := range []struct {
		name  string
		order binary.AppendByteOrder
		magic string
		form  string
		first string
		id3   string
	}{
		{"wave", binary.LittleEndian, "RIFF", "WAVE", "fmt ", "id3 "},
		{"aiff", binary.BigEndian, "FORM", "AIFF", "COMM", "ID3 "},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := container(tc.order, tc.magic, tc.form,
				chunk(tc.order, tc.first, make([]byte, 18)),
				chunk(tc.order, tc.id3, tb),
				chunk(tc.order, "data", []byte{1, 2, 3, 4}),
			)
			c, err := ScanChunks(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				t.Fatal(err)
			}
			if c.Form != tc.form || len(c.Chunks) != 3 {
				t.Fatalf("unexpected chunks %+v", c)
			}
			if c.Chunks[0].ID != tc.first || c.Chunks[0].StartLocation != 12 || c.Chunks[0].EndLocation() != 12+8+18 {
				t.Errorf("unexpected first chunk %+v", c.Chunks[0])
			}
			if c.Chunks[2].ID != "data" || c.Chunks[2].EndLocation() != int64(len(data)) {
				t.Errorf("unexpected last chunk %+v", c.Chunks[2])
			}
			if c.ID3 == nil || c.ID3.Size != int64(len(tb)) {
				t.Fatalf("unexpected id3 chunk %+v", c.ID3)
			}
			got, err := c.ReadTag(bytes.NewReader(data))
			if err != nil {
				t.Fatal(err)
			}
			if title, _ := got.Field(id3v2.Title); title != "Chunked" {
				t.Errorf("unexpected title %q", title)
			}
		})
	}

	if _, err := ScanChunks(bytes.NewReader(audioFrames(1)), 417); !errors.Is(err, ErrNotChunked) {
		t.Errorf("expected ErrNotChunked, got %v", err)
	}
}

func TestCommitPreserveModTime(t *testing.T) {
	defer leakChecks(t)()

	dir, rm := tempDir(t)
	defer rm()

	mtime := time.Date(2010, 6, 7, 8, 9, 10, 0, time.UTC)
	for _, preserve := range []bool{true, false} {
		path, _ := writeMP3(t, dir, titledTag(t, frames.V23, "Old"), 100)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
		m, err := Read(path)
		if err != nil {
			t.Fatal(err)
		}
		m.PreserveModTime = preserve
		m.Tag().SetField(id3v2.Comment, strings.Repeat("grow ", 100))
		if err := m.Commit(); err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.ModTime().Equal(mtime) != preserve {
			t.Errorf("preserve %v: modification time %s", preserve, info.ModTime())
		}
	}
}

func TestReadSkipsUnknownTagVersion(t *testing.T) {
	defer leakChecks(t)()

	dir, rm := tempDir(t)
	defer rm()

	data := append([]byte{'I', 'D', '3', 5, 0, 0, 0, 0, 0, 100}, make([]byte, 100)...)
	data = append(data, audioFrames(5)...)
	path := filepath.Join(dir, "future.mp3")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Tag() != nil || m.AudioStart() != 110 {
		t.Errorf("expected no tag and audio at 110, got %v at %d", m.Tag(), m.AudioStart())
	}
}

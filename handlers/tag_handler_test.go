package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wader/osleaktest"
	"github.com/zhangxincheng/fork-jaudiotagger/config"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
	"github.com/zhangxincheng/fork-jaudiotagger/id3v2"
	"github.com/zhangxincheng/fork-jaudiotagger/models"
)

func leakChecks(t *testing.T) func() {
	leakFn := leaktest.Check(t)
	osLeakFn := osleaktest.Check(t)

	return func() {
		leakFn()
		osLeakFn()
	}
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		Port:         "8080",
		MaxUploadMB:  4,
		LogLevel:     "INFO",
		TagVersion:   frames.V23,
		TagPadding:   0,
		AllowOrigins: []string{"*"},
	}
	r := gin.New()
	r.Use(RequestID())
	NewTagHandler(cfg).Register(r.Group("/api/v1"))
	return r
}

// 20 MPEG-1 layer III frames of 417 bytes
func audioData() []byte {
	var out []byte
	for i := 0; i < 20; i++ {
		f := make([]byte, 417)
		copy(f, []byte{0xFF, 0xFB, 0x90, 0x44})
		out = append(out, f...)
	}
	return out
}

func taggedMP3(t *testing.T, title string) []byte {
	t.Helper()
	tag := id3v2.NewTag(frames.V23)
	if err := tag.SetField(id3v2.Title, title); err != nil {
		t.Fatal(err)
	}
	b, err := tag.Bytes(256)
	if err != nil {
		t.Fatal(err)
	}
	return append(b, audioData()...)
}

type formFile struct {
	field, name string
	data        []byte
}

func upload(t *testing.T, r http.Handler, path, filename string, data []byte, fields map[string]string, files ...formFile) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if data != nil {
		files = append([]formFile{{"audio_file", filename, data}}, files...)
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(f.data)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	defer leakChecks(t)()

	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, err := uuid.Parse(w.Header().Get("X-Request-ID")); err != nil {
		t.Errorf("invalid request id: %v", err)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("unexpected status %q", resp["status"])
	}
}

func TestInspect(t *testing.T) {
	defer leakChecks(t)()

	w := upload(t, testRouter(), "/api/v1/tags/inspect", "song.mp3", taggedMP3(t, "Inspected"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	var resp models.InspectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Version != "ID3v2.3" || resp.TagSize != 256 {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Fields["title"] != "Inspected" {
		t.Errorf("unexpected fields %v", resp.Fields)
	}
	if len(resp.Frames) != 1 || resp.Frames[0].ID != "TIT2" || resp.Frames[0].Text != "Inspected" {
		t.Errorf("unexpected frames %+v", resp.Frames)
	}
	if resp.Audio == nil || resp.Audio.StartByte != 256 || resp.Audio.SampleRate != 44100 || resp.Audio.BitRate != "128" {
		t.Errorf("unexpected audio %+v", resp.Audio)
	}
	if resp.Stats == nil || resp.Stats.FileReadSize != 246 {
		t.Errorf("unexpected stats %+v", resp.Stats)
	}
	if resp.RequestID != w.Header().Get("X-Request-ID") {
		t.Errorf("request id %q does not match header", resp.RequestID)
	}
}

func TestInspectErrors(t *testing.T) {
	defer leakChecks(t)()

	r := testRouter()
	for _, tc := range []struct {
		name     string
		filename string
		data     []byte
		status   int
	}{
		{"missing file", "", nil, http.StatusBadRequest},
		{"not mp3 name", "song.wav", audioData(), http.StatusBadRequest},
		{"no audio", "song.mp3", make([]byte, 2000), http.StatusUnprocessableEntity},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := upload(t, r, "/api/v1/tags/inspect", tc.filename, tc.data, nil)
			if w.Code != tc.status {
				t.Errorf("expected %d, got %d: %s", tc.status, w.Code, w.Body)
			}
			var resp models.TagResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Success || resp.Message == "" {
				t.Errorf("unexpected response %+v", resp)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	defer leakChecks(t)()

	w := upload(t, testRouter(), "/api/v1/tags/update", "song.mp3", taggedMP3(t, "Old"), map[string]string{
		"title":   "New title",
		"artist":  "Band",
		"version": "2.4",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	out := w.Body.Bytes()
	start, err := strconv.Atoi(w.Header().Get("X-Audio-Start"))
	if err != nil {
		t.Fatal(err)
	}
	if w.Header().Get("X-Tag-Size") != strconv.Itoa(start) {
		t.Errorf("tag size %q, audio start %d", w.Header().Get("X-Tag-Size"), start)
	}
	if !bytes.Equal(out[start:], audioData()) {
		t.Error("audio bytes changed")
	}
	tag, err := id3v2.Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if tag.Version() != frames.V24 {
		t.Errorf("expected v2.4, got %s", tag.Version())
	}
	for key, want := range map[id3v2.FieldKey]string{id3v2.Title: "New title", id3v2.Artist: "Band"} {
		if got, _ := tag.Field(key); got != want {
			t.Errorf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestUpdateUntagged(t *testing.T) {
	defer leakChecks(t)()

	w := upload(t, testRouter(), "/api/v1/tags/update", "song.mp3", audioData(), map[string]string{"album": "First"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	tag, err := id3v2.Parse(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if tag.Version() != frames.V23 {
		t.Errorf("expected configured v2.3, got %s", tag.Version())
	}
	if album, _ := tag.Field(id3v2.Album); album != "First" {
		t.Errorf("unexpected album %q", album)
	}
}

func TestUpdateRejected(t *testing.T) {
	defer leakChecks(t)()

	r := testRouter()
	for _, tc := range []struct {
		name   string
		fields map[string]string
	}{
		{"unknown field", map[string]string{"colour": "blue"}},
		{"field not in version", map[string]string{"mood": "calm"}},
		{"bad version", map[string]string{"version": "9"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := upload(t, r, "/api/v1/tags/update", "song.mp3", taggedMP3(t, "x"), tc.fields)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	defer leakChecks(t)()

	w := upload(t, testRouter(), "/api/v1/tags/delete", "song.mp3", taggedMP3(t, "Doomed"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	out := w.Body.Bytes()
	if !bytes.Equal(out[:3], []byte{0, 0, 0}) {
		t.Errorf("magic not cleared: % x", out[:3])
	}
	if w.Header().Get("X-Tag-Size") != "0" || w.Header().Get("X-Audio-Start") != "256" {
		t.Errorf("unexpected headers %v", w.Header())
	}
	if _, err := id3v2.Parse(out); err == nil {
		t.Error("tag still parses")
	}
}

func TestUpdateArtwork(t *testing.T) {
	defer leakChecks(t)()

	r := testRouter()
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	w := upload(t, r, "/api/v1/tags/update", "song.mp3", taggedMP3(t, "Pictured"),
		map[string]string{"artwork_type": "4"}, formFile{"artwork", "back.png", png})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	tag, err := id3v2.Parse(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	a, ok := tag.FirstArtwork()
	if !ok || a.MIMEType != "image/png" || a.PictureType != 4 || !bytes.Equal(a.Data, png) {
		t.Fatalf("unexpected artwork %v %+v", ok, a)
	}

	w = upload(t, r, "/api/v1/tags/inspect", "song.mp3", w.Body.Bytes(), nil)
	var resp models.InspectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Artwork) != 1 || resp.Artwork[0].PictureType != "Cover (back)" || resp.Artwork[0].Size != len(png) {
		t.Errorf("unexpected artwork info %+v", resp.Artwork)
	}
}

func TestDeleteArtwork(t *testing.T) {
	defer leakChecks(t)()

	tag := id3v2.NewTag(frames.V23)
	if err := tag.SetArtwork(id3v2.Artwork{MIMEType: "image/jpeg", PictureType: id3v2.PictureFrontCover, Data: []byte{0xFF, 0xD8, 0xFF}}); err != nil {
		t.Fatal(err)
	}
	b, err := tag.Bytes(512)
	if err != nil {
		t.Fatal(err)
	}
	w := upload(t, testRouter(), "/api/v1/tags/update", "song.mp3", append(b, audioData()...), map[string]string{"artwork": ""})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	got, err := id3v2.Parse(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Artworks()) != 0 {
		t.Error("artwork not deleted")
	}
}

func TestUpdateArtworkRejected(t *testing.T) {
	defer leakChecks(t)()

	r := testRouter()
	for _, tc := range []struct {
		name   string
		fields map[string]string
		data   []byte
	}{
		{"not an image", nil, []byte("plain text, not a picture")},
		{"bad picture type", map[string]string{"artwork_type": "300"}, append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := upload(t, r, "/api/v1/tags/update", "song.mp3", taggedMP3(t, "x"), tc.fields, formFile{"artwork", "a.bin", tc.data})
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body)
			}
		})
	}
}

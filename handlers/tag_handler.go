// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zhangxincheng/fork-jaudiotagger/audio"
	"github.com/zhangxincheng/fork-jaudiotagger/config"
	"github.com/zhangxincheng/fork-jaudiotagger/frames"
	"github.com/zhangxincheng/fork-jaudiotagger/id3v2"
	"github.com/zhangxincheng/fork-jaudiotagger/models"
	"github.com/zhangxincheng/fork-jaudiotagger/mp3parser"
)

const requestIDKey = "request_id"

const (
	// versionField selects the version an updated tag is written as
	versionField = "version"
	// artworkField carries the picture file, or is empty to delete artwork
	artworkField     = "artwork"
	artworkTypeField = "artwork_type"
)

type TagHandler struct {
	cfg config.Config
}

func NewTagHandler(cfg config.Config) *TagHandler {
	return &TagHandler{cfg: cfg}
}

// Register adds the tag routes to g
func (h *TagHandler) Register(g *gin.RouterGroup) {
	g.GET("/health", h.HealthCheck)

	tags := g.Group("/tags")
	{
		tags.POST("/inspect", h.Inspect)
		tags.POST("/update", h.Update)
		tags.POST("/delete", h.Delete)
	}
}

// RequestID tags every request with a fresh id
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func (h *TagHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Tag API is running",
		"version": "1.0.0",
	})
}

func (h *TagHandler) fail(c *gin.Context, status int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] handlers: %s: %s", requestID(c), msg)
	}
	c.JSON(status, models.TagResponse{Success: false, Message: msg, RequestID: requestID(c)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, id3v2.ErrUnsupportedOperation):
		return http.StatusBadRequest
	case errors.Is(err, mp3parser.ErrSyncNotFound):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// upload stores the posted audio_file in a temporary file and opens it. The
// returned cleanup removes the file.
func (h *TagHandler) upload(c *gin.Context) (*audio.MP3File, string, func(), bool) {
	if err := c.Request.ParseMultipartForm(h.cfg.MaxUploadBytes()); err != nil {
		h.fail(c, http.StatusBadRequest, "Failed to parse form: %v", err)
		return nil, "", nil, false
	}
	file, header, err := c.Request.FormFile("audio_file")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Audio file is required")
		return nil, "", nil, false
	}
	defer file.Close()
	if !isValidMP3File(header.Filename) {
		h.fail(c, http.StatusBadRequest, "Invalid audio file format. Only MP3 files are supported")
		return nil, "", nil, false
	}

	tmp, err := os.CreateTemp("", "upload_*.mp3")
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to create temp file: %v", err)
		return nil, "", nil, false
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	_, err = io.Copy(tmp, file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		h.fail(c, http.StatusInternalServerError, "Failed to store audio file: %v", err)
		return nil, "", nil, false
	}

	m, err := audio.Read(tmp.Name())
	if err != nil {
		cleanup()
		h.fail(c, statusFor(err), "Failed to analyze MP3 file: %v", err)
		return nil, "", nil, false
	}
	m.Padding = h.cfg.TagPadding
	return m, header.Filename, cleanup, true
}

func (h *TagHandler) Inspect(c *gin.Context) {
	m, _, cleanup, ok := h.upload(c)
	if !ok {
		return
	}
	defer cleanup()

	resp := models.InspectResponse{
		Success:   true,
		Message:   "MP3 file inspected",
		RequestID: requestID(c),
		Audio:     audioInfo(m),
	}
	if tag := m.Tag(); tag != nil {
		resp.Version = tag.Version().String()
		resp.TagSize = tag.FileReadSize() + id3v2.HeaderSize
		resp.Frames = frameInfos(tag)
		resp.Fields = fieldValues(tag)
		resp.Artwork = artworkInfos(tag)
		resp.Stats = &models.TagStats{
			DuplicateBytes:    tag.DuplicateBytes(),
			DuplicateFrameIDs: tag.DuplicateFrameIDs(),
			EmptyFrameBytes:   tag.EmptyFrameBytes(),
			InvalidFrameBytes: tag.InvalidFrameBytes(),
			FileReadSize:      tag.FileReadSize(),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TagHandler) Update(c *gin.Context) {
	m, name, cleanup, ok := h.upload(c)
	if !ok {
		return
	}
	defer cleanup()

	tag := m.TagOrNew(h.cfg.TagVersion)
	if v := c.PostForm(versionField); v != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(v, "2."))
		if err != nil {
			h.fail(c, http.StatusBadRequest, "Invalid tag version %q", v)
			return
		}
		converted, err := tag.ConvertTo(frames.Version(n))
		if err != nil {
			h.fail(c, http.StatusBadRequest, "Failed to convert tag: %v", err)
			return
		}
		tag = converted
		m.SetTag(tag)
	}

	for field, values := range c.Request.PostForm {
		switch field {
		case versionField, artworkField, artworkTypeField:
			continue
		}
		key, ok := id3v2.ParseFieldKey(field)
		if !ok {
			h.fail(c, http.StatusBadRequest, "Unknown field %q", field)
			return
		}
		value := values[len(values)-1]
		var err error
		if value == "" {
			err = tag.DeleteField(key)
		} else {
			err = tag.SetField(key, value)
		}
		if err != nil {
			h.fail(c, statusFor(err), "Failed to set %s: %v", field, err)
			return
		}
	}

	if !h.updateArtwork(c, tag) {
		return
	}

	if err := m.Commit(); err != nil {
		h.fail(c, statusFor(err), "Failed to write tag: %v", err)
		return
	}
	h.send(c, m, name, "tagged")
}

// updateArtwork stores the posted artwork file, or deletes the artwork
// when the artwork field is posted empty.
func (h *TagHandler) updateArtwork(c *gin.Context, tag *id3v2.Tag) bool {
	header, err := c.FormFile(artworkField)
	if errors.Is(err, http.ErrMissingFile) {
		if values, ok := c.Request.PostForm[artworkField]; ok && values[len(values)-1] == "" {
			if err := tag.DeleteArtwork(); err != nil {
				h.fail(c, statusFor(err), "Failed to delete artwork: %v", err)
				return false
			}
		}
		return true
	}
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid artwork: %v", err)
		return false
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to open artwork: %v", err)
		return false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to read artwork: %v", err)
		return false
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		h.fail(c, http.StatusBadRequest, "Artwork is %s, not an image", mime.String())
		return false
	}

	pictureType := id3v2.PictureFrontCover
	if v := c.PostForm(artworkTypeField); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			h.fail(c, http.StatusBadRequest, "Invalid picture type %q", v)
			return false
		}
		pictureType = byte(n)
	}

	err = tag.SetArtwork(id3v2.Artwork{
		MIMEType:    mime.String(),
		PictureType: pictureType,
		Description: header.Filename,
		Data:        data,
	})
	if err != nil {
		h.fail(c, statusFor(err), "Failed to set artwork: %v", err)
		return false
	}
	return true
}

func (h *TagHandler) Delete(c *gin.Context) {
	m, name, cleanup, ok := h.upload(c)
	if !ok {
		return
	}
	defer cleanup()

	if err := m.DeleteTag(); err != nil {
		h.fail(c, statusFor(err), "Failed to delete tag: %v", err)
		return
	}
	h.send(c, m, name, "untagged")
}

// send streams the rewritten file back
func (h *TagHandler) send(c *gin.Context, m *audio.MP3File, name, suffix string) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to read result: %v", err)
		return
	}
	tagSize := 0
	if m.Tag() != nil {
		tagSize = int(m.AudioStart())
	}

	baseFilename := strings.TrimSuffix(name, filepath.Ext(name))
	outputFilename := fmt.Sprintf("%s_%s.mp3", baseFilename, suffix)

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputFilename))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Header("X-Tag-Size", strconv.Itoa(tagSize))
	c.Header("X-Audio-Start", strconv.FormatInt(m.AudioStart(), 10))

	c.Data(http.StatusOK, "audio/mpeg", data)
}

func audioInfo(m *audio.MP3File) *models.AudioInfo {
	a := m.AudioHeader()
	return &models.AudioInfo{
		StartByte:      a.StartByte,
		Format:         a.Format(),
		EncodingType:   a.EncodingType(),
		ChannelMode:    a.Channels(),
		Emphasis:       a.Header.Emphasis.String(),
		SampleRate:     a.SampleRate(),
		BitRate:        a.BitRateString(),
		VBR:            a.VariableBitRate(),
		NumberOfFrames: a.NumberOfFrames,
		TrackLength:    a.TrackLengthString(),
		Seconds:        a.TrackLength,
	}
}

func frameInfos(tag *id3v2.Tag) []models.FrameInfo {
	var out []models.FrameInfo
	for _, f := range tag.Frames() {
		fi := models.FrameInfo{
			ID:          f.ID(),
			Description: f.Description(),
			Size:        f.DiskSize(),
			Supported:   f.Supported(),
		}
		if f.Supported() && !f.IsBinary() {
			fi.Text = f.Text()
		}
		out = append(out, fi)
	}
	return out
}

func fieldValues(tag *id3v2.Tag) map[string]string {
	out := make(map[string]string)
	for _, k := range id3v2.FieldKeys() {
		if v, err := tag.Field(k); err == nil && v != "" {
			out[k.String()] = v
		}
	}
	return out
}

func artworkInfos(tag *id3v2.Tag) []models.ArtworkInfo {
	var out []models.ArtworkInfo
	for _, a := range tag.Artworks() {
		name, ok := id3v2.PictureTypes[uint64(a.PictureType)]
		if !ok {
			name = strconv.Itoa(int(a.PictureType))
		}
		out = append(out, models.ArtworkInfo{
			MIMEType:    a.MIMEType,
			PictureType: name,
			Description: a.Description,
			Size:        len(a.Data),
		})
	}
	return out
}

func isValidMP3File(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".mp3"
}

package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"screen-mockup/internal/background"
	"screen-mockup/internal/compositor"
	"screen-mockup/internal/ingest"
	"screen-mockup/internal/logging"
	"screen-mockup/internal/logo"
	"screen-mockup/internal/material"
	"screen-mockup/internal/session"
)

// Server holds the session the handlers drive.
type Server struct {
	sess   *session.Session
	bright bool // default for POST /api/screen without a bright field
	format compositor.Format
}

// NewServer creates a Server. bright and format are the request defaults.
func NewServer(sess *session.Session, bright bool, format compositor.Format) *Server {
	return &Server{sess: sess, bright: bright, format: format}
}

func (s *Server) health(c *gin.Context) {
	bound := false
	if surf, ok := s.sess.Surface(); ok {
		bound = surf.Slot().Current() != nil
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"surface": s.sess.Options().Surface,
		"bound":   bound,
		"assets":  s.sess.Assets().Len(),
	})
}

// applyScreen accepts a multipart "file" and an optional "bright" field.
func (s *Server) applyScreen(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	bright := s.bright
	if v := c.PostForm("bright"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bright must be a boolean"})
			return
		}
		bright = b
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	if err := s.sess.ApplyImage(c.Request.Context(), f, session.ApplyOptions{Bright: bright}); err != nil {
		s.fail(c, session.OpApply, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "applied", "bright": bright})
}

func (s *Server) clearScreen(c *gin.Context) {
	if err := s.sess.ClearSurface(); err != nil {
		s.fail(c, session.OpClear, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// uploadAsset decodes a background or logo image and returns its id.
func (s *Server) uploadAsset(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	img, err := ingest.DecodeContext(c.Request.Context(), f, s.sess.Options().MaxEdge)
	if err != nil {
		s.fail(c, session.OpApply, err)
		return
	}
	id := s.sess.Assets().Add(img)
	c.JSON(http.StatusCreated, gin.H{"id": id, "width": img.Bounds().Dx(), "height": img.Bounds().Dy()})
}

func (s *Server) qrAsset(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
		Size int    `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Size <= 0 {
		req.Size = 512
	}
	img, err := logo.FromQR(req.Text, req.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := s.sess.Assets().Add(img)
	c.JSON(http.StatusCreated, gin.H{"id": id, "width": img.Bounds().Dx(), "height": img.Bounds().Dy()})
}

func (s *Server) deleteAsset(c *gin.Context) {
	s.sess.Assets().Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// export returns the composited still as a download.
func (s *Server) export(c *gin.Context) {
	req := session.DefaultExportRequest()
	req.Format = ""
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	format := s.format
	if req.Format != "" {
		format = compositor.ParseFormat(req.Format)
	}

	canvas, err := s.sess.ExportImage(c.Request.Context(), req)
	if err != nil {
		s.fail(c, session.OpExport, err)
		return
	}
	var buf bytes.Buffer
	if err := canvas.Encode(&buf, format); err != nil {
		s.fail(c, session.OpExport, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// previewBackground renders only the background layer at an interactive
// size (query "size", default 360) with the same renderer exports use.
func (s *Server) previewBackground(c *gin.Context) {
	req := session.DefaultExportRequest()
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	size := 360
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 16 || n > compositor.Size {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 16 and 720"})
			return
		}
		size = n
	}

	img := background.Render(req.Layers(s.sess.Assets()).Background, size, size)
	var buf bytes.Buffer
	canvas := compositor.Canvas{Image: img}
	if err := canvas.Encode(&buf, compositor.PNG); err != nil {
		s.fail(c, session.OpExport, err)
		return
	}
	c.Data(http.StatusOK, compositor.PNG.ContentType(), buf.Bytes())
}

// fail writes the user-facing message for err with a matching status.
func (s *Server) fail(c *gin.Context, op session.Op, err error) {
	status := http.StatusInternalServerError
	var de *ingest.DecodeError
	switch {
	case errors.As(err, &de):
		status = http.StatusBadRequest
	case errors.Is(err, material.ErrSurfaceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrSuperseded):
		status = http.StatusConflict
	}
	logging.Logger().Warn("request failed", "path", c.FullPath(), "status", status, "err", err)
	c.JSON(status, gin.H{"error": session.Message(op, err)})
}

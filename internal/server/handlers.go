package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/san-kum/driftfield/internal/automation"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/render"
	"github.com/san-kum/driftfield/internal/storage"
)

type frameQuery struct {
	width, height int
	seed          int64
	frames        int
	mode          field.Mode
	pointer       bool
	px, py        float64
}

func (s *Server) parseFrameQuery(c *gin.Context) (frameQuery, error) {
	q := frameQuery{width: 800, height: 600, seed: 1, frames: 60}
	var err error

	if q.width, err = intParam(c, "width", q.width, 0, s.limits.MaxWidth); err != nil {
		return q, err
	}
	if q.height, err = intParam(c, "height", q.height, 0, s.limits.MaxHeight); err != nil {
		return q, err
	}
	if q.frames, err = intParam(c, "frames", q.frames, 1, s.limits.MaxFrames); err != nil {
		return q, err
	}
	if v := c.Query("seed"); v != "" {
		if q.seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return q, fmt.Errorf("seed: %w", err)
		}
	}
	if q.mode, err = field.ParseMode(c.Query("mode")); err != nil {
		return q, err
	}

	px, hasX := c.GetQuery("px")
	py, hasY := c.GetQuery("py")
	if hasX != hasY {
		return q, errors.New("px and py must be given together")
	}
	if hasX {
		if q.px, err = strconv.ParseFloat(px, 64); err != nil {
			return q, fmt.Errorf("px: %w", err)
		}
		if q.py, err = strconv.ParseFloat(py, 64); err != nil {
			return q, fmt.Errorf("py: %w", err)
		}
		q.pointer = true
	}
	return q, nil
}

func intParam(c *gin.Context, name string, def, lo, hi int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be in [%d, %d], got %d", name, lo, hi, n)
	}
	return n, nil
}

// runPreview runs a headless scenario for the query and returns its tape.
func (s *Server) runPreview(c *gin.Context) (*render.Tape, frameQuery, bool) {
	q, err := s.parseFrameQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, q, false
	}

	sc := &automation.Scenario{
		Name:   "preview",
		Width:  q.width,
		Height: q.height,
		Seed:   q.seed,
		Mode:   q.mode,
		Frames: q.frames,
		Params: s.params,
	}
	if q.pointer {
		sc.Events = []automation.Event{{Frame: 0, Type: automation.EventMove, X: q.px, Y: q.py}}
	}

	run, err := automation.RunScenario(c.Request.Context(), sc)
	if err != nil {
		s.log.Error("preview failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, q, false
	}
	return run.Tape, q, true
}

func (s *Server) frameSVG(c *gin.Context) {
	tape, q, ok := s.runPreview(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", tape.SVG(q.mode.Palette().Background))
}

func (s *Server) framePNG(c *gin.Context) {
	tape, q, ok := s.runPreview(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, tape.Raster(q.mode.Palette().Background)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) presets(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		out = append(out, gin.H{
			"name":        name,
			"description": p.Description,
			"params":      field.DefaultParams().Merge(p.Params),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listRuns(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no run store configured"})
		return
	}
	runs, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no run store configured"})
		return
	}
	id := c.Param("id")
	meta, err := s.store.Load(id)
	if err != nil {
		s.storeError(c, err)
		return
	}
	frames, err := s.store.LoadFrames(id)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, storage.ExportData{Run: meta, Frames: frames})
}

func (s *Server) getRunSVG(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no run store configured"})
		return
	}
	data, err := s.store.FinalSVG(c.Param("id"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", data)
}

func (s *Server) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error("store read failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

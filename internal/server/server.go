package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/storage"
)

// Limits bound the work a single preview request may ask for.
type Limits struct {
	MaxWidth  int
	MaxHeight int
	MaxFrames int
}

var DefaultLimits = Limits{MaxWidth: 3840, MaxHeight: 2160, MaxFrames: 3000}

// Server serves rendered previews and the stored run catalog. Every
// request builds its own field, so nothing is shared between handlers.
type Server struct {
	store  *storage.Store
	params field.Params
	limits Limits
	log    *log.Logger
	engine *gin.Engine
}

func New(store *storage.Store, params field.Params, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if params == (field.Params{}) {
		params = field.DefaultParams()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		store:  store,
		params: params,
		limits: DefaultLimits,
		log:    logger,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) SetLimits(l Limits) { s.limits = l }

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/frame.svg", s.frameSVG)
	r.GET("/frame.png", s.framePNG)
	r.GET("/api/presets", s.presets)

	api := r.Group("/api/runs")
	api.GET("", s.listRuns)
	api.GET("/:id", s.getRun)
	api.GET("/:id/final.svg", s.getRunSVG)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

// Run serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

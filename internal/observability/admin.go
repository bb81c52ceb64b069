package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/decld/internal/logging"
	"github.com/danmuck/decld/internal/reactor"
)

var ErrAdminAddrMissing = errors.New("observability: admin listen address is required")

const snapshotTimeout = 2 * time.Second

// AdminConfig configures the admin/introspection HTTP server. The snapshot
// providers run as reactor jobs so the engine stays single-threaded.
type AdminConfig struct {
	Addr        string
	CorsOrigins []string
	Reactor     *reactor.Reactor
	Processes   func() any
	Modules     func() any
	Version     string
}

// AdminServer exposes /health, /metrics, and the engine snapshot routes.
type AdminServer struct {
	cfg       AdminConfig
	srv       *http.Server
	startedAt time.Time
}

func NewAdminServer(cfg AdminConfig) (*AdminServer, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, ErrAdminAddrMissing
	}
	RegisterMetrics()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logging.C(logging.ChannelHTTP)))
	r.Use(RequestMetricsMiddleware())
	if len(cfg.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CorsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	s := &AdminServer{cfg: cfg, startedAt: time.Now()}
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/v1/processes", s.processes)
	r.GET("/v1/modules", s.modules)

	s.srv = &http.Server{Addr: cfg.Addr, Handler: r}
	return s, nil
}

// Start serves in a background goroutine until Shutdown.
func (s *AdminServer) Start() {
	log := logging.C(logging.ChannelHTTP)
	log.Info().Str("addr", s.cfg.Addr).Msg("admin server listening")
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("admin server failed")
		}
	}()
}

func (s *AdminServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *AdminServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startedAt).String(),
		"service": "decld",
		"version": s.cfg.Version,
	})
}

func (s *AdminServer) processes(c *gin.Context) {
	s.snapshot(c, s.cfg.Processes)
}

func (s *AdminServer) modules(c *gin.Context) {
	s.snapshot(c, s.cfg.Modules)
}

// snapshot posts the provider onto the reactor and waits for the result,
// bounded by snapshotTimeout.
func (s *AdminServer) snapshot(c *gin.Context, provider func() any) {
	if provider == nil || s.cfg.Reactor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not available"})
		return
	}
	out := make(chan any, 1)
	s.cfg.Reactor.Post(func() {
		out <- provider()
	})
	select {
	case v := <-out:
		c.JSON(http.StatusOK, v)
	case <-time.After(snapshotTimeout):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "engine busy"})
	}
}

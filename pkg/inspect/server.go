// Package inspect serves a small HTTP API for watching and steering a
// running animation scheduler.
//
// Routes:
//
//	GET    /health                    liveness probe
//	GET    /api/scheduler             settings and load
//	PATCH  /api/scheduler             change settings
//	GET    /api/animations            running tasks
//	DELETE /api/animations/:id        halt a task (?force=true for non-stoppable)
//	GET    /api/ticks                 recent tick timings
//	GET    /api/strategies            registered value types
//	GET    /api/runtime               memory and GC stats
package inspect

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/go-drift/tween/pkg/animation"
	"github.com/go-drift/tween/pkg/errors"
)

// Server exposes one scheduler over HTTP.
type Server struct {
	sched     *animation.Scheduler
	engine    *gin.Engine
	startTime time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New builds the route table for s. A nil s means the shared scheduler.
func New(s *animation.Scheduler) *Server {
	if s == nil {
		s = animation.Shared()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	srv := &Server{sched: s, engine: r, startTime: animation.Now()}
	srv.setupRoutes(r)
	return srv
}

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/scheduler", s.handleGetScheduler)
		api.PATCH("/scheduler", s.handlePatchScheduler)

		animations := api.Group("/animations")
		{
			animations.GET("", s.handleGetAnimations)
			animations.DELETE("/:id", s.handleHaltAnimation)
		}

		api.GET("/ticks", s.handleGetTicks)
		api.GET("/strategies", s.handleGetStrategies)
		api.GET("/runtime", s.handleGetRuntime)
	}
}

// Handler returns the HTTP handler, for mounting or for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when addr asks for an ephemeral port.
// Starting a running server returns its current address.
func (s *Server) Start(addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr().String(), nil
	}

	// Bind first to fail fast on port conflicts
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", &errors.TweenError{Op: "inspect.Start", Kind: errors.KindInspect, Err: fmt.Errorf("listen %s: %w", addr, err)}
	}

	server := &http.Server{Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	s.server = server
	s.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.mu.Lock()
			if s.server == server {
				s.server = nil
				s.listener = nil
			}
			s.mu.Unlock()
			errors.ReportError("inspect.Serve", errors.KindInspect, err)
		}
	}()

	return listener.Addr().String(), nil
}

// Stop gracefully shuts the server down. Stopping a server that is not
// running does nothing.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Package server implements the host-shell boundary: the embedded shell page,
// the bridge operation endpoints, and the server-sent event stream that
// carries forwarded bridge output to the page.
package server

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sevir/gangway/internal/bridge"
	"github.com/sevir/gangway/internal/config"
	"github.com/sevir/gangway/internal/console"
	uiassets "github.com/sevir/gangway/ui"
)

// Server is the local web shell around the bridge supervisor.
type Server struct {
	supervisor *bridge.Supervisor
	hub        *hub
	history    *console.History
	addr       string
	version    string
	commit     string
	config     *config.Config
	httpServer *http.Server

	// devtoolsOpen mirrors the state the shell page reports back; the server
	// itself has no inspector to open.
	devtoolsMu   sync.Mutex
	devtoolsOpen bool
}

// Config holds server configuration.
type Config struct {
	Addr       string
	Supervisor *bridge.Supervisor
	History    *console.History
	Version    string
	Commit     string
	AppConfig  *config.Config
}

// New creates a new shell server and starts the event dispatch loop.
func New(cfg Config) *Server {
	s := &Server{
		supervisor: cfg.Supervisor,
		hub:        newHub(),
		history:    cfg.History,
		addr:       cfg.Addr,
		version:    cfg.Version,
		commit:     cfg.Commit,
		config:     cfg.AppConfig,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.newGinEngine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No timeout for SSE
	}

	go s.dispatch()

	return s
}

// dispatch is the single point where forwarded bridge lines fan out: into the
// scrollback, then to every connected event subscriber. It ends when the
// supervisor's event channel closes.
func (s *Server) dispatch() {
	for line := range s.supervisor.Events() {
		if s.history != nil {
			s.history.Append(line)
		}
		s.hub.publish(event{name: line.Source.EventName(), data: line})
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("shell server starting on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) newGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Optional convenience redirect.
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/ui")
	})

	// UI.
	r.GET("/ui", s.handleUIIndex)
	r.GET("/ui/", s.handleUIIndex)
	if assets, err := fs.Sub(uiassets.FS, "assets"); err == nil {
		r.StaticFS("/ui/assets", http.FS(assets))
	}

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/version", s.handleAPIVersion)
		api.GET("/events", s.handleAPIEvents)
		api.GET("/console", s.handleAPIConsole)

		api.POST("/bridge/write", s.handleBridgeWrite)
		api.GET("/bridge/status", s.handleBridgeStatus)
		api.POST("/bridge/restart", s.handleBridgeRestart)

		// Webview/devtools pass-throughs: pure delegation to the page, no
		// supervisor logic.
		api.POST("/webview/reload", s.handleWebviewControl("webview-reload"))
		api.POST("/webview/back", s.handleWebviewControl("webview-back"))
		api.POST("/webview/forward", s.handleWebviewControl("webview-forward"))
		api.POST("/devtools/open", s.handleDevtoolsSet(true))
		api.POST("/devtools/close", s.handleDevtoolsSet(false))
		api.GET("/devtools", s.handleDevtoolsState)
	}

	return r
}

func (s *Server) handleUIIndex(c *gin.Context) {
	data, err := uiassets.FS.ReadFile("index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "shell page unavailable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"bridge": s.supervisor.Status(),
	})
}

func (s *Server) handleAPIVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": s.version,
		"commit":  s.commit,
	})
}

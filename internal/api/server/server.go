package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"linktree/internal/config"
	database "linktree/internal/db"
	"linktree/internal/display"
	"linktree/internal/storage"

	"linktree/internal/api/handlers"
	"linktree/internal/api/middleware"
)

//go:embed templates/*.html
var templates embed.FS

// Deps are the runtime pieces the routes talk to. DB, Store and Manual may
// be nil.
type Deps struct {
	Board  *display.Board
	Live   handlers.LiveController
	Manual handlers.ManualSwitch
	DB     *database.Client
	Store  *storage.Client
}

type Server struct {
	cfg    *config.Config
	deps   Deps
	router *gin.Engine
}

func New(cfg *config.Config, deps Deps) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode) // Set to Release for production
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		router: gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.SilentLogger(), gin.Recovery())

	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}

	// "Authorization" must be allowed so a dashboard can send the JWT
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))

	s.router.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))
}

func (s *Server) setupRoutes() {
	// 1. Initialize Modular Handlers
	linkHandler := handlers.NewLinkHandler(s.cfg.Links)
	pageHandler := handlers.NewPageHandler(s.cfg.Streamer.Name, linkHandler, s.deps.Board)
	statusHandler := handlers.NewStatusHandler(s.deps.Board, s.deps.Live, s.deps.DB, s.deps.Store)
	liveHandler := handlers.NewLiveHandler(s.deps.Live, s.deps.Manual)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "linktree"})
	})

	s.router.GET("/", pageHandler.Index)
	s.router.GET("/go/:platform", linkHandler.Redirect)
	s.router.GET("/ws", statusHandler.Stream)
	s.router.GET("/status.json", statusHandler.GetStatusFile)

	v1 := s.router.Group("/api/v1")
	{
		// ==========================================
		// PUBLIC ROUTES (No Token Required)
		// ==========================================
		v1.GET("/links", linkHandler.GetLinks)
		v1.GET("/status", statusHandler.GetStatus)
		v1.GET("/status/history", statusHandler.GetHistory)

		// ==========================================
		// PROTECTED ROUTES (JWT Token Required)
		// ==========================================
		protected := v1.Group("/live")
		protected.Use(middleware.RequireAuth([]byte(s.cfg.Auth.JWTSecret)), middleware.RequireRole(middleware.RoleStreamer))
		{
			protected.POST("", liveHandler.SetLive)
			protected.POST("/check", liveHandler.Check)
			protected.POST("/rotate", liveHandler.Rotate)
		}
	}
}

// Handler exposes the router (tests, custom listeners).
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the router so the caller can shut it down gracefully.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

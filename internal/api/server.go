package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/mleague-analyst/internal/api/handler"
	"github.com/user/mleague-analyst/internal/api/middleware"
	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/repository"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

// ServerDeps holds all dependencies for the API server.
type ServerDeps struct {
	Chat          handler.Answerer
	Inspector     repository.CacheInspector
	DB            handler.Pinger
	DBPath        string
	LLMConfigured bool
	Model         string
	Metrics       *metrics.Manager
	RateLimit     *middleware.RateLimitConfig
	Logger        *zap.Logger
}

// NewServer creates a new API server with all routes configured.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware. CORS runs before the limiter so preflights are free.
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.CORS())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(deps.RateLimit))

	healthHandler := handler.NewHealthHandler(deps.DB, deps.LLMConfigured, deps.Model)
	r.GET("/api/health", healthHandler.Health)

	chatHandler := handler.NewChatHandler(deps.Chat, logger)
	r.POST("/chat", chatHandler.Chat)

	debugHandler := handler.NewDebugHandler(deps.Inspector, deps.DBPath, logger)
	r.GET("/debug", debugHandler.Debug)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	r.NoRoute(handler.NotFound)

	return &Server{
		router: r,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

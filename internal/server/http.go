package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/memebin/memebin/internal/conf"
	"github.com/memebin/memebin/internal/meme/service"
	"github.com/memebin/memebin/internal/pkg/logger"
	"go.uber.org/zap"
)

// HTTPServer serves the public and admin meme APIs
type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

// NewHTTPServer builds the gin engine and mounts all routes
func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	memeService *service.MemeService,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")
	memeService.RegisterPublicRoutes(api)

	admin := router.Group("/api/v1")
	admin.Use(APIKeyAuth(config.Auth.AdminAPIKey))
	memeService.RegisterAdminRoutes(admin)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	return &HTTPServer{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		logger: log,
	}
}

// Start blocks serving requests until Stop is called
func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Stop shuts the server down gracefully
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"masscal/internal"
	"masscal/internal/config"
)

// Server hosts the calibration HTTP API
type Server struct {
	router     *gin.Engine
	handler    *CalibrationHandler
	logger     *internal.Logger
	httpServer *http.Server
	cfg        config.ServerConfig
}

// NewServer builds the router and registers routes
func NewServer(cfg config.ServerConfig, handler *CalibrationHandler, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	s := &Server{
		router:  gin.New(),
		handler: handler,
		logger:  logger,
		cfg:     cfg,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.RecoveryWithWriter(s.logger.Writer()))
	s.router.Use(RequestLogger(s.logger))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.handler.HandleHealth)
		api.POST("/calibrations", s.handler.HandleCalibrate)
		api.POST("/calibrations/batch", s.handler.HandleCalibrateBatch)
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("calibration API listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down calibration API")
	return s.httpServer.Shutdown(shutdownCtx)
}

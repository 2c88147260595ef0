// Package worker contains the background delivery for the account service:
// the Pub/Sub push endpoint and the periodic session cleanup loop.
package worker

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"ridelink/config"
	"ridelink/internal/delivery"
	"ridelink/internal/delivery/middleware"
	"ridelink/internal/delivery/worker/handler"
	"ridelink/internal/domain/lifecycle"
	"ridelink/internal/usecase"
	"ridelink/internal/util"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultSessionCleanupInterval = time.Hour

type workerServer struct {
	cfg             *config.Config
	logger          *slog.Logger
	server          *echo.Echo
	sessionUC       usecase.SessionUsecase
	cleanupInterval time.Duration
	cleanupStop     chan struct{}
}

// ServerParams holds dependencies for the worker server
type ServerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	PushHandler *handler.PushHandler
	SessionUC   usecase.SessionUsecase
}

// NewServer creates a new worker HTTP server
func NewServer(params ServerParams) (delivery.Delivery, error) {
	e := echo.New()
	e.HideBanner = true

	// Set up middleware in correct order
	// 1. Recover middleware first (to catch panics early)
	e.Use(echomiddleware.Recover())

	// 2. Request ID middleware (must be before logger to include in logs)
	requestIDMiddleware := middleware.NewRequestIDMiddleware(params.Logger)
	e.Use(requestIDMiddleware.Process)

	// 3. Logger middleware
	loggerMiddleware := middleware.NewLoggerMiddleware(params.Logger, params.Cfg)
	e.Use(loggerMiddleware.Handle)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Pub/Sub push endpoint
	e.POST("/push", params.PushHandler.HandlePush)

	cleanupInterval := defaultSessionCleanupInterval
	if params.Cfg.Worker != nil && params.Cfg.Worker.SessionCleanupInterval > 0 {
		cleanupInterval = params.Cfg.Worker.SessionCleanupInterval
	}

	srv := &workerServer{
		cfg:             params.Cfg,
		logger:          params.Logger,
		server:          e,
		sessionUC:       params.SessionUC,
		cleanupInterval: cleanupInterval,
		cleanupStop:     make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// Serve starts the worker HTTP server and the session cleanup loop
func (s *workerServer) Serve(ctx context.Context) error {
	go s.runSessionCleanup(ctx)

	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting Worker HTTP server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// runSessionCleanup deletes expired refresh tokens on a fixed interval until
// the server is stopped.
func (s *workerServer) runSessionCleanup(ctx context.Context) {
	s.logger.Info("Starting session cleanup loop",
		slog.String("interval", util.FormatDuration(s.cleanupInterval)),
	)

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := s.sessionUC.CleanupExpiredSessions(ctx)
			if err != nil {
				s.logger.Error("[Worker] Session cleanup failed", slog.Any("error", err))

				continue
			}
			if removed > 0 {
				s.logger.Info("[Worker] Expired sessions removed", slog.Int64("count", removed))
			}
		case <-s.cleanupStop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// stop gracefully shuts down the worker server
func (s *workerServer) stop(ctx context.Context) error {
	close(s.cleanupStop)

	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down Worker HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/eChanneling-Revamp/payment-service/internal/adapter/handler/http"
	"github.com/eChanneling-Revamp/payment-service/internal/config"
	"github.com/eChanneling-Revamp/payment-service/internal/middleware/auth"
	"github.com/eChanneling-Revamp/payment-service/pkg/logger"
)

const defaultBodyLimit = "1M"

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	webhooks handlers.WebhookProcessor
	payments handlers.PaymentQuery
}

func NewServer(cfg *config.Config, log *zap.Logger, webhooks handlers.WebhookProcessor, payments handlers.PaymentQuery) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	logger.WithEchoLogger(e, log)

	e.Server.ReadTimeout = cfg.Server.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.HTTP.WriteTimeout

	bodyLimit := cfg.Server.HTTP.BodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		webhooks: webhooks,
		payments: payments,
	}
	s.setupRoutes()
	return s
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Address()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	webhookHandler := handlers.NewPayHereWebhookHandler(s.webhooks, s.logger)
	paymentHandler := handlers.NewPaymentHandler(s.payments, s.logger)

	// Webhook routes (outside API versioning, authenticated by signature)
	webhooks := s.echo.Group("/webhooks")
	webhooks.POST("/payhere", webhookHandler.HandleWebhook)
	// answers 403 unless test notifications are enabled
	webhooks.POST("/payhere/test", webhookHandler.HandleTestWebhook)
	if s.config.Service.TestEndpointsEnabled() {
		s.logger.Warn("Unverified test webhook endpoint enabled",
			zap.String("environment", s.config.Service.Environment))
	}

	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
	}

	// Inspection API (requires JWT authentication)
	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))
	v1.GET("/payments/:id", paymentHandler.GetPayment)
	v1.GET("/payments/:id/events", paymentHandler.ListPaymentEvents)
	v1.GET("/webhook-audit-logs", paymentHandler.ListWebhookAuditLogs)
}

package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/vitafit/payment-service/internal/adapter/handler/http"
	"github.com/vitafit/payment-service/internal/config"
	"github.com/vitafit/payment-service/internal/infrastructure/database"
	"github.com/vitafit/payment-service/internal/infrastructure/provider/mercadopago"
	"github.com/vitafit/payment-service/internal/middleware/auth"
	"github.com/vitafit/payment-service/internal/notification"
	"github.com/vitafit/payment-service/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	// MercadoPago posts notifications cross-origin with no configurable
	// headers, so the CORS surface stays permissive.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type", "x-signature"},
	}))

	return &Server{
		config: cfg,
		logger: logger,
		echo:   e,
		repos:  repos,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	mpClient := mercadopago.NewClient(
		s.config.Service.MercadoPago.BaseURL,
		s.config.Service.MercadoPago.AccessToken,
		s.logger,
	)

	sender := notification.NewEmailSender(
		s.config.SMTP.Host,
		s.config.SMTP.Port,
		s.config.SMTP.Username,
		s.config.SMTP.Password,
		s.config.SMTP.FromAddress,
		s.logger,
	)

	reconcileUsecase := usecase.NewReconcileUsecase(mpClient, s.repos.Subscription, s.repos.Identity, sender, s.logger)
	subscriptionUsecase := usecase.NewSubscriptionUsecase(s.repos.Subscription, s.logger)

	webhookHandler := handlers.NewWebhookHandler(s.logger, s.config.Service.MercadoPago.WebhookSecret, reconcileUsecase, s.repos.WebhookEvent)
	subscriptionHandler := handlers.NewSubscriptionHandler(s.logger, subscriptionUsecase)

	// API v1 routes (require Supabase JWT)
	v1 := s.echo.Group("/api/v1")
	protected := v1.Group("", auth.JWTMiddleware(auth.JWTConfig{
		Secret: s.config.Service.Supabase.JWTSecret,
		Logger: s.logger,
	}))
	protected.GET("/subscriptions/current", subscriptionHandler.GetCurrentSubscription)

	// Internal/Debug routes
	if s.config.Service.Environment != "production" {
		s.echo.GET("/internal/webhook-data", webhookHandler.GetWebhookData)
	}

	// Webhook route (outside API versioning, no JWT — the processor
	// authenticates with the x-signature header instead)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
}

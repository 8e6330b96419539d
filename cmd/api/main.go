package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lironregev/studio-leads/internal/api/router"
	"github.com/lironregev/studio-leads/internal/board"
	appconfig "github.com/lironregev/studio-leads/internal/config"
	"github.com/lironregev/studio-leads/internal/geoip"
	"github.com/lironregev/studio-leads/internal/leads"
	"github.com/lironregev/studio-leads/internal/notify"
	"github.com/lironregev/studio-leads/internal/observability/metrics"
	"github.com/lironregev/studio-leads/internal/tracking"
	"github.com/lironregev/studio-leads/pkg/logging"
)

func main() {
	// Local development convenience; ignored when no .env file exists.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lead ingestion server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	geoClient := geoip.NewClient(cfg.GeoIPBaseURL, cfg.GeoIPTimeout, logger)

	boardClient := board.NewClient(board.Config{
		Endpoint:   cfg.BoardAPIURL,
		APIVersion: cfg.BoardAPIVersion,
		APIToken:   cfg.BoardAPIToken,
		BoardID:    cfg.BoardID,
		Timeout:    cfg.BoardTimeout,
	}, logger)

	leadMetrics := metrics.NewLeadMetrics(nil)

	notifyService := notify.NewService(buildEmailSender(cfg, logger), cfg.EmailRecipients, leadMetrics, logger)

	trackingStore := tracking.NewStore(cfg.SessionTTL)
	trackingHandler := tracking.NewHandler(trackingStore, logger)

	leadsHandler := leads.NewHandler(leads.HandlerConfig{
		Geo:      geoClient,
		Board:    boardClient,
		Notifier: notifyService,
		Sessions: trackingHandler,
		Metrics:  leadMetrics,
		Logger:   logger,
		Timezone: cfg.BoardTimezone,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		TrackingHandler:    trackingHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender picks the configured email backend. A missing or
// unconfigured provider disables notifications rather than failing startup.
func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "resend":
		sender := notify.NewResendSender(notify.ResendConfig{
			APIKey:    cfg.ResendAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
			Timeout:   cfg.EmailTimeout,
		}, logger)
		if sender == nil {
			logger.Warn("resend selected but RESEND_API_KEY not set - notifications disabled")
			return nil
		}
		return sender
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid selected but SENDGRID_API_KEY not set - notifications disabled")
			return nil
		}
		return sender
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config - notifications disabled", "error", err)
			return nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
	case "", "none":
		logger.Info("email notifications disabled")
		return nil
	default:
		logger.Warn("unknown email provider - notifications disabled", "provider", cfg.EmailProvider)
		return nil
	}
}

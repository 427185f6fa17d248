package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"salonpro-api/config"
	"salonpro-api/models"
	"salonpro-api/repository"
	"salonpro-api/routes"
	"salonpro-api/services"
	"salonpro-api/utils"
)

const taskWorkers = 2

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := utils.SetupLogger(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.SetPhoneCountryCode(cfg.PhoneCountryCode)
	if err := utils.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, generated a random secret; sessions will not survive a restart")
		cfg.JWTSecret = utils.GenerateJWTSecret()
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	if db == nil {
		logger.Warn("DB_URL not set, data endpoints will report the store as not configured")
	} else if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store := repository.New(db)
	loc := cfg.Location()

	queue := services.NewTaskQueue(cfg.TaskQueueSize, logger)
	queue.Start(taskWorkers)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL())
	authService := services.NewAuthService(store, tokens, logger)
	loyalty := services.NewLoyaltyUpdater(store, logger)

	var sender services.MessageSender = services.LogSender{Logger: logger}
	if cfg.TwilioConfigured() {
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.TwilioWhatsAppNumber)
	}
	reminders := services.NewReminderService(store, sender, cfg.LoyaltyThreshold, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if db != nil {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminName); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		if err := reminders.Start(cfg.ReminderSchedule); err != nil {
			return err
		}
		defer reminders.Stop()
	}

	router := routes.SetupRouter(routes.Dependencies{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		CookieSecure:   cfg.CookieSecure,
		LoginLimiter:   utils.NewRateLimiter(cfg.LoginRatePerSecond, cfg.LoginBurst),
		Health:         store,
		Auth:           authService,
		Dashboard:      services.NewDashboardService(store, cfg.LoyaltyThreshold, loc, logger),
		Feedback:       services.NewFeedbackService(store, loyalty, queue, logger),
		Treatments:     services.NewTreatmentService(store, loc, logger),
		Catalog:        services.NewCatalogService(store, logger),
		Reports:        services.NewReportService(store, loc, logger),
		Reminders:      reminders,
	})
	for _, route := range router.Routes() {
		logger.Debug("route", "method", route.Method, "path", route.Path)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	queue.Close()
	return nil
}

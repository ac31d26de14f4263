package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/perfume-storefront/config"
	"github.com/ikkim/perfume-storefront/internal/app/controller"
	"github.com/ikkim/perfume-storefront/internal/app/repository"
	"github.com/ikkim/perfume-storefront/internal/app/service"
	"github.com/ikkim/perfume-storefront/internal/catalog"
	"github.com/ikkim/perfume-storefront/internal/db"
	"github.com/ikkim/perfume-storefront/internal/middleware"
	"github.com/ikkim/perfume-storefront/internal/router"
	"github.com/ikkim/perfume-storefront/internal/scheduler"
	"github.com/ikkim/perfume-storefront/internal/storage"
	ws "github.com/ikkim/perfume-storefront/internal/websocket"
	"github.com/ikkim/perfume-storefront/pkg/emailjs"
	"github.com/ikkim/perfume-storefront/pkg/logger"
	"github.com/ikkim/perfume-storefront/pkg/paypal"
	pkgredis "github.com/ikkim/perfume-storefront/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Server.LogLevel
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.LogFormat == "console",
	})

	logger.Info("Starting perfume storefront server", map[string]interface{}{
		"environment":   cfg.Server.Environment,
		"port":          cfg.Server.Port,
		"log_level":     logLevel,
		"state_backend": cfg.State.Backend,
	})

	// State backend
	store, purger, closeStore := openStore(cfg)
	defer closeStore()

	// Gift card catalog
	source := openCatalog(cfg)

	// Outbound mail
	mailer, err := emailjs.NewClient(emailjs.Config{
		BaseURL:    cfg.EmailJS.BaseURL,
		ServiceID:  cfg.EmailJS.ServiceID,
		PublicKey:  cfg.EmailJS.PublicKey,
		PrivateKey: cfg.EmailJS.PrivateKey,
	})
	if err != nil {
		logger.Fatal("Failed to initialize EmailJS client", err)
	}
	notifications, err := service.NewNotificationService(mailer, service.NotificationTemplates{
		Owner:    cfg.EmailJS.OwnerTemplateID,
		Customer: cfg.EmailJS.CustomerTemplateID,
		GiftCard: cfg.EmailJS.GiftCardTemplateID,
	})
	if err != nil {
		logger.Fatal("Failed to initialize notification service", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	cartRepo := repository.NewCartRepository(store)
	giftCardRepo := repository.NewGiftCardRepository(store)

	// Initialize services
	guard := service.NewInFlightGuard()
	cartService := service.NewCartService(cartRepo, hub)
	cartViewService := service.NewCartViewService(cartService, giftCardRepo)
	giftCardService := service.NewGiftCardService(cartService, giftCardRepo, source, notifications, guard)
	checkoutService, err := service.NewCheckoutService(cartService, giftCardRepo, notifications, paypal.Config{
		Endpoint:  cfg.PayPal.Endpoint,
		Business:  cfg.PayPal.Business,
		Currency:  cfg.PayPal.Currency,
		ReturnURL: cfg.PayPal.ReturnURL,
		CancelURL: cfg.PayPal.CancelURL,
	}, guard)
	if err != nil {
		logger.Fatal("Failed to initialize checkout service", err)
	}

	// Initialize controllers
	cartController := controller.NewCartController(cartService, cartViewService)
	giftCardController := controller.NewGiftCardController(giftCardService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	cartSocketController := controller.NewCartSocketController(cartService, hub, cfg.CORS.AllowedOrigins)

	sessionMiddleware := middleware.NewSessionMiddleware(middleware.SessionConfig{
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
	})

	r := router.NewRouter(
		cartController,
		giftCardController,
		checkoutController,
		cartSocketController,
		sessionMiddleware,
		cfg,
	)
	engine := r.Setup()

	var janitor *scheduler.StateJanitor
	if purger != nil {
		janitor = scheduler.NewStateJanitor(purger, cfg.Janitor.Schedule, cfg.Janitor.MaxAge)
		if err := janitor.Start(); err != nil {
			logger.Fatal("Failed to start state janitor", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	giftCardService.Wait()
	if janitor != nil {
		janitor.Stop()
	}
	cancel()

	logger.Info("Server stopped successfully")
}

// openStore picks the state backend. The purger is nil for backends with
// native expiry.
func openStore(cfg *config.Config) (storage.Store, storage.Purger, func()) {
	switch cfg.State.Backend {
	case "redis":
		client, err := pkgredis.Init(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		return storage.NewRedisStore(client, cfg.State.TTL), nil, func() {
			if err := pkgredis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}

	case "postgres":
		if err := db.Initialize(&cfg.Database); err != nil {
			logger.Fatal("Failed to initialize database", err)
		}
		if err := db.Migrate(db.GetDB()); err != nil {
			logger.Fatal("Failed to run migrations", err)
		}
		store := storage.NewGormStore(db.GetDB())
		return store, store, func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", err)
			}
		}

	default:
		store := storage.NewMemoryStore()
		return store, store, func() {}
	}
}

func openCatalog(cfg *config.Config) catalog.Source {
	switch {
	case cfg.Catalog.URL != "":
		logger.Info("Using remote gift card catalog", map[string]interface{}{
			"url": cfg.Catalog.URL,
		})
		return catalog.NewHTTPSource(cfg.Catalog.URL, &http.Client{Timeout: 30 * time.Second})

	case cfg.Catalog.S3Bucket != "":
		logger.Info("Using S3 gift card catalog", map[string]interface{}{
			"bucket": cfg.Catalog.S3Bucket,
			"key":    cfg.Catalog.S3Key,
		})
		s3 := storage.NewS3Storage(context.Background(), cfg.S3.Region, cfg.Catalog.S3Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		return catalog.NewS3Source(s3, cfg.Catalog.S3Key)

	default:
		logger.Info("Using local gift card catalog", map[string]interface{}{
			"path": cfg.Catalog.FilePath,
		})
		return catalog.NewFileSource(cfg.Catalog.FilePath)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"sellerconnect/internal/adapter/api"
	"sellerconnect/internal/adapter/api/handler"
	apimiddleware "sellerconnect/internal/adapter/api/middleware"
	"sellerconnect/internal/adapter/api/router"
	"sellerconnect/internal/adapter/repository"
	domainrepo "sellerconnect/internal/domain/repository"
	"sellerconnect/internal/domain/service"
	"sellerconnect/internal/infrastructure/dedup"
	"sellerconnect/internal/infrastructure/firebase"
	"sellerconnect/internal/infrastructure/identity"
	"sellerconnect/internal/infrastructure/kafka"
	redisinfra "sellerconnect/internal/infrastructure/redis"
	"sellerconnect/internal/usecase"
	"sellerconnect/pkg/clock"
	"sellerconnect/pkg/config"
	"sellerconnect/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.HealthCheck{}

	var (
		firestoreClient *firestore.Client
		verifier        service.TokenVerifier
	)
	if cfg.StoreDriver == "firestore" || cfg.AnalyticsSink == "firestore" || cfg.FirebaseProject != "" {
		opt := credentialsOption(cfg)

		firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
		if err != nil {
			logger.Error("Failed to initialize Firebase: %v", err)
			os.Exit(1)
		}

		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			logger.Error("Failed to initialize Firebase Auth: %v", err)
			os.Exit(1)
		}
		verifier = firebase.NewFirebaseAuthClient(authClient)

		firestoreClient, err = firestore.NewClient(ctx, cfg.FirebaseProject, opt)
		if err != nil {
			logger.Error("Failed to create Firestore client: %v", err)
			os.Exit(1)
		}
		defer firestoreClient.Close()

		checks["firestore"] = func(ctx context.Context) error {
			_, err := firestoreClient.Collection("contact_interactions").Limit(1).Documents(ctx).Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			return err
		}
	} else {
		logger.Warn("Firebase is not configured; bearer tokens will be rejected")
	}

	var (
		contactRepo domainrepo.ContactInteractionRepository
		ratingRepo  domainrepo.SellerRatingRepository
	)
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("Using in-memory store; data is lost on restart")
		contactRepo = repository.NewMemoryContactRepository()
		ratingRepo = repository.NewMemoryRatingRepository()
	case "firestore":
		contactRepo = repository.NewFirestoreContactRepository(firestoreClient)
		ratingRepo = repository.NewFirestoreRatingRepository(firestoreClient)
	}

	var analyticsRepo domainrepo.AnalyticsRepository
	switch cfg.AnalyticsSink {
	case "kafka":
		publisher := kafka.NewAnalyticsPublisher(kafka.Config{
			Broker:         cfg.KafkaBroker,
			MerchantTopic:  cfg.KafkaMerchantTopic,
			TelemetryTopic: cfg.KafkaTelemetryTopic,
		})
		defer publisher.Close()
		analyticsRepo = publisher
		logger.Info("Publishing analytics to Kafka at %s", cfg.KafkaBroker)
	case "memory":
		analyticsRepo = repository.NewMemoryAnalyticsRepository()
	case "firestore":
		analyticsRepo = repository.NewFirestoreAnalyticsRepository(firestoreClient)
	}

	var dismissalRepo domainrepo.PromptDismissalRepository
	if cfg.RedisAddr != "" {
		rdb, err := redisinfra.NewClient(redisinfra.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Error("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		defer rdb.Close()
		dismissalRepo = redisinfra.NewDismissalStore(rdb, cfg.PromptDismissTTL)
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	} else {
		dismissalRepo = repository.NewMemoryDismissalRepository()
	}

	clk := clock.New()
	deduper := dedup.NewDeduper(clk)
	deduper.StartCleanupRoutine(ctx, time.Minute, cfg.DedupRetention)

	identityProvider := identity.NewContextProvider()

	contactUseCase := usecase.NewContactUseCase(contactRepo, analyticsRepo, identityProvider, deduper, clk, cfg.ContactDedupWindow)
	ratingUseCase := usecase.NewRatingUseCase(ratingRepo, contactRepo, identityProvider, clk)
	promptUseCase := usecase.NewPromptUseCase(contactRepo, ratingRepo, dismissalRepo, identityProvider, clk, usecase.PromptPolicy{
		MinAge:          cfg.PromptMinAge,
		MaxAge:          cfg.PromptMaxAge,
		ReopenCancelled: cfg.PromptReopenCancelled,
	})
	telemetryUseCase := usecase.NewTelemetryUseCase(analyticsRepo, identityProvider, deduper, clk, usecase.TelemetryWindows{
		PageView:   cfg.PageViewDedupWindow,
		Navigation: cfg.NavigationDedupWindow,
		Click:      cfg.ClickDedupWindow,
	})

	handler.Setup(contactUseCase, ratingUseCase, promptUseCase, telemetryUseCase, cfg.PromptInterval)
	handler.SetupHealthHandler(checks)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, apimiddleware.AnonymousIDHeader, handler.SessionIDHeader},
		ExposeHeaders: []string{apimiddleware.AnonymousIDHeader},
	}))

	e.Validator = api.NewValidator()

	identityMiddleware := apimiddleware.NewIdentityMiddleware(verifier)
	telemetryLimiter := apimiddleware.NewRateLimiter(cfg.TelemetryRateLimit, time.Minute, clk)
	telemetryLimiter.StartCleanupRoutine(ctx, 10*time.Minute, time.Hour)

	router.Setup(e, identityMiddleware, telemetryLimiter)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}

func credentialsOption(cfg *config.Config) option.ClientOption {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))
	}

	path := cfg.FirebaseServiceAccountPath
	if path == "" {
		path = "./firebase-service-account.json"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Error("Service account file does not exist: %s", path)
		os.Exit(1)
	}

	logger.Info("Using Firebase service account from file: %s", path)
	return option.WithCredentialsFile(path)
}

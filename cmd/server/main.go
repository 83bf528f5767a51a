package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan_predictor/internal/config"
	"loan_predictor/internal/handler"
	"loan_predictor/internal/middleware"
	"loan_predictor/internal/predictor"
	"loan_predictor/internal/repository"
	"loan_predictor/internal/service"
	"loan_predictor/internal/utils"
	"loan_predictor/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load .env file
	if !config.LoadEnvFile() {
		log.Info("no .env file found, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("invalid LOG_LEVEL, defaulting to info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// --- Credential Store ---
	var userRepo repository.UserRepository
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory credential store, accounts will not survive a restart")
		userRepo = repository.NewMemoryUserRepository()
	default:
		dbPool, err := config.ConnectDB(ctx, cfg.DB, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		defer dbPool.Close()

		if err := config.Migrate(ctx, dbPool, log); err != nil {
			log.WithError(err).Fatal("failed to migrate database")
		}
		userRepo = repository.NewUserRepository(dbPool)
	}

	// --- Prediction Model ---
	loanModel, err := predictor.Load(ctx, cfg.ModelSource, predictor.S3Options{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.WithError(err).WithField("source", cfg.ModelSource).Fatal("failed to load prediction model")
	}
	log.WithFields(logrus.Fields{
		"model":   loanModel.Name(),
		"version": loanModel.Version(),
	}).Info("prediction model loaded")

	templates, err := web.Templates()
	if err != nil {
		log.WithError(err).Fatal("failed to parse templates")
	}

	// --- Services and Handlers ---
	sessionUtil := utils.NewSessionUtil(cfg.SessionSecret, cfg.SessionMaxAgeHours)
	sessions := middleware.NewSessionManager(sessionUtil, cfg.SessionCookieSecure, log)

	authService := service.NewAuthService(userRepo, cfg.BcryptCost, log)
	predictionService := service.NewPredictionService(loanModel)

	router := &handler.Router{
		Log:        log,
		Templates:  templates,
		Sessions:   sessions,
		Auth:       handler.NewAuthHandler(authService, sessions, log),
		Prediction: handler.NewPredictionHandler(predictionService, log),
		Pages:      handler.NewPageHandler(userRepo),
	}

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.ServerPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exiting")
}

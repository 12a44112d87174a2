// RSVP Hub API server.
//
// @title RSVP Hub API
// @version 1.0
// @description Event invitation and RSVP tracking backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"rsvphub/config"
	_ "rsvphub/docs"
	authadapter "rsvphub/internal/adapters/auth"
	"rsvphub/internal/adapters/cache"
	emailadapter "rsvphub/internal/adapters/email"
	httpdelivery "rsvphub/internal/delivery/http"
	"rsvphub/internal/delivery/http/controllers"
	"rsvphub/internal/delivery/http/middleware"
	"rsvphub/internal/repository/postgres"
	"rsvphub/internal/services"
)

const (
	serviceTimeout = 5 * time.Second
	eventViewTTL   = 5 * time.Minute
	bcryptCost     = 12
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(cfg.DBUrl, cfg.MigrationsPath, logger); err != nil {
		logger.Error("run migrations", "err", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	defer redisClient.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRsvpRepository(db)

	// Adapters
	hasher := authadapter.NewBcryptHasher(bcryptCost)
	issuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	verifier := authadapter.NewJWTVerifier(cfg.JWTSecret)
	viewCache := cache.NewRedisEventViewCache(redisClient, eventViewTTL)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer(), logger)
	authService := services.NewAuthService(userRepo, hasher, issuer, emailService, logger, cfg.TokenExpiry)
	eventService := services.NewEventService(eventRepo, rsvpRepo, viewCache, logger, serviceTimeout)
	rsvpService := services.NewRsvpService(eventRepo, rsvpRepo, userRepo, viewCache, emailService, logger, serviceTimeout)

	// Controllers and router
	authController := controllers.NewAuthController(logger, authService)
	eventController := controllers.NewEventController(logger, eventService, cfg.AppBaseURL)
	rsvpController := controllers.NewRsvpController(logger, rsvpService)
	healthController := controllers.NewHealthController(logger,
		db.PingContext,
		func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	)

	requireAuth := middleware.RequireAuth(verifier, logger)
	mux := httpdelivery.NewRouter(authController, eventController, rsvpController, healthController, requireAuth)

	handler := middleware.CORS(cfg.AllowedOrigins,
		middleware.RequestID(
			middleware.LoggingMiddleware(logger,
				middleware.Metrics(mux, mux))))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

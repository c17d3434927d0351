package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/eastbayacademics/tutoring-api/internal/catalog"
	"github.com/eastbayacademics/tutoring-api/internal/config"
	"github.com/eastbayacademics/tutoring-api/internal/handler"
	"github.com/eastbayacademics/tutoring-api/internal/repository"
	"github.com/eastbayacademics/tutoring-api/internal/usecase"
	"github.com/eastbayacademics/tutoring-api/shared/auth"
	"github.com/eastbayacademics/tutoring-api/shared/mailer"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	store, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer store.Close()

	userRepo := repository.NewUserSQLiteRepository(store)
	sessionRepo := repository.NewSessionSQLiteRepository(store)
	enrollmentRepo := repository.NewEnrollmentSQLiteRepository(store)

	notifier := mailer.NewMailer(&logger)
	jwtAuth := auth.NewJWTAuthenticator(cfg.TokenIssuer, cfg.TokenIssuer)

	authUsecase := usecase.NewAuthUsecase(userRepo, sessionRepo, usecase.AuthConfig{
		SessionTTL:         cfg.SessionTTL,
		RememberSessionTTL: cfg.RememberSessionTTL,
	})
	resetUsecase := usecase.NewPasswordResetUsecase(userRepo, jwtAuth, notifier, usecase.PasswordResetConfig{
		SecretKey: cfg.SecretKey,
		BaseURL:   cfg.BaseURL,
		Issuer:    cfg.TokenIssuer,
		TokenTTL:  cfg.ResetTokenTTL,
	}, &logger)
	enrollmentUsecase := usecase.NewEnrollmentUsecase(userRepo, enrollmentRepo, notifier, &logger)

	routes, err := handler.New(&logger, authUsecase, resetUsecase, enrollmentUsecase, catalog.Default())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build handler")
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      routes.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

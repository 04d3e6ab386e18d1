package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pyconafrica/registration/internal/api"
	"github.com/pyconafrica/registration/internal/api/handler"
	"github.com/pyconafrica/registration/internal/core/ports"
	"github.com/pyconafrica/registration/internal/core/service"
	"github.com/pyconafrica/registration/internal/core/validation"
	"github.com/pyconafrica/registration/internal/infrastructure/captcha"
	"github.com/pyconafrica/registration/internal/infrastructure/countries"
	mongostore "github.com/pyconafrica/registration/internal/infrastructure/db/mongo"
	redisstore "github.com/pyconafrica/registration/internal/infrastructure/db/redis"
	"github.com/pyconafrica/registration/internal/infrastructure/mail"
	"github.com/pyconafrica/registration/internal/pkg/config"
	"github.com/pyconafrica/registration/pkg/logger"
)

// @title                       PyCon Africa Registration API
// @version                     1.0
// @description                 Sign-up, activation, login and self-service account management for the PyCon Africa site.
// @BasePath                    /v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "registration",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "pyconafrica-registration",
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongostore.NewUserStore(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Captcha: reCAPTCHA behind a replay guard, or nothing ---
	var verifier ports.CaptchaVerifier
	if cfg.Captcha.Enabled {
		verifier = redisstore.NewCaptchaReplayGuard(rdb, captcha.NewClient(captcha.Config{
			SecretKey: cfg.Captcha.SecretKey,
			VerifyURL: cfg.Captcha.VerifyURL,
			MinScore:  cfg.Captcha.MinScore,
		}))
	}

	// --- Services ---
	policy := validation.DefaultPasswordPolicy(cfg.Registration.MinPasswordLength)
	validator := validation.Registration(users, verifier, validation.Options{
		LowercaseUsername:  cfg.Registration.LowercaseUsername,
		UniqueEmail:        cfg.Registration.UniqueEmail,
		BannedEmailDomains: cfg.Registration.BannedEmailDomains,
		RequireTOS:         cfg.Registration.RequireTOS,
	}, policy)

	registration := service.NewRegistrationService(
		users,
		validator,
		redisstore.NewActivationStore(rdb),
		mail.NewLogMailer(cfg.MailFrom, log.With().Str("component", "mail").Logger()),
		service.RegistrationOptions{
			JWTSecret:           cfg.JWTSecret,
			TokenTTL:            24 * time.Hour,
			SendActivationEmail: cfg.Registration.SendActivationEmail,
			ActivationTTL:       cfg.Registration.ActivationTTL(),
			EmailSubjectPrefix:  cfg.Registration.EmailSubjectPrefix,
			SiteURL:             cfg.SiteURL,
		},
		log.With().Str("component", "registration").Logger(),
	)

	countryList := countries.Default()
	accounts := service.NewAccountService(users, countryList, verifier, policy,
		service.AccountOptions{UniqueEmail: cfg.Registration.UniqueEmail},
		log.With().Str("component", "account").Logger())

	router := api.NewRouter(api.Deps{
		Registration: registration,
		Accounts:     accounts,
		Countries:    countryList,
		JWTSecret:    cfg.JWTSecret,
		Logger:       log,
		Checks: map[string]handler.Check{
			"mongodb": mongostore.PingCheck(mongoClient),
			"redis":   redisstore.PingCheck(rdb),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server exited")
	return nil
}

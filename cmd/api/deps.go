package main

import (
	"context"

	"go.uber.org/zap"

	"smtm/internal/domain/account"
	"smtm/internal/domain/transaction"
	"smtm/internal/infrastructure/firebase"
	"smtm/internal/infrastructure/storage"
	httphandlers "smtm/internal/interfaces/http"
	"smtm/internal/shared/auth"
	"smtm/internal/shared/config"
	"smtm/internal/shared/middleware"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Backend *storage.Backend
	Log     *zap.Logger

	// Handlers
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	PageHandler        *httphandlers.PageHandler

	// Auth
	Verifier    auth.Verifier
	RateLimiter *middleware.RateLimiter
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Dependencies, error) {
	var fb *firebase.App
	if cfg.NeedsFirebase() {
		app, err := firebase.NewApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, err
		}
		fb = app
	}

	backend, err := storage.Open(ctx, cfg, fb, log)
	if err != nil {
		return nil, err
	}

	// Session cookies first, Firebase ID tokens as a fallback for API clients
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	verifiers := auth.Verifiers{jwt}
	if cfg.Firebase.AuthEnabled {
		tv, err := fb.TokenVerifier(ctx)
		if err != nil {
			backend.Close()
			return nil, err
		}
		verifiers = append(verifiers, tv)
		log.Info("firebase id tokens accepted")
	}

	googleOAuth := auth.NewGoogleOAuthProvider(
		cfg.OAuth.ClientID,
		cfg.OAuth.ClientSecret,
		cfg.OAuthRedirectURL(),
	)

	accountService := account.NewService(backend.Store)
	transactionService := transaction.NewService(backend.Store)

	deps := &Dependencies{
		Backend:            backend,
		Log:                log,
		AccountHandler:     httphandlers.NewAccountHandler(accountService, log),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService, log),
		PageHandler:        httphandlers.NewPageHandler(accountService, transactionService, googleOAuth, jwt, log),
		Verifier:           verifiers,
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	}
	return deps, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Backend != nil {
		if err := d.Backend.Close(); err != nil {
			d.Log.Error("failed to close store", zap.Error(err))
		}
	}
}

package main

import (
	"net/http"

	httphandlers "smtm/internal/interfaces/http"
	"smtm/internal/shared/config"
	"smtm/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Pages
	optionalAuth := middleware.OptionalAuth(deps.Verifier)
	mux.Handle("/{$}", optionalAuth(http.HandlerFunc(deps.PageHandler.HandleLanding)))
	mux.HandleFunc("/login", deps.PageHandler.HandleLogin)
	mux.HandleFunc("/oauth/callback", deps.PageHandler.HandleCallback)
	mux.HandleFunc("/logout", deps.PageHandler.HandleLogout)
	mux.Handle("/dashboard", optionalAuth(http.HandlerFunc(deps.PageHandler.HandleDashboard)))

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Protected routes
	authMiddleware := middleware.Auth(deps.Verifier)

	mux.Handle("/api/accounts", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccounts)))
	mux.Handle("/api/account/{key}", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccountByKey)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactions)))
	mux.Handle("/api/transaction/{key}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByKey)))

	// Apply global middleware
	var handler http.Handler = mux
	if deps.RateLimiter != nil {
		handler = deps.RateLimiter.Middleware(handler)
	}
	handler = middleware.CORS(cfg.Server.AllowedHosts)(handler)
	handler = middleware.Logging(deps.Log)(handler)

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		deps.Log.Info("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}

	return handler
}

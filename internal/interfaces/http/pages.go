package http

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"smtm/internal/domain/account"
	"smtm/internal/domain/transaction"
	"smtm/internal/models"
	"smtm/internal/shared/auth"
	"smtm/internal/shared/middleware"
	"smtm/internal/web"
)

const (
	stateCookie        = "oauth_state"
	stateTTL           = 10 * time.Minute
	recentTransactions = 10
)

// SessionIssuer mints the session token stored in the browser cookie.
type SessionIssuer interface {
	Generate(userID, email string) (string, error)
	TTL() time.Duration
}

// PageHandler serves the server-rendered pages and the browser login flow.
// Pages run behind middleware.OptionalAuth.
type PageHandler struct {
	accounts     *account.Service
	transactions *transaction.Service
	login        auth.LoginProvider
	sessions     SessionIssuer
	log          *zap.Logger
}

func NewPageHandler(accounts *account.Service, transactions *transaction.Service, login auth.LoginProvider, sessions SessionIssuer, log *zap.Logger) *PageHandler {
	return &PageHandler{
		accounts:     accounts,
		transactions: transactions,
		login:        login,
		sessions:     sessions,
		log:          log.Named("pages"),
	}
}

// HandleHealth returns a simple health check response.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// HandleLanding renders the landing page, or sends signed-in users to the dashboard.
func (h *PageHandler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.IdentityFrom(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.render(w, "index.html", nil)
}

// HandleLogin starts the OAuth flow with a random state bound to a short-lived cookie.
func (h *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		h.log.Error("failed to generate oauth state", zap.Error(err))
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateTTL.Seconds()),
	})
	http.Redirect(w, r, h.login.AuthURL(state), http.StatusFound)
}

// HandleCallback completes the OAuth flow and issues the session cookie.
func (h *PageHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if oauthError := query.Get("error"); oauthError != "" {
		h.log.Warn("oauth provider returned error", zap.String("error", oauthError))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		writeError(w, http.StatusBadRequest, msgMalformed)
		return
	}
	clearCookie(w, r, stateCookie)

	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, msgMalformed)
		return
	}

	info, err := h.login.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warn("oauth exchange failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, msgMalformed)
		return
	}

	token, err := h.sessions.Generate(info.ID, info.Email)
	if err != nil {
		h.log.Error("failed to issue session", zap.String("user", info.ID), zap.Error(err))
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL().Seconds()),
	})

	h.log.Info("user signed in", zap.String("user", info.ID))
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *PageHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, middleware.SessionCookie)
	http.Redirect(w, r, "/", http.StatusFound)
}

type dashboardAccount struct {
	Key     string
	Name    string
	Balance string
}

type dashboardTransaction struct {
	Date        string
	Account     string
	Payee       string
	Description string
	Amount      int64
}

type dashboardView struct {
	Email        string
	Accounts     []dashboardAccount
	Transactions []dashboardTransaction
}

// HandleDashboard lists the caller's accounts and latest transactions.
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	view, err := h.loadDashboard(r.Context(), id)
	if err != nil {
		h.log.Error("failed to load dashboard", zap.String("user", id.UserID), zap.Error(err))
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	h.render(w, "dashboard.html", view)
}

func (h *PageHandler) loadDashboard(ctx context.Context, id *auth.Identity) (*dashboardView, error) {
	var (
		accounts []*models.Account
		recent   []*models.Transaction
		balances map[string]decimal.Decimal
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = h.accounts.List(ctx, id.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = h.transactions.Recent(ctx, id.UserID, recentTransactions)
		return err
	})
	g.Go(func() error {
		var err error
		balances, err = h.transactions.Balances(ctx, id.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &dashboardView{
		Email:        id.Email,
		Accounts:     make([]dashboardAccount, 0, len(accounts)),
		Transactions: make([]dashboardTransaction, 0, len(recent)),
	}

	names := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		key := acc.Key().Encode()
		names[key] = acc.Name
		view.Accounts = append(view.Accounts, dashboardAccount{
			Key:     key,
			Name:    acc.Name,
			Balance: balances[key].StringFixed(2),
		})
	}

	for _, t := range recent {
		accountName, ok := names[t.Account]
		if !ok {
			accountName = "(deleted)"
		}
		view.Transactions = append(view.Transactions, dashboardTransaction{
			Date:        t.Date,
			Account:     accountName,
			Payee:       deref(t.Payee),
			Description: deref(t.Description),
			Amount:      t.Amount,
		})
	}
	return view, nil
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("failed to render page", zap.String("page", name), zap.Error(err))
	}
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// isSecure reports whether the request arrived over HTTPS, directly or via a proxy.
func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

func clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

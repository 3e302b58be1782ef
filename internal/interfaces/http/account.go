package http

import (
	"net/http"

	"go.uber.org/zap"

	"smtm/internal/domain/account"
	"smtm/internal/models"
)

type AccountHandler struct {
	accountService *account.Service
	log            *zap.Logger
}

func NewAccountHandler(accountService *account.Service, log *zap.Logger) *AccountHandler {
	return &AccountHandler{accountService: accountService, log: log.Named("accounts")}
}

type CreateAccountRequest struct {
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

type UpdateAccountRequest struct {
	Name string `json:"name"`
}

type AccountResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// HandleAccounts serves the account collection: GET lists, POST creates.
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, owner)
	case http.MethodPost:
		h.handleCreate(w, r, owner)
	default:
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

// HandleAccountByKey serves a single account addressed by key or name.
func (h *AccountHandler) HandleAccountByKey(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	ref := r.PathValue("key")

	switch r.Method {
	case http.MethodGet:
		acc, err := h.accountService.Get(r.Context(), owner, ref)
		if err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, toAccountResponse(acc))
	case http.MethodPut:
		h.handleRename(w, r, owner, ref)
	case http.MethodDelete:
		if err := h.accountService.Delete(r.Context(), owner, ref); err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (h *AccountHandler) handleList(w http.ResponseWriter, r *http.Request, owner string) {
	accounts, err := h.accountService.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	resp := AccountListResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, acc := range accounts {
		resp.Accounts = append(resp.Accounts, toAccountResponse(acc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccountHandler) handleCreate(w http.ResponseWriter, r *http.Request, owner string) {
	var req CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgMalformed)
		return
	}

	acc, err := h.accountService.Create(r.Context(), owner, account.CreateParams{
		Name:    req.Name,
		Balance: req.Balance,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	h.log.Info("account created", zap.String("user", owner), zap.String("key", acc.Key().Encode()))
	w.Header().Set("Location", accountLocation(acc))
	writeJSON(w, http.StatusCreated, toAccountResponse(acc))
}

func (h *AccountHandler) handleRename(w http.ResponseWriter, r *http.Request, owner, ref string) {
	var req UpdateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgMalformed)
		return
	}

	acc, err := h.accountService.Rename(r.Context(), owner, ref, req.Name)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acc))
}

func accountLocation(acc *models.Account) string {
	return "/api/account/" + acc.Key().Encode()
}

func toAccountResponse(acc *models.Account) AccountResponse {
	return AccountResponse{Key: acc.Key().Encode(), Name: acc.Name}
}

package http

import (
	"net/http"

	"go.uber.org/zap"

	"smtm/internal/domain/transaction"
	"smtm/internal/models"
)

type TransactionHandler struct {
	transactionService *transaction.Service
	log                *zap.Logger
}

func NewTransactionHandler(transactionService *transaction.Service, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, log: log.Named("transactions")}
}

// CreateTransactionRequest mirrors the wire names clients already send, including "payeer".
type CreateTransactionRequest struct {
	Date        string  `json:"date"`
	Amount      *int64  `json:"amount"`
	Account     string  `json:"account"`
	Payee       *string `json:"payeer"`
	Description *string `json:"description"`
	Pair        *string `json:"pair"`
	Category    *string `json:"category"`
}

type TransactionResponse struct {
	Key         string  `json:"key"`
	Date        string  `json:"date"`
	Amount      int64   `json:"amount"`
	Account     string  `json:"account"`
	Payee       *string `json:"payeer,omitempty"`
	Description *string `json:"description,omitempty"`
	Pair        *string `json:"pair,omitempty"`
	Category    *string `json:"category,omitempty"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// HandleTransactions serves the transaction collection: GET lists, POST creates.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
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

// HandleTransactionByKey serves a single transaction. There is no update.
func (h *TransactionHandler) HandleTransactionByKey(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	ref := r.PathValue("key")

	switch r.Method {
	case http.MethodGet:
		t, err := h.transactionService.Get(r.Context(), owner, ref)
		if err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionResponse(t))
	case http.MethodDelete:
		if err := h.transactionService.Delete(r.Context(), owner, ref); err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request, owner string) {
	txs, err := h.transactionService.List(r.Context(), owner, r.URL.Query().Get("account"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	resp := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(txs))}
	for _, t := range txs {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request, owner string) {
	var req CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgMalformed)
		return
	}

	t, err := h.transactionService.Create(r.Context(), owner, transaction.CreateParams{
		Date:        req.Date,
		Amount:      req.Amount,
		Account:     req.Account,
		Payee:       req.Payee,
		Description: req.Description,
		Pair:        req.Pair,
		Category:    req.Category,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.Header().Set("Location", "/api/transaction/"+t.Key().Encode())
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		Key:         t.Key().Encode(),
		Date:        t.Date,
		Amount:      t.Amount,
		Account:     t.Account,
		Payee:       t.Payee,
		Description: t.Description,
		Pair:        t.Pair,
		Category:    t.Category,
	}
}

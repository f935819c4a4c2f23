package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/wallet-api/internal/api/httpx"
	"github.com/baharkarakas/wallet-api/internal/middleware"
	"github.com/baharkarakas/wallet-api/internal/services"
)

// maxBodyBytes matches the usual JSON body cap of 100kb.
const maxBodyBytes = 100 << 10

type TransactionHandler struct {
	Svc *services.TransactionService
}

func NewTransactionHandler(svc *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{Svc: svc}
}

func (h *TransactionHandler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello, World!"))
}

// GET /api/transactions/{user_id}
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Svc.List(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		storeFailure(w, r, "fetch transactions", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txs)
}

// POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		slog.Debug("decode create body", "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteError(w, http.StatusBadRequest, httpx.MsgInvalidBody)
		return
	}

	tx, err := h.Svc.Create(r.Context(), in)
	switch {
	case errors.Is(err, services.ErrValidation):
		slog.Debug("create rejected", "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteError(w, http.StatusBadRequest, httpx.MsgFieldsRequired)
	case errors.Is(err, services.ErrInvalidAmount):
		slog.Debug("create rejected", "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteError(w, http.StatusBadRequest, httpx.MsgInvalidBody)
	case err != nil:
		storeFailure(w, r, "insert transaction", err)
	default:
		httpx.WriteJSON(w, http.StatusCreated, tx)
	}
}

// DELETE /api/transactions/{id}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, services.ErrInvalidID):
		httpx.WriteError(w, http.StatusBadRequest, httpx.MsgInvalidID)
	case errors.Is(err, services.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.MsgNotFound)
	case err != nil:
		storeFailure(w, r, "delete transaction", err)
	default:
		httpx.WriteJSON(w, http.StatusOK, tx)
	}
}

// GET /api/transactions/summary/{user_id}
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Svc.Summary(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		storeFailure(w, r, "fetch summary", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

// storeFailure logs the cause and answers with a generic body; a timed-out statement is a 503.
func storeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error(op, "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
	if errors.Is(err, context.DeadlineExceeded) {
		httpx.WriteError(w, http.StatusServiceUnavailable, httpx.MsgUnavailable)
		return
	}
	httpx.WriteError(w, http.StatusInternalServerError, httpx.MsgInternal)
}

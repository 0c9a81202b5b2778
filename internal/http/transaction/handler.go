package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fintrack/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the single transactions resource. All four operations share
// one path; PUT and DELETE carry the target ID in the request body.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/", h.update)
	r.Delete("/", h.delete)
	r.MethodNotAllowed(h.methodNotAllowed)
}

// transactionRequest is shared by create and update. Pointer fields
// distinguish an absent value from a zero one; an amount of 0 is present,
// a missing amount is not.
type transactionRequest struct {
	ID          string   `json:"id"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Date        *string  `json:"date"`
	Type        string   `json:"type"`
}

func (req transactionRequest) params() (transaction.CreateParams, error) {
	if req.Description == nil || req.Amount == nil || req.Date == nil || *req.Date == "" {
		return transaction.CreateParams{}, &transaction.ValidationError{
			Message: "Missing required fields: description, amount, date",
		}
	}

	date, err := parseDate(*req.Date)
	if err != nil {
		return transaction.CreateParams{}, &transaction.ValidationError{
			Message: "Date must be YYYY-MM-DD or RFC 3339",
		}
	}

	return transaction.CreateParams{
		Description: *req.Description,
		Amount:      *req.Amount,
		Category:    req.Category,
		Date:        date,
		Type:        transaction.Type(req.Type),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, s)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err, "Failed to fetch transactions")
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be valid JSON with a numeric amount")
		return
	}

	params, err := req.params()
	if err != nil {
		writeDomainError(w, err, "Failed to add transaction")
		return
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeDomainError(w, err, "Failed to add transaction")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be valid JSON with a numeric amount")
		return
	}

	id, err := parseID(req.ID)
	if err != nil {
		writeDomainError(w, err, "Failed to update transaction")
		return
	}

	params, err := req.params()
	if err != nil {
		writeDomainError(w, err, "Failed to update transaction")
		return
	}

	tx, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		writeDomainError(w, err, "Failed to update transaction")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

type deleteRequest struct {
	ID string `json:"id"`
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	id, err := parseID(req.ID)
	if err != nil {
		writeDomainError(w, err, "Failed to delete transaction")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, "Failed to delete transaction")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
	}, ", "))
	writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed", r.Method))
}

func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, &transaction.ValidationError{Message: "Transaction ID is required"}
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &transaction.ValidationError{Message: "Invalid transaction ID"}
	}

	return id, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError maps domain errors onto the wire taxonomy: validation
// failures are 400 with their own message, missing records are 404, anything
// else is a store failure reported as 500 with a generic message. Raw store
// errors are logged, never sent to the client.
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	var vErr *transaction.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, vErr.Message)
		return
	}

	if errors.Is(err, transaction.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	slog.Error("transaction store failure", "error", err)
	writeError(w, http.StatusInternalServerError, fallback)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

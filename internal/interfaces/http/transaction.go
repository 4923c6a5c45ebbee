package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/report"
	"fintrack/internal/domain/transaction"
	"fintrack/internal/domain/user"
	"fintrack/internal/shared/middleware"
)

type TransactionHandler struct {
	service    *transaction.Service
	repo       transaction.Repository
	aggregator *report.Aggregator
}

func NewTransactionHandler(service *transaction.Service, repo transaction.Repository, aggregator *report.Aggregator) *TransactionHandler {
	return &TransactionHandler{service: service, repo: repo, aggregator: aggregator}
}

type CreateTransactionRequest struct {
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency,omitempty"`
	Category          string          `json:"category"`
	Description       string          `json:"description,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
	Date              string          `json:"date,omitempty"`
	IsRecurring       bool            `json:"isRecurring,omitempty"`
	RecurrencePattern string          `json:"recurrencePattern,omitempty"`
	RecurrenceEndDate string          `json:"recurrenceEndDate,omitempty"`
}

type UpdateTransactionRequest struct {
	Type              *string          `json:"type,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Category          *string          `json:"category,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Tags              *[]string        `json:"tags,omitempty"`
	Date              *string          `json:"date,omitempty"`
	IsRecurring       *bool            `json:"isRecurring,omitempty"`
	RecurrencePattern *string          `json:"recurrencePattern,omitempty"`
	RecurrenceEndDate *string          `json:"recurrenceEndDate,omitempty"`
}

// parseDate accepts RFC3339 timestamps or bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// HandleTransactions serves the collection: GET lists with optional
// category, tag and sortByAmount query filters; POST creates.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		filter := transaction.ListFilter{
			Category:     r.URL.Query().Get("category"),
			Tag:          r.URL.Query().Get("tag"),
			SortByAmount: r.URL.Query().Get("sortByAmount"),
		}
		if err := filter.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		txs, err := h.repo.ListByUser(r.Context(), userID, filter)
		if err != nil {
			log.Printf("Error listing transactions for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "Failed to list transactions")
			return
		}
		if txs == nil {
			txs = []*transaction.Transaction{}
		}
		respondJSON(w, http.StatusOK, txs)

	case http.MethodPost:
		var req CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		params := transaction.CreateTransactionParams{
			Type:              req.Type,
			Amount:            req.Amount,
			Currency:          req.Currency,
			Category:          req.Category,
			Description:       req.Description,
			Tags:              req.Tags,
			IsRecurring:       req.IsRecurring,
			RecurrencePattern: req.RecurrencePattern,
		}
		if req.Date != "" {
			date, err := parseDate(req.Date)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid date")
				return
			}
			params.Date = date
		}
		if req.RecurrenceEndDate != "" {
			end, err := parseDate(req.RecurrenceEndDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid recurrence end date")
				return
			}
			params.RecurrenceEndDate = &end
		}

		if err := params.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := h.service.Create(r.Context(), userID, params)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				respondError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("Error creating transaction for user %d: %v", userID, err)
			respondErrorDetail(w, http.StatusInternalServerError, "Failed to create transaction", err)
			return
		}
		respondJSON(w, http.StatusCreated, created)

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleTransactionByID serves one transaction: GET, PATCH, DELETE.
// All verbs require ownership; someone else's transaction looks identical
// to a missing one.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Transaction id is required")
		return
	}

	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("Error loading transaction %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to load transaction")
		return
	}
	if t == nil || t.UserID != userID {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, t)

	case http.MethodPatch, http.MethodPut:
		var req UpdateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		params := transaction.UpdateTransactionParams{
			Type:              req.Type,
			Amount:            req.Amount,
			Category:          req.Category,
			Description:       req.Description,
			Tags:              req.Tags,
			IsRecurring:       req.IsRecurring,
			RecurrencePattern: req.RecurrencePattern,
		}
		if req.Date != nil {
			date, err := parseDate(*req.Date)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid date")
				return
			}
			params.Date = &date
		}
		if req.RecurrenceEndDate != nil {
			end, err := parseDate(*req.RecurrenceEndDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid recurrence end date")
				return
			}
			params.RecurrenceEndDate = &end
		}
		if err := params.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := h.repo.Update(r.Context(), id, params)
		if err != nil {
			if errors.Is(err, transaction.ErrTransactionNotFound) {
				respondError(w, http.StatusNotFound, "Transaction not found")
				return
			}
			log.Printf("Error updating transaction %s: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Failed to update transaction")
			return
		}
		respondJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := h.repo.Delete(r.Context(), id); err != nil {
			if errors.Is(err, transaction.ErrTransactionNotFound) {
				respondError(w, http.StatusNotFound, "Transaction not found")
				return
			}
			log.Printf("Error deleting transaction %s: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Failed to delete transaction")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleReport builds the full financial summary for the caller.
func (h *TransactionHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter := transaction.ListFilter{
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
	}
	rep, err := h.aggregator.Generate(r.Context(), userID, filter, r.URL.Query().Get("currency"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error generating report for user %d: %v", userID, err)
		respondErrorDetail(w, http.StatusInternalServerError, "Failed to generate report", err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

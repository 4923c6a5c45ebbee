package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/budget"
	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/user"
	"fintrack/internal/shared/middleware"
)

type BudgetHandler struct {
	repo     budget.Repository
	spending budget.SpendingSource
	userRepo user.Repository
	notifier *notification.Notifier
}

func NewBudgetHandler(repo budget.Repository, spending budget.SpendingSource, userRepo user.Repository, notifier *notification.Notifier) *BudgetHandler {
	return &BudgetHandler{repo: repo, spending: spending, userRepo: userRepo, notifier: notifier}
}

type CreateBudgetRequest struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Currency string          `json:"currency,omitempty"`
	Month    int             `json:"month"`
	Year     int             `json:"year"`
}

type UpdateBudgetRequest struct {
	Category *string          `json:"category,omitempty"`
	Limit    *decimal.Decimal `json:"limit,omitempty"`
	Currency *string          `json:"currency,omitempty"`
	Month    *int             `json:"month,omitempty"`
	Year     *int             `json:"year,omitempty"`
}

// HandleBudgets serves the collection: GET lists the caller's budgets,
// POST creates one and emails spending advice when the new budget already
// has meaningful spending against it.
func (h *BudgetHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		budgets, err := h.repo.ListByUser(r.Context(), userID)
		if err != nil {
			log.Printf("Error listing budgets for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "Failed to list budgets")
			return
		}
		if budgets == nil {
			budgets = []*budget.Budget{}
		}
		respondJSON(w, http.StatusOK, budgets)

	case http.MethodPost:
		var req CreateBudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		params := budget.CreateBudgetParams{
			Category: req.Category,
			Limit:    req.Limit,
			Currency: req.Currency,
			Month:    req.Month,
			Year:     req.Year,
		}
		if err := params.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := h.repo.Create(r.Context(), userID, params)
		if err != nil {
			if errors.Is(err, budget.ErrDuplicateBudget) {
				respondError(w, http.StatusBadRequest, "Budget for this category and period already exists")
				return
			}
			log.Printf("Error creating budget for user %d: %v", userID, err)
			respondErrorDetail(w, http.StatusInternalServerError, "Failed to create budget", err)
			return
		}

		h.sendRecommendation(r, userID, created)
		respondJSON(w, http.StatusCreated, created)

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// sendRecommendation emails advice based on spending already recorded
// against the new budget's category. Best-effort: failures are logged and
// the budget stands.
func (h *BudgetHandler) sendRecommendation(r *http.Request, userID int64, b *budget.Budget) {
	ctx := r.Context()

	spent, err := h.spending.SumByUserCategory(ctx, userID, b.Category)
	if err != nil {
		log.Printf("Error summing spending for budget recommendation: %v", err)
		return
	}
	message, ok := budget.Recommend(b.Category, spent, b.Limit)
	if !ok {
		return
	}

	u, err := h.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		log.Printf("Error loading user %d for budget recommendation: %v", userID, err)
		return
	}
	if err := h.notifier.BudgetRecommendation(ctx, u.Email, b.Category, message); err != nil {
		log.Printf("Budget recommendation email to %s failed: %v", u.Email, err)
	}
}

// HandleBudgetByID serves one budget: GET, PATCH, DELETE, owner only.
func (h *BudgetHandler) HandleBudgetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Budget id is required")
		return
	}

	b, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("Error loading budget %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to load budget")
		return
	}
	if b == nil || b.UserID != userID {
		respondError(w, http.StatusNotFound, "Budget not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, b)

	case http.MethodPatch, http.MethodPut:
		var req UpdateBudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		params := budget.UpdateBudgetParams{
			Category: req.Category,
			Limit:    req.Limit,
			Currency: req.Currency,
			Month:    req.Month,
			Year:     req.Year,
		}
		if err := params.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := h.repo.Update(r.Context(), id, params)
		if err != nil {
			switch {
			case errors.Is(err, budget.ErrBudgetNotFound):
				respondError(w, http.StatusNotFound, "Budget not found")
			case errors.Is(err, budget.ErrDuplicateBudget):
				respondError(w, http.StatusBadRequest, "Budget for this category and period already exists")
			default:
				log.Printf("Error updating budget %s: %v", id, err)
				respondError(w, http.StatusInternalServerError, "Failed to update budget")
			}
			return
		}
		respondJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := h.repo.Delete(r.Context(), id); err != nil {
			if errors.Is(err, budget.ErrBudgetNotFound) {
				respondError(w, http.StatusNotFound, "Budget not found")
				return
			}
			log.Printf("Error deleting budget %s: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Failed to delete budget")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted"})

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

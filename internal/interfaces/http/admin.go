package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"fintrack/internal/domain/budget"
	"fintrack/internal/domain/transaction"
	"fintrack/internal/domain/user"
)

// AdminHandler exposes the cross-user views. Routes are mounted behind the
// admin role check, so handlers assume the caller is already vetted.
type AdminHandler struct {
	userRepo        user.Repository
	transactionRepo transaction.Repository
	budgetRepo      budget.Repository
}

func NewAdminHandler(userRepo user.Repository, transactionRepo transaction.Repository, budgetRepo budget.Repository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, transactionRepo: transactionRepo, budgetRepo: budgetRepo}
}

type AdminUpdateUserRequest struct {
	Name              *string `json:"name,omitempty"`
	Email             *string `json:"email,omitempty"`
	Role              *string `json:"role,omitempty"`
	PreferredCurrency *string `json:"preferredCurrency,omitempty"`
}

// HandleUsers lists every registered user.
func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	users, err := h.userRepo.List(r.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}
	if users == nil {
		users = []*user.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

// HandleUserByID serves one user account: GET, PATCH (including role
// changes), DELETE.
func (h *AdminHandler) HandleUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		u, err := h.userRepo.GetByID(r.Context(), id)
		if err != nil {
			log.Printf("Error loading user %d: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Failed to load user")
			return
		}
		if u == nil {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondJSON(w, http.StatusOK, u)

	case http.MethodPatch, http.MethodPut:
		var req AdminUpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		params := user.UpdateUserParams{
			Name:              req.Name,
			Email:             req.Email,
			Role:              req.Role,
			PreferredCurrency: req.PreferredCurrency,
		}
		if err := params.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		u, err := h.userRepo.Update(r.Context(), id, params)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrUserNotFound):
				respondError(w, http.StatusNotFound, "User not found")
			case errors.Is(err, user.ErrDuplicateEmail):
				respondError(w, http.StatusBadRequest, "User with this email already exists")
			default:
				log.Printf("Error updating user %d: %v", id, err)
				respondError(w, http.StatusInternalServerError, "Failed to update user")
			}
			return
		}
		respondJSON(w, http.StatusOK, u)

	case http.MethodDelete:
		if err := h.userRepo.Delete(r.Context(), id); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				respondError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("Error deleting user %d: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Failed to delete user")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleTransactions lists every transaction across all users.
func (h *AdminHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	txs, err := h.transactionRepo.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing all transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if txs == nil {
		txs = []*transaction.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

// HandleBudgets lists every budget across all users.
func (h *AdminHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	budgets, err := h.budgetRepo.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing all budgets: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list budgets")
		return
	}
	if budgets == nil {
		budgets = []*budget.Budget{}
	}
	respondJSON(w, http.StatusOK, budgets)
}

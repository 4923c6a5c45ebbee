package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/goal"
	"fintrack/internal/domain/user"
	"fintrack/internal/shared/middleware"
)

type GoalHandler struct {
	repo     goal.Repository
	service  *goal.Service
	userRepo user.Repository
}

func NewGoalHandler(repo goal.Repository, service *goal.Service, userRepo user.Repository) *GoalHandler {
	return &GoalHandler{repo: repo, service: service, userRepo: userRepo}
}

type CreateGoalRequest struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount,omitempty"`
	TargetDate    string          `json:"targetDate"`
}

type UpdateGoalRequest struct {
	Name         *string          `json:"name,omitempty"`
	TargetAmount *decimal.Decimal `json:"targetAmount,omitempty"`
	TargetDate   *string          `json:"targetDate,omitempty"`
}

type GoalProgressRequest struct {
	AmountSaved decimal.Decimal `json:"amountSaved"`
}

// HandleGoals serves the collection: GET lists the caller's goals, POST
// creates one.
func (h *GoalHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		goals, err := h.repo.ListByUser(r.Context(), userID)
		if err != nil {
			log.Printf("Error listing goals for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "Failed to list goals")
			return
		}
		if goals == nil {
			goals = []*goal.Goal{}
		}
		respondJSON(w, http.StatusOK, goals)

	case http.MethodPost:
		var req CreateGoalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		params := goal.CreateGoalParams{
			Name:          req.Name,
			TargetAmount:  req.TargetAmount,
			CurrentAmount: req.CurrentAmount,
		}
		if req.TargetDate != "" {
			date, err := parseDate(req.TargetDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid target date")
				return
			}
			params.TargetDate = date
		}
		if err := params.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := h.repo.Create(r.Context(), userID, params)
		if err != nil {
			log.Printf("Error creating goal for user %d: %v", userID, err)
			respondErrorDetail(w, http.StatusInternalServerError, "Failed to create goal", err)
			return
		}
		respondJSON(w, http.StatusCreated, created)

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleGoalByID serves one goal: GET, PATCH, DELETE, owner only.
func (h *GoalHandler) HandleGoalByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Goal id is required")
		return
	}

	g, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("Error loading goal %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to load goal")
		return
	}
	if g == nil || g.UserID != userID {
		respondError(w, http.StatusNotFound, "Goal not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, g)

	case http.MethodPatch, http.MethodPut:
		var req UpdateGoalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		params := goal.UpdateGoalParams{
			Name:         req.Name,
			TargetAmount: req.TargetAmount,
		}
		if req.TargetDate != nil {
			date, err := parseDate(*req.TargetDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid target date")
				return
			}
			params.TargetDate = &date
		}
		if err := params.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := h.repo.Update(r.Context(), id, params)
		if err != nil {
			if errors.Is(err, goal.ErrGoalNotFound) {
				respondError(w, http.StatusNotFound, "Goal not found")
				return
			}
			log.Printf("Error updating goal %s: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Failed to update goal")
			return
		}
		respondJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := h.repo.Delete(r.Context(), id); err != nil {
			if errors.Is(err, goal.ErrGoalNotFound) {
				respondError(w, http.StatusNotFound, "Goal not found")
				return
			}
			log.Printf("Error deleting goal %s: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Failed to delete goal")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted"})

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleGoalProgress adds money to a goal (PUT). Completion and the
// congratulations email are handled by the goal service.
func (h *GoalHandler) HandleGoalProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Goal id is required")
		return
	}

	var req GoalProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.AmountSaved.IsPositive() {
		respondError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil || u == nil {
		log.Printf("Error loading user %d for goal progress: %v", userID, err)
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	g, err := h.service.AddProgress(r.Context(), u, id, req.AmountSaved)
	if err != nil {
		if errors.Is(err, goal.ErrGoalNotFound) {
			respondError(w, http.StatusNotFound, "Goal not found")
			return
		}
		log.Printf("Error adding progress to goal %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to update goal progress")
		return
	}
	respondJSON(w, http.StatusOK, g)
}

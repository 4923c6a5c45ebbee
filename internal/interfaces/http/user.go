package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fintrack/internal/domain/user"
	"fintrack/internal/shared/middleware"
)

type UserHandler struct {
	userRepo user.Repository
}

func NewUserHandler(userRepo user.Repository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

type UpdateMeRequest struct {
	Name              *string `json:"name,omitempty"`
	Email             *string `json:"email,omitempty"`
	PreferredCurrency *string `json:"preferredCurrency,omitempty"`
}

// HandleMe serves the authenticated user's profile: GET reads it,
// PATCH updates name, email or preferred currency.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		u, err := h.userRepo.GetByID(r.Context(), userID)
		if err != nil {
			log.Printf("Error loading user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "Failed to load user")
			return
		}
		if u == nil {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondJSON(w, http.StatusOK, u)

	case http.MethodPatch:
		var req UpdateMeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		params := user.UpdateUserParams{
			Name:              req.Name,
			Email:             req.Email,
			PreferredCurrency: req.PreferredCurrency,
		}
		if err := params.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		u, err := h.userRepo.Update(r.Context(), userID, params)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				respondError(w, http.StatusNotFound, "User not found")
				return
			}
			if errors.Is(err, user.ErrDuplicateEmail) {
				respondError(w, http.StatusBadRequest, "User with this email already exists")
				return
			}
			log.Printf("Error updating user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		respondJSON(w, http.StatusOK, u)

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

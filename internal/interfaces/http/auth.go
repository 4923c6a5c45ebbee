package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fintrack/internal/domain/user"
	"fintrack/internal/shared/auth"
)

type AuthHandler struct {
	userRepo user.Repository
	jwt      *auth.JWT
}

func NewAuthHandler(userRepo user.Repository, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, jwt: jwt}
}

type RegisterRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	PreferredCurrency string `json:"preferredCurrency,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// HandleRegister creates a new user with password authentication.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password during registration: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	params := user.CreateUserParams{
		Name:              req.Name,
		Email:             req.Email,
		PasswordHash:      passwordHash,
		PreferredCurrency: req.PreferredCurrency,
	}
	if err := params.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.userRepo.Create(r.Context(), params)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			respondError(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		log.Printf("Error creating user: %v", err)
		respondErrorDetail(w, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		log.Printf("Error generating JWT for new user %d: %v", u.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	setAuthCookie(w, r, token)
	respondJSON(w, http.StatusCreated, AuthResponse{Token: token, User: u})
}

// HandleLogin authenticates a user with email and password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error loading user by email: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if u == nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := auth.VerifyPassword(u.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		log.Printf("Error generating JWT for user %d: %v", u.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	setAuthCookie(w, r, token)
	respondJSON(w, http.StatusOK, AuthResponse{Token: token, User: u})
}

// HandleLogout clears the auth cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	clearAuthCookie(w, r)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

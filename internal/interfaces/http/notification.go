package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/user"
	"fintrack/internal/shared/middleware"
)

// goalDeadlineWindow is how close a target date has to be before the
// deadline endpoint sends a warning.
const goalDeadlineWindow = 7 * 24 * time.Hour

// NotificationHandler exposes on-demand email notifications. The payloads
// are caller-supplied figures, not stored state; the endpoints only decide
// whether the numbers warrant an email to the caller's address.
type NotificationHandler struct {
	userRepo user.Repository
	notifier *notification.Notifier
}

func NewNotificationHandler(userRepo user.Repository, notifier *notification.Notifier) *NotificationHandler {
	return &NotificationHandler{userRepo: userRepo, notifier: notifier}
}

type SpendingNotifyRequest struct {
	Category    string          `json:"category"`
	AmountSpent decimal.Decimal `json:"amountSpent"`
	Limit       decimal.Decimal `json:"limit"`
}

type PaymentNotifyRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"dueDate"`
}

type GoalNotifyRequest struct {
	GoalName   string `json:"goalName"`
	TargetDate string `json:"targetDate"`
}

func (h *NotificationHandler) caller(w http.ResponseWriter, r *http.Request) *user.User {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}
	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil || u == nil {
		log.Printf("Error loading user %d for notification: %v", userID, err)
		respondError(w, http.StatusNotFound, "User not found")
		return nil
	}
	return u
}

// HandleSpending emails an alert when reported spending is over the limit.
func (h *NotificationHandler) HandleSpending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	u := h.caller(w, r)
	if u == nil {
		return
	}

	var req SpendingNotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category == "" {
		respondError(w, http.StatusBadRequest, "Category is required")
		return
	}

	if req.AmountSpent.LessThanOrEqual(req.Limit) {
		respondJSON(w, http.StatusOK, map[string]string{"message": "Spending within limit, no alert sent"})
		return
	}

	if err := h.notifier.SpendingAlert(r.Context(), u.Email, req.Category, req.AmountSpent, req.Limit); err != nil {
		log.Printf("Spending alert email to %s failed: %v", u.Email, err)
		respondError(w, http.StatusInternalServerError, "Failed to send alert")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Spending alert sent"})
}

// HandlePayments always emails a payment reminder for the posted payment.
func (h *NotificationHandler) HandlePayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	u := h.caller(w, r)
	if u == nil {
		return
	}

	var req PaymentNotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Description == "" || req.DueDate == "" {
		respondError(w, http.StatusBadRequest, "Description and dueDate are required")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid due date")
		return
	}

	if err := h.notifier.PaymentReminder(r.Context(), u.Email, req.Description, req.Amount, dueDate); err != nil {
		log.Printf("Payment reminder email to %s failed: %v", u.Email, err)
		respondError(w, http.StatusInternalServerError, "Failed to send reminder")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Payment reminder sent"})
}

// HandleGoals emails a warning when the goal's target date is inside the
// deadline window.
func (h *NotificationHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	u := h.caller(w, r)
	if u == nil {
		return
	}

	var req GoalNotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GoalName == "" || req.TargetDate == "" {
		respondError(w, http.StatusBadRequest, "goalName and targetDate are required")
		return
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid target date")
		return
	}

	until := time.Until(targetDate)
	if until < 0 || until > goalDeadlineWindow {
		respondJSON(w, http.StatusOK, map[string]string{"message": "Goal deadline not within a week, no alert sent"})
		return
	}

	if err := h.notifier.GoalDeadline(r.Context(), u.Email, req.GoalName, targetDate); err != nil {
		log.Printf("Goal deadline email to %s failed: %v", u.Email, err)
		respondError(w, http.StatusInternalServerError, "Failed to send alert")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Goal deadline alert sent"})
}

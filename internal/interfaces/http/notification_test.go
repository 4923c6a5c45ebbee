package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/user"
)

func newNotificationFixture() (*NotificationHandler, *recordingMailer) {
	mailer := &recordingMailer{}
	userRepo := &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*user.User, error) {
			return &user.User{ID: id, Email: "ana@example.com"}, nil
		},
	}
	return NewNotificationHandler(userRepo, notification.NewNotifier(mailer)), mailer
}

func TestHandleSpendingOverLimit(t *testing.T) {
	h, mailer := newNotificationFixture()

	body := map[string]any{"category": "Food", "amountSpent": 700, "limit": 500}
	raw, _ := json.Marshal(body)
	req := withAuthContext(httptest.NewRequest(http.MethodPost, "/api/notify/spending", bytes.NewReader(raw)), 1, "user")
	rec := httptest.NewRecorder()

	h.HandleSpending(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if mailer.sent != 1 {
		t.Errorf("mailer.sent = %d, want 1", mailer.sent)
	}
}

func TestHandleSpendingWithinLimit(t *testing.T) {
	h, mailer := newNotificationFixture()

	body := map[string]any{"category": "Food", "amountSpent": 300, "limit": 500}
	raw, _ := json.Marshal(body)
	req := withAuthContext(httptest.NewRequest(http.MethodPost, "/api/notify/spending", bytes.NewReader(raw)), 1, "user")
	rec := httptest.NewRecorder()

	h.HandleSpending(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if mailer.sent != 0 {
		t.Errorf("mailer.sent = %d, want 0 within limit", mailer.sent)
	}
}

func TestHandlePaymentsAlwaysSends(t *testing.T) {
	h, mailer := newNotificationFixture()

	body := map[string]any{"description": "Rent", "amount": 900, "dueDate": "2026-01-01"}
	raw, _ := json.Marshal(body)
	req := withAuthContext(httptest.NewRequest(http.MethodPost, "/api/notify/payments", bytes.NewReader(raw)), 1, "user")
	rec := httptest.NewRecorder()

	h.HandlePayments(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if mailer.sent != 1 {
		t.Errorf("mailer.sent = %d, want 1", mailer.sent)
	}
}

func TestHandleGoalsDeadlineWindow(t *testing.T) {
	tests := []struct {
		name     string
		target   time.Time
		wantSent int
	}{
		{"inside window", time.Now().Add(3 * 24 * time.Hour), 1},
		{"outside window", time.Now().Add(30 * 24 * time.Hour), 0},
		{"already past", time.Now().Add(-24 * time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mailer := newNotificationFixture()

			body := map[string]any{"goalName": "Vacation", "targetDate": tt.target.Format(time.RFC3339)}
			raw, _ := json.Marshal(body)
			req := withAuthContext(httptest.NewRequest(http.MethodPost, "/api/notify/goals", bytes.NewReader(raw)), 1, "user")
			rec := httptest.NewRecorder()

			h.HandleGoals(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if mailer.sent != tt.wantSent {
				t.Errorf("mailer.sent = %d, want %d", mailer.sent, tt.wantSent)
			}
		})
	}
}

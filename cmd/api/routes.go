package main

import (
	"net/http"

	httphandlers "fintrack/internal/interfaces/http"
	"fintrack/internal/shared/config"
	"fintrack/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and the middleware chain.
func SetupRoutes(cfg *config.Config, deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	authMiddleware := middleware.Auth(deps.JWT)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(middleware.RequireAdmin(h))
	}

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth endpoints
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Authenticated endpoints
	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleMe)))

	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactions)))
	mux.Handle("/api/transactions/reports", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleReport)))
	mux.Handle("/api/transactions/{id}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByID)))

	mux.Handle("/api/budgets", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleBudgets)))
	mux.Handle("/api/budgets/{id}", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleBudgetByID)))

	mux.Handle("/api/goals", authMiddleware(http.HandlerFunc(deps.GoalHandler.HandleGoals)))
	mux.Handle("/api/goals/{id}", authMiddleware(http.HandlerFunc(deps.GoalHandler.HandleGoalByID)))
	mux.Handle("/api/goals/{id}/progress", authMiddleware(http.HandlerFunc(deps.GoalHandler.HandleGoalProgress)))

	mux.Handle("/api/notify/spending", authMiddleware(http.HandlerFunc(deps.NotificationHandler.HandleSpending)))
	mux.Handle("/api/notify/payments", authMiddleware(http.HandlerFunc(deps.NotificationHandler.HandlePayments)))
	mux.Handle("/api/notify/goals", authMiddleware(http.HandlerFunc(deps.NotificationHandler.HandleGoals)))

	// Admin endpoints
	mux.Handle("/api/admin/users", adminOnly(deps.AdminHandler.HandleUsers))
	mux.Handle("/api/admin/users/{id}", adminOnly(deps.AdminHandler.HandleUserByID))
	mux.Handle("/api/admin/transactions", adminOnly(deps.AdminHandler.HandleTransactions))
	mux.Handle("/api/admin/budgets", adminOnly(deps.AdminHandler.HandleBudgets))

	handler := middleware.Logging(middleware.Tracing(middleware.CORS(cfg.Server.AllowedHosts)(mux)))

	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
	}

	return handler
}

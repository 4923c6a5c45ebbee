package main

import (
	"log"

	"fintrack/internal/domain/budget"
	"fintrack/internal/domain/goal"
	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/report"
	"fintrack/internal/domain/transaction"
	"fintrack/internal/infrastructure/exchange"
	"fintrack/internal/infrastructure/mail"
	"fintrack/internal/infrastructure/postgres"
	httphandlers "fintrack/internal/interfaces/http"
	"fintrack/internal/interfaces/scheduler"
	"fintrack/internal/shared/auth"
	"fintrack/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler         *httphandlers.AuthHandler
	UserHandler         *httphandlers.UserHandler
	TransactionHandler  *httphandlers.TransactionHandler
	BudgetHandler       *httphandlers.BudgetHandler
	GoalHandler         *httphandlers.GoalHandler
	NotificationHandler *httphandlers.NotificationHandler
	AdminHandler        *httphandlers.AdminHandler

	// Auth
	JWT *auth.JWT

	// For the scheduler job provider
	ReminderProvider *scheduler.ReminderProvider
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database and apply pending migrations
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	goalRepo := postgres.NewGoalRepository(db)

	// Outbound integrations
	converter := exchange.NewClient(cfg.Exchange.BaseURL)
	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	notifier := notification.NewNotifier(mailer)

	// Domain services
	evaluator := budget.NewEvaluator(budgetRepo, transactionRepo)
	goalService := goal.NewService(goalRepo, notifier)
	transactionService := transaction.NewService(transactionRepo, userRepo, converter, evaluator, goalService, notifier)
	aggregator := report.NewAggregator(userRepo, transactionRepo, budgetRepo, converter)

	// Auth
	jwt := auth.NewJWT(cfg.JWT.Secret)

	return &Dependencies{
		DB:                  db,
		AuthHandler:         httphandlers.NewAuthHandler(userRepo, jwt),
		UserHandler:         httphandlers.NewUserHandler(userRepo),
		TransactionHandler:  httphandlers.NewTransactionHandler(transactionService, transactionRepo, aggregator),
		BudgetHandler:       httphandlers.NewBudgetHandler(budgetRepo, transactionRepo, userRepo, notifier),
		GoalHandler:         httphandlers.NewGoalHandler(goalRepo, goalService, userRepo),
		NotificationHandler: httphandlers.NewNotificationHandler(userRepo, notifier),
		AdminHandler:        httphandlers.NewAdminHandler(userRepo, transactionRepo, budgetRepo),
		JWT:                 jwt,
		ReminderProvider:    scheduler.NewReminderProvider(transactionRepo, userRepo, notifier),
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}

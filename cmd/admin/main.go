package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/user"
	"fintrack/internal/infrastructure/mail"
	"fintrack/internal/infrastructure/postgres"
	"fintrack/internal/interfaces/scheduler"
	"fintrack/internal/shared/config"
)

const usage = `Fintrack Admin CLI - Management commands for the Fintrack API

Usage:
  admin <command> [options]

Commands:
  migrate         Apply pending database migrations
  promote         Grant the admin role to a user
  remind          Run the payment reminder scan once and exit

Examples:
  # Apply migrations
  admin migrate

  # Promote a user to admin
  admin promote --user-id=1

  # Send due payment reminders now
  admin remind

  # Send reminders with a custom timeout
  admin remind --timeout=5m
`

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate()
	case "promote":
		runPromote(os.Args[2:])
	case "remind":
		runRemind(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage + "\n")
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage + "\n")
		os.Exit(1)
	}
}

func connect() *postgres.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")
	return db
}

func runMigrate() {
	db := connect()
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied")
}

func runPromote(args []string) {
	fs := flag.NewFlagSet("promote", flag.ExitOnError)
	userID := fs.Int64("user-id", 0, "ID of the user to promote")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *userID == 0 {
		fmt.Println("Error: must specify --user-id")
		fs.Usage()
		os.Exit(1)
	}

	db := connect()
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	role := user.RoleAdmin
	if _, err := userRepo.Update(ctx, *userID, user.UpdateUserParams{Role: &role}); err != nil {
		log.Fatalf("Failed to promote user %d: %v", *userID, err)
	}
	log.Printf("User %d is now an admin", *userID)
}

func runRemind(args []string) {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "10m", "Timeout for the scan (e.g., 5m, 1h)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	notifier := notification.NewNotifier(mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}))

	provider := scheduler.NewReminderProvider(transactionRepo, userRepo, notifier)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	jobs, err := provider.Jobs(ctx)
	if err != nil {
		log.Fatalf("Failed to build reminder jobs: %v", err)
	}
	if len(jobs) == 0 {
		log.Println("No payment reminders due")
		return
	}

	log.Printf("Sending %d payment reminder(s)", len(jobs))
	startTime := time.Now()

	sent := 0
	for _, job := range jobs {
		if err := job.Execute(ctx); err != nil {
			log.Printf("Failed: %s: %v", job.Description(), err)
			continue
		}
		sent++
	}

	log.Printf("Sent %d/%d reminders in %v", sent, len(jobs), time.Since(startTime))
}

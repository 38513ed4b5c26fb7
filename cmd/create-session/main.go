package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/config"
	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/create-session/main.go <user-name> <user-email> <session-key>")
		fmt.Println("Example: go run cmd/create-session/main.go \"Jane Doe\" \"jane@example.com\" \"session-key-12345\"")
		os.Exit(1)
	}

	userName := os.Args[1]
	userEmail := os.Args[2]
	sessionKey := os.Args[3]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Hash the session key
	keyHash, err := bcrypt.GenerateFromPassword([]byte(sessionKey), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash session key: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Create session
	session := &domain.Session{
		UserName:   userName,
		UserEmail:  userEmail,
		APIKeyHash: string(keyHash),
		IsActive:   true,
	}

	if err := repos.Session.Create(context.Background(), session); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create session: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Session created for %s (%s)\n", userName, userEmail)
	fmt.Printf("Session ID: %s\n", session.ID)
	fmt.Printf("Use the session key as a bearer token: Authorization: Bearer %s\n", sessionKey)
}

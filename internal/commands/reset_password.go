package commands

import (
	"fmt"
	"os"

	"cammanager/internal/config"
	"cammanager/internal/database"
	"cammanager/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

func ResetPassword(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: cammanager reset-password <username> <new-password>")
		return 2
	}

	username := args[0]
	newPassword := args[1]

	if len(newPassword) < 3 {
		fmt.Fprintln(os.Stderr, "error: password must be at least 3 characters")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger.Init(cfg.Log)

	if err := database.Init(cfg.Database, false); err != nil {
		fmt.Fprintf(os.Stderr, "database init failed: %v\n", err)
		return 1
	}
	defer database.Close()

	repo := database.NewUserRepo()
	user, err := repo.FindByUsername(username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "user %s not found\n", username)
		return 1
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "password hashing failed: %v\n", err)
		return 1
	}

	if err := repo.UpdatePassword(user.ID, string(hash)); err != nil {
		fmt.Fprintf(os.Stderr, "password update failed: %v\n", err)
		return 1
	}

	fmt.Printf("password for %s has been reset\n", username)
	return 0
}

// Command admin provides user management utilities for operators.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/models"
	"scribe/internal/repository"
	"scribe/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	users := service.NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	switch os.Args[1] {
	case "list-users":
		listUsers(ctx, users)

	case "delete-user":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin delete-user <user_id>")
			os.Exit(1)
		}
		deleteUser(ctx, users, os.Args[2])

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin list-users              - List all users")
	fmt.Println("  go run ./cmd/admin delete-user <user_id>   - Delete a user; their posts stay unattributed")
}

func listUsers(ctx context.Context, users *service.UserService) {
	list, err := users.ListUsers(ctx, 0, 0)
	if err != nil {
		log.Fatalf("Failed to fetch users: %v", err)
	}
	if len(list) == 0 {
		fmt.Println("No users found")
		return
	}
	for _, u := range list {
		fmt.Printf("%6d  %-30s  %s\n", u.ID, u.Username, u.Email)
	}
}

func deleteUser(ctx context.Context, users *service.UserService, rawID string) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		fmt.Printf("Invalid user ID %q\n", rawID)
		os.Exit(1)
	}

	user, err := users.GetUserByID(ctx, uint(id))
	if err != nil {
		if models.IsNotFound(err) {
			fmt.Printf("User with ID %d not found\n", id)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}

	if err := users.DeleteUser(ctx, user.ID); err != nil {
		log.Fatalf("Failed to delete user: %v", err)
	}
	fmt.Printf("✅ Deleted %s (ID: %d); their comments were removed and their posts kept\n", user.Username, user.ID)
}

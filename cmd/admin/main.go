package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pingdm/backend/internal/config"
	"pingdm/backend/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})

	storageSvc := storage.NewStorageService(db, rdb)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: ban <user_id> [duration_in_hours], unban <user_id>, delete-conversation <id>")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "ban":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin ban <user_id> [duration_in_hours]")
			os.Exit(1)
		}
		userID := os.Args[2]
		var hours int
		if len(os.Args) > 3 {
			hours, err = strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer.")
				os.Exit(1)
			}
		}
		if err := banUser(storageSvc, userID, hours); err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %s has been banned.\n", userID)
	case "unban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unban <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := unbanUser(storageSvc, userID); err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %s has been unbanned.\n", userID)
	case "delete-conversation":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-conversation <conversation_id>")
			os.Exit(1)
		}
		conversationID := os.Args[2]
		if err := storageSvc.DeleteConversation(conversationID); err != nil {
			log.Fatalf("Error deleting conversation: %v", err)
		}
		fmt.Printf("Conversation %s and its messages have been deleted.\n", conversationID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// banUser writes the redis ban key the gateway checks on handshake and
// mirrors the flag onto the user row.
func banUser(s storage.Storage, userID string, hours int) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	duration := time.Duration(hours) * time.Hour
	if err := s.SetUserBan(userID, duration); err != nil {
		return err
	}

	user.IsBlocked = true
	if hours > 0 {
		user.BlockEndTime = time.Now().Add(duration).Unix()
	}
	return s.UpdateUser(user)
}

func unbanUser(s storage.Storage, userID string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := s.ClearUserBan(userID); err != nil {
		return err
	}

	user.IsBlocked = false
	user.BlockEndTime = 0
	return s.UpdateUser(user)
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pingdm/backend/internal/api/handler"
	"pingdm/backend/internal/auth"
	"pingdm/backend/internal/chathub"
	"pingdm/backend/internal/config"
	"pingdm/backend/internal/models"
	"pingdm/backend/internal/storage"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting pingdm backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	hub := chathub.NewHub(s)
	hub.StartRelayListener(s.SubscribeEvents(chathub.EventsChannel))

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	r := gin.Default()
	h := handler.NewHandler(hub, s, jwtService)

	r.POST("/auth/token", h.IssueToken)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api", h.AuthRequired())
	{
		api.GET("/conversations", h.ListConversations)
		api.POST("/conversations", h.CreateConversation)
		api.DELETE("/conversations/:id", h.DeleteConversation)
		api.GET("/conversations/:id/messages", h.GetMessages)
		api.GET("/messages/search", h.SearchMessages)
		api.POST("/reports", h.CreateReport)
	}

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}

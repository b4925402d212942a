package main

import (
	"context"
	"log"
	"os"

	"sklad/cmd"
	"sklad/internal/core/logger"
	"sklad/internal/core/routes"
	"sklad/internal/database"
	"sklad/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	repo := repository.NewRepository(db)

	router := gin.Default()
	routes.Register(router, repo, zapLogger)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}

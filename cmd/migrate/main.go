package main

import (
	"log"

	"github.com/tastytrove/backend/config"
	"github.com/tastytrove/backend/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db.Gorm); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Printf("Migrations applied")
}

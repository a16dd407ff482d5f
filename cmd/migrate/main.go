package main

import (
	"log"

	"image-processing-be/internal/config"
	"image-processing-be/internal/model"
	"image-processing-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()

	// 2. Connect to Database using existing GORM helpers
	db, err := database.Open(database.Options{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.Connection,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Printf("Starting GORM migration (driver: %s)...", cfg.Database.Driver)

	models := model.AllModels()
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Printf("Success: migrated %d tables.", len(models))
}

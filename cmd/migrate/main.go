package main

import (
	"log"

	"github.com/Niranjan-3901/RITDC-Server/app/config"
	"github.com/Niranjan-3901/RITDC-Server/app/database"
)

func main() {
	log.Println("Running database migrations...")

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Migrations completed successfully")
}

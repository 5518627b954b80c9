package main

import (
	"context"
	"flag"
	"log"

	"github.com/Niranjan-3901/RITDC-Server/app/config"
	"github.com/Niranjan-3901/RITDC-Server/app/database"
	"github.com/Niranjan-3901/RITDC-Server/app/models"
	"github.com/Niranjan-3901/RITDC-Server/app/routes/auth"
)

func main() {
	email := flag.String("email", "", "user email")
	password := flag.String("password", "", "user password")
	firstName := flag.String("first-name", "Admin", "first name")
	lastName := flag.String("last-name", "User", "last name")
	role := flag.String("role", "admin", "user role")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := &models.User{
		Email:     *email,
		Password:  hashed,
		FirstName: *firstName,
		LastName:  *lastName,
		Role:      *role,
		IsActive:  true,
	}

	users := database.NewUserStore(db)
	if err := users.Create(context.Background(), user); err != nil {
		log.Fatal("Failed to create user:", err)
	}

	log.Printf("User created: %s %s (%s)", user.FirstName, user.LastName, user.Email)
}

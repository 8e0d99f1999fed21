// scripts/create_admin.go
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aietlabs/faceattend/config"
	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/models"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg)

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var existing models.Faculty
	if err := database.DB.Where("username = ?", username).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query faculty: %v", err)
		}
	} else {
		fmt.Println("⚠️  Admin account already exists with username:", username)
		os.Exit(0)
	}

	f := models.Faculty{
		Username: username,
		Name:     "Administrator",
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := database.DB.Create(&f).Error; err != nil {
		log.Fatalf("failed to insert admin: %v", err)
	}

	fmt.Println("✅ Admin account created successfully!")
	fmt.Println("   Username:", username)
	fmt.Println("   Password:", password, "(plain, remember to change later!)")
}

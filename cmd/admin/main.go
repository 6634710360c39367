// Command admin manages admin accounts from the shell.
package main

import (
	"fmt"
	"log"
	"os"

	"azaunur/internal/config"
	"azaunur/internal/database"
	"azaunur/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <handle>   - Grant admin rights")
		fmt.Println("  go run ./cmd/admin demote <handle>    - Revoke admin rights")
		fmt.Println("  go run ./cmd/admin list               - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote":
		requireHandle()
		setAdmin(db, os.Args[2], true)
	case "demote":
		requireHandle()
		setAdmin(db, os.Args[2], false)
	case "list":
		listAdmins(db)
	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}

func requireHandle() {
	if len(os.Args) < 3 {
		log.Fatal("A handle is required")
	}
}

func setAdmin(db *gorm.DB, handle string, isAdmin bool) {
	result := db.Model(&models.User{}).Where("handle = ?", handle).Update("is_admin", isAdmin)
	if result.Error != nil {
		log.Fatalf("Update failed: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		log.Fatalf("No user with handle %q", handle)
	}
	if isAdmin {
		fmt.Printf("%s is now an admin\n", handle)
	} else {
		fmt.Printf("%s is no longer an admin\n", handle)
	}
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Order("handle").Find(&admins).Error; err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	if len(admins) == 0 {
		fmt.Println("No admins")
		return
	}
	for _, admin := range admins {
		fmt.Printf("%-30s %s\n", admin.Handle, admin.Email)
	}
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mjwalters/stockroom/pkg/stockroom/config"
	"github.com/mjwalters/stockroom/pkg/stockroom/database"
	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"github.com/mjwalters/stockroom/pkg/stockroom/seed"
)

func main() {
	if len(os.Args) != 2 || (os.Args[1] != "insert" && os.Args[1] != "delete") {
		fmt.Fprintln(os.Stderr, "usage: stockroom-seed <insert|delete>")
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("STOCKROOM_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.Connect(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := database.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	switch os.Args[1] {
	case "insert":
		if err := seed.Insert(db); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		log.Println("Seed done. Credentials: admin/admin123, user/user123")
	case "delete":
		if err := seed.Delete(db); err != nil {
			log.Fatalf("Wipe failed: %v", err)
		}
		log.Println("All users, items and groups deleted")
	}
}

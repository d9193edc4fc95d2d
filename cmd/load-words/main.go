package main

import (
	"flag"
	"log"

	"hue-clues/internal/config"
	"hue-clues/internal/db"
)

func main() {
	filePath := flag.String("file", "words.csv", "path to words csv")
	autoMigrate := flag.Bool("automigrate", false, "create missing tables before loading")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(cfg.DatabaseURL, db.Pool{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if *autoMigrate {
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("automigrate failed: %v", err)
		}
	}

	loaded, err := db.LoadWordLibrary(conn, *filePath)
	if err != nil {
		log.Fatalf("failed to load words: %v", err)
	}
	log.Printf("loaded %d words", loaded)
}

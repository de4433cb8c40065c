package main

import (
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"taskhub/internal/config"
	"taskhub/internal/http/handlers"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, continuing with process env")
		}
	}

	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	app := handlers.NewApp(cfg, handlers.NewDeps(cfg))

	log.Printf("listening on :%s (store %s)", cfg.Port, cfg.StoreURL)
	log.Fatal(app.Listen(":" + cfg.Port))
}

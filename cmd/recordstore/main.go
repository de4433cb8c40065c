package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"taskhub/internal/recordstore"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, continuing with process env")
		}
	}

	port := os.Getenv("STORE_PORT")
	if port == "" {
		port = "3001"
	}
	dsn := os.Getenv("STORE_DSN")
	if dsn == "" {
		dsn = "taskhub.db"
	}

	db, err := recordstore.OpenDB(dsn)
	if err != nil {
		log.Fatalf("open record store db: %v", err)
	}

	app := recordstore.New(db)
	log.Printf("record store listening on :%s (dsn %s)", port, dsn)
	log.Fatal(app.Listen(":" + port))
}

package main

import (
	"flag"
	"log"
	"os"

	"github.com/gastrohq/kellner/store"
)

func main() {
	defaultPath := os.Getenv("DB_PATH")
	if defaultPath == "" {
		defaultPath = "data/voice_agent.db"
	}
	path := flag.String("db", defaultPath, "path to the SQLite database")
	flag.Parse()

	s, err := store.Open(*path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer s.Close()

	log.Printf("DB initialized at %s", *path)
}

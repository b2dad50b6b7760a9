// migrate applies or rolls back the embedded schema migrations.
//
// Usage: go run ./cmd/migrate [up|down]
package main

import (
	"log"
	"os"

	"arthavidhi/internal/config"
	"arthavidhi/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		version, err := db.Migrate(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[MIGRATE] up failed: %v", err)
		}
		log.Printf("[DONE] schema at version %d", version)
	case "down":
		if err := db.MigrateDown(cfg.DatabaseURL); err != nil {
			log.Fatalf("[MIGRATE] down failed: %v", err)
		}
		log.Println("[DONE] all migrations rolled back")
	default:
		log.Fatalf("unknown command %q (want up or down)", cmd)
	}
}

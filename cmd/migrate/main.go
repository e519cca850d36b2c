package main

import (
	"log"

	"fleet-tracking-system/migration"
)

func main() {
	if err := migration.RunMigrations(); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
}

// Package main implements the entry point for the lesson API server, the
// admin backend for swim lesson scheduling: groups, levels, skills, swimmers,
// and evaluations over a shared content store.
package main

import (
	"context"
	"flag"
	"log"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status) and exit")
	flag.Parse()

	app, err := newApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if *migrateCmd != "" {
		err := runMigrations(app.db, app.logger, *migrateCmd)
		app.cleanup()
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(context.Background(), router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

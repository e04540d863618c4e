package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kmarsden/maskvote/internal/app"
	"github.com/kmarsden/maskvote/internal/auth"
	"github.com/kmarsden/maskvote/internal/hub"
	"github.com/kmarsden/maskvote/internal/logger"
	"github.com/kmarsden/maskvote/web"
)

func main() {
	// A .env file is optional; flags and real env vars win
	godotenv.Load()

	var (
		addr        = flag.String("addr", envOr("ADDR", ":8080"), "HTTP listen address")
		dbPath      = flag.String("db", envOr("DB_PATH", "maskvote.db"), "Path to the roster database")
		rosterPath  = flag.String("roster", envOr("ROSTER_FILE", ""), "JSON roster file to seed contestants from")
		password    = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "Admin password (generated if empty)")
		projectorID = flag.String("projector-id", envOr("PROJECTOR_ID", hub.DefaultProjectorID), "Reserved voter id for the projector client")
		logLevel    = flag.String("log-level", envOr("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	)
	flag.Parse()

	log := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	adminPassword := *password
	if adminPassword == "" {
		adminPassword = auth.GeneratePassword()
		log.Info("Generated admin password", "password", adminPassword)
	}
	adminAuth := auth.New(adminPassword)

	a, err := app.New(log, app.Config{
		DBPath:      *dbPath,
		RosterPath:  *rosterPath,
		ProjectorID: *projectorID,
	}, adminAuth, web.GetPagesFS())
	if err != nil {
		fmt.Fprintf(os.Stderr, "maskvote: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "maskvote: %v\n", err)
		os.Exit(1)
	}
}

// envOr returns the environment variable value or a fallback
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

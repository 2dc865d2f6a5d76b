package main

import (
	"log"
	"log/slog"

	"github.com/addspin/satexam/crypts"
	"github.com/addspin/satexam/models"
	"github.com/addspin/satexam/routes"
	"github.com/addspin/satexam/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Error reading config: %s", err)
	}

	logFile, err := utils.SetupSlogLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Error configuring logging: %s", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	seed, err := models.DemoSeed()
	if err != nil {
		log.Fatalf("Error loading demo data: %s", err)
	}

	app, err := routes.New(cfg, seed)
	if err != nil {
		log.Fatalf("Error building app: %s", err)
	}

	scheme, _ := cfg.Auth.Scheme()
	slog.Info("Starting server",
		"address", cfg.Server.Address(),
		"database", cfg.Database.Path,
		"password_scheme", scheme)
	if scheme == crypts.SchemePlaintext {
		slog.Warn("Passwords are stored and compared in plaintext; set auth.password_scheme=bcrypt for real accounts")
	}

	if err := app.Listen(cfg.Server.Address()); err != nil {
		slog.Error("Server stopped", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"arthavidhi/internal/adapters/cli"
	"arthavidhi/internal/ai"
	"arthavidhi/internal/app"
	"arthavidhi/internal/config"
	"arthavidhi/internal/db"
	"arthavidhi/internal/logging"
	"arthavidhi/internal/storage"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, cli.Usage)
		os.Exit(2)
	}
	ctx := context.Background()

	if !cli.NeedsOwner(args) {
		if err := cli.NewRunner(nil, os.Stdout).Run(ctx, 0, args); err != nil {
			exit(err)
		}
		return
	}

	cfg, err := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.SetOutput(os.Stderr)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer pool.Close()

	uploads, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		logger.Fatalf("upload storage: %v", err)
	}
	var drafter ai.Drafter
	if cfg.OpenAIKey != "" {
		drafter = ai.NewAgent(cfg.OpenAIKey)
	}
	svc := app.NewAppService(app.NewServices(pool, nil), drafter, uploads, logger)

	email := os.Getenv("APP_USER_EMAIL")
	if email == "" {
		logger.Fatal("APP_USER_EMAIL is not set")
	}
	owner, err := svc.LookupUser(ctx, email)
	if err != nil {
		logger.Fatalf("owner %s: %s", email, app.PublicMessage(err))
	}

	if err := cli.NewRunner(svc, os.Stdout).Run(ctx, owner.UserID, args); err != nil {
		exit(err)
	}
}

func exit(err error) {
	if errors.Is(err, cli.ErrUsage) {
		fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, cli.Usage)
		os.Exit(2)
	}
	switch app.Classify(err) {
	case app.KindDatabase:
		fmt.Fprintln(os.Stderr, "error:", err)
	default:
		fmt.Fprintln(os.Stderr, "error:", app.PublicMessage(err))
	}
	os.Exit(1)
}

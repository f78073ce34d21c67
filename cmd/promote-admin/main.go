package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dimitrije/stockroom/internal/config"
	"github.com/dimitrije/stockroom/internal/database"
	"github.com/dimitrije/stockroom/internal/logger"
	"github.com/dimitrije/stockroom/internal/services"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) != 2 || strings.TrimSpace(os.Args[1]) == "" {
		fmt.Fprintln(os.Stderr, "usage: promote-admin <email>")
		os.Exit(2)
	}
	email := strings.TrimSpace(os.Args[1])

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zl = logger.WithComponent(zl, "promote-admin")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	n, err := services.NewProfileService(db).PromoteByEmail(ctx, email)
	if err != nil {
		zl.Fatal("failed to promote profile", zap.String("email", email), zap.Error(err))
	}
	if n == 0 {
		zl.Fatal("no profile with that email; the user must sign in and join an organization first", zap.String("email", email))
	}

	zl.Info("promoted to admin", zap.String("email", email), zap.Int64("profiles", n))
}

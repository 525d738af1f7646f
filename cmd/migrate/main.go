package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"rakta/internal/infra"
	"rakta/internal/migrations"
)

func main() {
	_ = godotenv.Load()

	var (
		listFlag    bool
		timeoutFlag time.Duration
	)
	flag.BoolVar(&listFlag, "list", false, "print embedded migrations and exit")
	flag.DurationVar(&timeoutFlag, "timeout", 2*time.Minute, "overall migration timeout")
	flag.Parse()

	logger := infra.NewLogger(os.Getenv("APP_ENV"), "migrate")

	if listFlag {
		list, err := migrations.List()
		if err != nil {
			exitWithError(err)
		}
		for _, m := range list {
			fmt.Printf("%06d %s\n", m.Version, m.Name)
		}
		return
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	defer cancel()

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open database: %w", err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}

	version, err := migrations.Up(ctx, db, logger)
	if err != nil {
		exitWithError(err)
	}
	logger.Info().Uint("version", version).Msg("database up to date")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

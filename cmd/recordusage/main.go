package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"rakta/internal/adapter/repo"
	"rakta/internal/dashboard"
	"rakta/internal/domain"
	"rakta/internal/infra"
)

func main() {
	_ = godotenv.Load()

	var (
		dateFlag  string
		countFlag int
		addFlag   bool
		tzFlag    string
	)
	flag.StringVar(&dateFlag, "date", "", "day to record (YYYY-MM-DD, default today)")
	flag.IntVar(&countFlag, "count", -1, "donation count for the day")
	flag.BoolVar(&addFlag, "add", false, "add -count to the day's latest value instead of replacing it")
	flag.StringVar(&tzFlag, "tz", "Local", "time zone used to interpret -date")
	flag.Parse()

	if countFlag < 0 {
		exitWithError(errors.New("-count must be provided and not negative"))
	}
	loc, err := time.LoadLocation(strings.TrimSpace(tzFlag))
	if err != nil {
		exitWithError(fmt.Errorf("invalid -tz: %w", err))
	}
	day, err := parseDay(dateFlag, time.Now().In(loc), loc)
	if err != nil {
		exitWithError(err)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli", "recordusage")
	usage := repo.NewUsageRepository(infra.NewSQLRunner(pool, logger))

	if err := record(ctx, usage, day, countFlag, addFlag); err != nil {
		exitWithError(err)
	}

	records, err := usage.ListUsage(ctx, &day, &day)
	if err != nil {
		exitWithError(fmt.Errorf("failed to read back usage: %w", err))
	}
	counts := map[string]int{dashboard.DayLabel(day): 0}
	dashboard.MergeRecords(counts, records)
	fmt.Printf("%s (%s) donations=%d\n", day.Format("2006-01-02"), dashboard.DayLabel(day), counts[dashboard.DayLabel(day)])
}

func record(ctx context.Context, usage domain.UsageRepository, day time.Time, count int, add bool) error {
	if add {
		if err := usage.AddDonations(ctx, day, count); err != nil {
			return fmt.Errorf("failed to add donations: %w", err)
		}
		return nil
	}
	if err := usage.SetDonations(ctx, day, count); err != nil {
		return fmt.Errorf("failed to set donations: %w", err)
	}
	return nil
}

func parseDay(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -date %q: want YYYY-MM-DD", raw)
	}
	return day, nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

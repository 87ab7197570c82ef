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

	"adstudio/internal/adapter/repo"
	"adstudio/internal/domain"
)

func main() {
	var (
		emailFlag  string
		amountFlag int
	)

	flag.StringVar(&emailFlag, "email", "", "account email to grant credits to")
	flag.IntVar(&amountFlag, "amount", 10, "credits to add")
	flag.Parse()

	_ = godotenv.Load()

	email := strings.ToLower(strings.TrimSpace(emailFlag))
	if email == "" {
		exitWithError(errors.New("-email is required"))
	}
	if amountFlag <= 0 {
		exitWithError(errors.New("-amount must be positive"))
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

	accounts := repo.NewAccountRepository(pool)
	balance, err := accounts.Grant(ctx, email, amountFlag)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			exitWithError(fmt.Errorf("no account for %s", email))
		}
		exitWithError(fmt.Errorf("failed to grant credits: %w", err))
	}

	fmt.Printf("granted %d credits to %s (balance: %d)\n", amountFlag, email, balance)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

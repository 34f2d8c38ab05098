// Command validate runs the risk model validation checks against a ledger
// and prints the report.
//
// Usage:
//
//	go run ./cmd/validate                         # all checks, console output
//	go run ./cmd/validate -checks velocity,compliance
//	go run ./cmd/validate -user alice -output json
//	go run ./cmd/validate -output csv > report.csv
//	go run ./cmd/validate -summary-only
//
// The ledger is read from DATABASE_URL (PostgreSQL) or DATA_DIR (JSON files);
// DATA_DIR defaults to the current directory when neither is set.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/tessfin/paylater/internal/anomaly"
	"github.com/tessfin/paylater/internal/ledger"
)

func main() {
	checksFlag := flag.String("checks", "", "comma-separated check names (default: all)")
	userFlag := flag.String("user", "", "restrict the run to a single user")
	outputFlag := flag.String("output", "text", "output format: text, json, or csv")
	summaryOnly := flag.Bool("summary-only", false, "print only the summary block (text output)")
	flag.Parse()

	if err := run(*checksFlag, *userFlag, *outputFlag, *summaryOnly); err != nil {
		fmt.Fprintln(os.Stderr, "validate:", err)
		os.Exit(1)
	}
}

func run(checksArg, user, output string, summaryOnly bool) error {
	_ = godotenv.Load()

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	snap, err := ledger.New(store).Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	report := anomaly.NewRunner(snap).Run(anomaly.ParseChecks(checksArg), user)

	switch output {
	case "json":
		return report.WriteJSON(os.Stdout)
	case "csv":
		return report.WriteCSV(os.Stdout)
	case "text":
		return report.WriteText(os.Stdout, summaryOnly)
	default:
		return fmt.Errorf("unknown output format %q (want text, json, or csv)", output)
	}
}

func openStore() (ledger.Store, func(), error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return ledger.NewPostgresStore(db), func() { _ = db.Close() }, nil
	}

	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "."
	}
	store, err := ledger.NewFileStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open file store: %w", err)
	}
	return store, func() {}, nil
}

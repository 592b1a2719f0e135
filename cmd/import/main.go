// Command import copies the cleaned inspection CSV into a SQLite database that
// the server can use as its DATA_PATH.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/randytsao24/gradecast/internal/dataset"
)

type cliOptions struct {
	csvPath string
	dbPath  string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(2)
	}
	if err := run(context.Background(), opts); err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.csvPath, "csv", "data/cleaned_restaurant_inspections.csv", "Cleaned inspection CSV to read")
	flag.StringVar(&opts.dbPath, "db", "", "SQLite database to write (replaces existing rows)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --db FILE [--csv FILE]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.csvPath = strings.TrimSpace(opts.csvPath)
	opts.dbPath = strings.TrimSpace(opts.dbPath)

	if opts.csvPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --csv file")
	}
	if opts.dbPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --db file")
	}
	return opts, nil
}

func run(ctx context.Context, opts cliOptions) error {
	start := time.Now()

	records, err := dataset.LoadCSV(opts.csvPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.csvPath, err)
	}

	store, err := dataset.OpenSQLite(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Import(ctx, records)
	if err != nil {
		return err
	}

	slog.Info("import complete",
		"csv", opts.csvPath,
		"db", opts.dbPath,
		"rows", n,
		"duration", time.Since(start).String(),
	)
	return nil
}

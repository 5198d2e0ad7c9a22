package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/rs/zerolog"

	"deckgen/internal/config"
	"deckgen/internal/database"
	"deckgen/internal/distribution"
	"deckgen/internal/logging"
	"deckgen/internal/runner"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exitCode = run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// run parses args, generates one deck and returns the process exit code.
// Configuration problems are reported before anything reaches stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("datagen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	header := fs.String("m", "", "deck header (default: rows * mean(query) / 2)")
	rows := fs.Int64("n", 0, "number of rows (default 50)")
	query := fs.String("q", "", "query size distribution, e.g. u:1:10000, n:100:10, g:2:50, p:7.5")
	ratio := fs.String("r", "", "result ratio distribution (default u:1:500)")
	configPath := fs.String("config", "", "optional YAML profile")
	envPath := fs.String("env", "", "dotenv file (default .env when present)")
	outputPath := fs.String("o", "", "write the deck to this file instead of stdout")
	store := fs.String("store", "", "also persist the deck to a store (postgres, mysql or mongo)")
	withSummary := fs.Bool("summary", false, "log size statistics of the generated deck")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := config.LoadEnvFile(*envPath); err != nil {
		fmt.Fprintf(stderr, "datagen: load env file: %v\n", err)
		return 1
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "datagen: load config: %v\n", err)
		return 1
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(stderr, "datagen: %v\n", err)
		return 1
	}

	// Flags given on the command line win over the profile and environment.
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "m":
			m, err := strconv.ParseInt(*header, 10, 64)
			if err != nil {
				flagErr = fmt.Errorf("invalid -m value %q: %w", *header, err)
				return
			}
			cfg.Generator.Header = &m
		case "n":
			cfg.Generator.Rows = *rows
		case "q":
			cfg.Generator.Query = *query
		case "r":
			cfg.Generator.Ratio = *ratio
		case "o":
			cfg.Output.Path = *outputPath
		case "store":
			cfg.Output.Store = *store
		case "summary":
			cfg.Output.Summary = *withSummary
		}
	})
	if flagErr != nil {
		fmt.Fprintf(stderr, "datagen: %v\n", flagErr)
		return 1
	}

	logger := logging.New(cfg.Logging, stderr)

	distribution.SeedFromEntropy()
	deckCfg, err := cfg.Deck()
	if err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return 1
	}

	opts := runner.Options{Output: stdout, Summary: cfg.Output.Summary}
	if cfg.Output.Store != "" {
		driver, err := database.Open(cfg.Output.Store, cfg.Databases)
		if err != nil {
			logger.Error().Err(err).Str("store", cfg.Output.Store).Msg("failed to open store")
			return 1
		}
		defer driver.Close()
		opts.Store = driver
	}

	if cfg.Output.Path != "" && cfg.Output.Path != "-" {
		file, err := os.Create(cfg.Output.Path)
		if err != nil {
			logger.Error().Err(err).Msg("failed to create output file")
			return 1
		}
		defer file.Close()
		opts.Output = file
	}

	result, err := runner.Run(ctx, deckCfg, opts, logger)
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		return 1
	}
	if file, ok := opts.Output.(*os.File); ok && file != os.Stdout {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error().Err(err).Msg("failed to close output file")
			return 1
		}
	}

	logResult(logger, result)
	return 0
}

func logResult(logger zerolog.Logger, result *runner.Result) {
	event := logger.Info().
		Int64("rows", result.Rows).
		Int64("header", result.Header).
		Dur("total_time", result.TotalTime)
	if result.DeckID != "" {
		event = event.Str("deck_id", result.DeckID)
	}
	if result.Query != nil {
		event = event.
			Interface("query", result.Query).
			Interface("result", result.Result).
			Float64("coverage", result.Coverage)
	}
	event.Msg("deck generated")
}

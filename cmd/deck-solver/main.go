package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"deckgen/internal/config"
	"deckgen/internal/database"
	"deckgen/internal/deck"
	"deckgen/internal/logging"
	"deckgen/internal/solver"
	"deckgen/internal/summary"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exitCode = run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// run reads one deck and prints the minimum total result size of a row set
// whose query sizes reach the deck header.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("deck-solver", flag.ContinueOnError)
	fs.SetOutput(stderr)

	strategy := fs.String("strategy", "frontier", "solver strategy (frontier or bnb)")
	inputPath := fs.String("i", "", "read the deck from this file instead of stdin")
	store := fs.String("store", "", "load the deck from a store (postgres, mysql or mongo)")
	deckID := fs.String("id", "", "id of the stored deck, used with -store")
	configPath := fs.String("config", "", "optional YAML profile")
	envPath := fs.String("env", "", "dotenv file (default .env when present)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := config.LoadEnvFile(*envPath); err != nil {
		fmt.Fprintf(stderr, "deck-solver: load env file: %v\n", err)
		return 1
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "deck-solver: load config: %v\n", err)
		return 1
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(stderr, "deck-solver: %v\n", err)
		return 1
	}
	logger := logging.New(cfg.Logging, stderr)

	s, err := solver.ByName(*strategy)
	if err != nil {
		logger.Error().Err(err).Msg("invalid strategy")
		return 1
	}

	var d *deck.Deck
	switch {
	case *store != "":
		if *deckID == "" {
			logger.Error().Msg("-id is required with -store")
			return 1
		}
		driver, err := database.Open(*store, cfg.Databases)
		if err != nil {
			logger.Error().Err(err).Str("store", *store).Msg("failed to open store")
			return 1
		}
		defer driver.Close()
		d, err = database.LoadDeck(ctx, driver, *deckID)
		if err != nil {
			logger.Error().Err(err).Msg("failed to load deck")
			return 1
		}
	default:
		in := stdin
		if *inputPath != "" && *inputPath != "-" {
			file, err := os.Open(*inputPath)
			if err != nil {
				logger.Error().Err(err).Msg("failed to open deck")
				return 1
			}
			defer file.Close()
			in = file
		}
		d, err = deck.Read(in)
		if err != nil {
			logger.Error().Err(err).Msg("failed to read deck")
			return 1
		}
	}

	start := time.Now()
	cost, err := solver.SolveDeck(s, d)
	if err != nil {
		logger.Error().Err(err).Int64("header", d.Header).Int("rows", len(d.Rows)).Msg("no solution")
		return 1
	}
	elapsed := time.Since(start)

	sum := summary.Of(d)
	logger.Info().
		Str("strategy", s.Name()).
		Int64("header", d.Header).
		Int("rows", len(d.Rows)).
		Interface("query", sum.Query()).
		Interface("result", sum.Result()).
		Float64("coverage", sum.Coverage()).
		Dur("elapsed", elapsed).
		Msg("deck solved")

	if _, err := fmt.Fprintln(stdout, cost); err != nil {
		logger.Error().Err(err).Msg("failed to write result")
		return 1
	}
	return 0
}

package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"deckgen/internal/database"
	"deckgen/internal/deck"
	"deckgen/internal/summary"
)

// Options selects where a generated deck goes. Every destination is optional.
type Options struct {
	// Output receives the deck in text form.
	Output io.Writer
	// Store persists the deck once generation has succeeded.
	Store database.DatabaseDriver
	// Summary histograms the generated sizes.
	Summary bool
}

type Result struct {
	DeckID    string         `json:"deck_id,omitempty"`
	Rows      int64          `json:"rows"`
	Header    int64          `json:"header"`
	TotalTime time.Duration  `json:"total_time"`
	Query     *summary.Stats `json:"query,omitempty"`
	Result    *summary.Stats `json:"result,omitempty"`
	Coverage  float64        `json:"coverage,omitempty"`
}

// Run generates one deck from cfg into the destinations in opts.
func Run(ctx context.Context, cfg deck.Config, opts Options, logger zerolog.Logger) (*Result, error) {
	var (
		writers   []deck.RowWriter
		collector *deck.Collector
		sum       *summary.Summary
	)
	if opts.Output != nil {
		writers = append(writers, deck.NewTextWriter(opts.Output))
	}
	if opts.Store != nil {
		collector = deck.NewCollector(cfg.Query.String(), cfg.Ratio.String())
		writers = append(writers, collector)
	}
	if opts.Summary {
		sum = summary.New()
		writers = append(writers, sum)
	}

	logger.Debug().
		Int64("rows", cfg.Rows).
		Int64("header", cfg.Header).
		Stringer("query", cfg.Query).
		Stringer("ratio", cfg.Ratio).
		Int("writers", len(writers)).
		Msg("generating deck")

	start := time.Now()
	if err := deck.New(cfg).Run(ctx, deck.MultiWriter(writers...)); err != nil {
		return nil, err
	}

	result := &Result{Rows: cfg.Rows, Header: cfg.Header}

	if collector != nil {
		d := collector.Deck()
		if err := database.EnsureSchema(ctx, opts.Store); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		id, err := database.SaveDeck(ctx, opts.Store, d)
		if err != nil {
			return nil, err
		}
		result.DeckID = id
		logger.Info().Str("deck_id", id).Int("rows", len(d.Rows)).Msg("deck stored")
	}

	if sum != nil {
		q, r := sum.Query(), sum.Result()
		result.Query, result.Result = &q, &r
		result.Coverage = sum.Coverage()
	}
	result.TotalTime = time.Since(start)

	return result, nil
}

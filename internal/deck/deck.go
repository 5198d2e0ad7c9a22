// Package deck generates and reads query/result size decks.
package deck

import (
	"errors"
	"fmt"
	"math"
	"time"

	"deckgen/internal/distribution"
)

const (
	DefaultRows      = 50
	DefaultQuerySpec = "u:1:10000"
	DefaultRatioSpec = "u:1:500"
)

var (
	ErrNegativeRows = errors.New("row count must not be negative")
	ErrMalformed    = errors.New("malformed deck")
)

// Row is one (query size, result size) pair.
type Row struct {
	Query  int64 `json:"q" bson:"q"`
	Result int64 `json:"r" bson:"r"`
}

// Deck is a fully materialised deck plus the metadata it was generated with.
type Deck struct {
	ID        string    `json:"id,omitempty"`
	Header    int64     `json:"m"`
	QuerySpec string    `json:"query_spec,omitempty"`
	RatioSpec string    `json:"ratio_spec,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Rows      []Row     `json:"rows"`
}

// Validate checks that every row holds positive sizes.
func (d *Deck) Validate() error {
	for i, row := range d.Rows {
		if row.Query < 1 || row.Result < 1 {
			return fmt.Errorf("%w: row %d has non-positive size (%d, %d)", ErrMalformed, i, row.Query, row.Result)
		}
	}
	return nil
}

// Replay writes the deck through w, header first.
func (d *Deck) Replay(w RowWriter) error {
	if err := w.WriteHeader(d.Header, int64(len(d.Rows))); err != nil {
		return err
	}
	for _, row := range d.Rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Config is the resolved, immutable input of a generator run.
type Config struct {
	Rows   int64
	Header int64
	Query  distribution.Distribution
	Ratio  distribution.Distribution
}

// NewConfig resolves a Config. Empty specs fall back to the defaults and a
// nil header is derived from the query distribution with DefaultHeader.
func NewConfig(rows int64, header *int64, querySpec, ratioSpec string) (Config, error) {
	if rows < 0 {
		return Config{}, fmt.Errorf("%w: %d", ErrNegativeRows, rows)
	}
	if querySpec == "" {
		querySpec = DefaultQuerySpec
	}
	if ratioSpec == "" {
		ratioSpec = DefaultRatioSpec
	}

	query, err := distribution.Parse(querySpec)
	if err != nil {
		return Config{}, fmt.Errorf("query distribution: %w", err)
	}
	ratio, err := distribution.Parse(ratioSpec)
	if err != nil {
		return Config{}, fmt.Errorf("result ratio distribution: %w", err)
	}

	cfg := Config{Rows: rows, Query: query, Ratio: ratio}
	if header != nil {
		cfg.Header = *header
	} else {
		cfg.Header = DefaultHeader(rows, query)
	}
	return cfg, nil
}

// DefaultHeader is the sizing hint emitted when no header is given:
// rows * mean(query) / 2, truncated toward zero.
func DefaultHeader(rows int64, query distribution.Distribution) int64 {
	return truncate(float64(rows) * query.Mean() / 2)
}

// truncate converts toward zero, saturating at the int64 range. NaN is 0.
func truncate(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

func atLeastOne(v float64) int64 {
	if t := truncate(v); t > 1 {
		return t
	}
	return 1
}

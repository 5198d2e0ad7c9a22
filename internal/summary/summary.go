// Package summary records the size distribution of a generated deck.
package summary

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"

	"deckgen/internal/deck"
)

// highestTrackable bounds recorded sizes; larger values are recorded at the bound.
const highestTrackable = 1 << 40

// Stats describes one column of a deck.
type Stats struct {
	Count int64   `json:"count"`
	Min   int64   `json:"min"`
	Max   int64   `json:"max"`
	Mean  float64 `json:"mean"`
	P50   int64   `json:"p50"`
	P95   int64   `json:"p95"`
	P99   int64   `json:"p99"`
	// Saturated counts values recorded at the trackable bound instead of their
	// real size.
	Saturated int64 `json:"saturated,omitempty"`
}

// Summary is a deck.RowWriter that histograms query and result sizes.
type Summary struct {
	header     int64
	rows       int64
	queryTotal int64
	query      column
	result     column
	// totalSaturated is set once queryTotal stops at MaxInt64.
	totalSaturated bool
}

type column struct {
	hist      *hdrhistogram.Histogram
	saturated int64
}

func newColumn() column {
	return column{hist: hdrhistogram.New(1, highestTrackable, 3)}
}

func (c *column) record(v int64) {
	if v > highestTrackable {
		v = highestTrackable
		c.saturated++
	}
	if v < 1 {
		v = 1
	}
	// Values are clamped into the trackable range above.
	_ = c.hist.RecordValue(v)
}

func (c *column) stats() Stats {
	h := c.hist
	if h.TotalCount() == 0 {
		return Stats{}
	}
	return Stats{
		Count:     h.TotalCount(),
		Min:       h.Min(),
		Max:       h.Max(),
		Mean:      h.Mean(),
		P50:       h.ValueAtQuantile(50),
		P95:       h.ValueAtQuantile(95),
		P99:       h.ValueAtQuantile(99),
		Saturated: c.saturated,
	}
}

func New() *Summary {
	return &Summary{query: newColumn(), result: newColumn()}
}

func (s *Summary) WriteHeader(header, rows int64) error {
	s.header = header
	s.rows = rows
	return nil
}

func (s *Summary) WriteRow(row deck.Row) error {
	s.query.record(row.Query)
	s.result.record(row.Result)
	if s.queryTotal > math.MaxInt64-row.Query {
		s.queryTotal = math.MaxInt64
		s.totalSaturated = true
	} else {
		s.queryTotal += row.Query
	}
	return nil
}

func (s *Summary) Flush() error { return nil }

// Header returns the header value of the summarised deck.
func (s *Summary) Header() int64 { return s.header }

// Rows returns the announced row count.
func (s *Summary) Rows() int64 { return s.rows }

// Query returns statistics over query sizes.
func (s *Summary) Query() Stats { return s.query.stats() }

// Result returns statistics over result sizes.
func (s *Summary) Result() Stats { return s.result.stats() }

// TotalSaturated reports whether the total query size exceeded int64, in
// which case Coverage is computed against MaxInt64 and is an upper bound.
func (s *Summary) TotalSaturated() bool { return s.totalSaturated }

// Coverage is the header divided by the total query size. With the default
// header it is close to 0.5: half the deck's total query size.
func (s *Summary) Coverage() float64 {
	if s.queryTotal == 0 {
		return 0
	}
	return float64(s.header) / float64(s.queryTotal)
}

// Of summarises an already materialised deck.
func Of(d *deck.Deck) *Summary {
	s := New()
	// Summary never fails to record.
	_ = d.Replay(s)
	return s
}

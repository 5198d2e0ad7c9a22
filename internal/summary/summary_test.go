package summary

import (
	"context"
	"math"
	"os"
	"testing"

	"deckgen/internal/deck"
	"deckgen/internal/distribution"
)

func TestMain(m *testing.M) {
	distribution.Seed(3, 5)
	os.Exit(m.Run())
}

func TestSummary_KnownDeck(t *testing.T) {
	d := &deck.Deck{Header: 30, Rows: []deck.Row{
		{Query: 10, Result: 100},
		{Query: 20, Result: 40},
		{Query: 30, Result: 30},
	}}

	s := Of(d)
	if s.Header() != 30 || s.Rows() != 3 {
		t.Fatalf("expected header 30 and 3 rows, got %d and %d", s.Header(), s.Rows())
	}

	q := s.Query()
	if q.Count != 3 || q.Min != 10 || q.Max != 30 {
		t.Errorf("unexpected query stats %+v", q)
	}
	if math.Abs(q.Mean-20) > 0.1 {
		t.Errorf("expected query mean 20, got %v", q.Mean)
	}

	r := s.Result()
	if r.Count != 3 || r.Min != 30 || r.Max != 100 {
		t.Errorf("unexpected result stats %+v", r)
	}
	if r.P50 != 40 {
		t.Errorf("expected result p50 40, got %d", r.P50)
	}

	if got := s.Coverage(); got != 0.5 {
		t.Errorf("expected coverage 0.5, got %v", got)
	}
}

func TestSummary_EmptyDeck(t *testing.T) {
	s := Of(&deck.Deck{Header: 5})
	if s.Query() != (Stats{}) || s.Result() != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v %+v", s.Query(), s.Result())
	}
	if s.Coverage() != 0 {
		t.Fatalf("expected zero coverage, got %v", s.Coverage())
	}
}

func TestSummary_SaturatesHugeValues(t *testing.T) {
	s := New()
	_ = s.WriteHeader(1, 1)
	_ = s.WriteRow(deck.Row{Query: 1, Result: math.MaxInt64})

	r := s.Result()
	if r.Saturated != 1 {
		t.Fatalf("expected one saturated value, got %d", r.Saturated)
	}
	if r.Max < highestTrackable/2 {
		t.Fatalf("expected max near the trackable bound, got %d", r.Max)
	}
}

func TestSummary_SaturatesQueryTotal(t *testing.T) {
	s := New()
	_ = s.WriteHeader(math.MaxInt64/2, 3)
	_ = s.WriteRow(deck.Row{Query: math.MaxInt64 - 5, Result: 1})
	if s.TotalSaturated() {
		t.Fatal("expected no saturation after one row")
	}
	_ = s.WriteRow(deck.Row{Query: 10, Result: 1})
	_ = s.WriteRow(deck.Row{Query: 1, Result: 1})

	if !s.TotalSaturated() {
		t.Fatal("expected the query total to saturate")
	}
	if got := s.Coverage(); got < 0.49 || got > 0.51 {
		t.Fatalf("expected coverage against MaxInt64 near 0.5, got %f", got)
	}
}

func TestSummary_DefaultDeckCoverage(t *testing.T) {
	cfg, err := deck.NewConfig(20000, nil, "", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	s := New()
	if err := deck.New(cfg).Run(context.Background(), s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := s.Coverage(); math.Abs(got-0.5) > 0.02 {
		t.Errorf("expected coverage near 0.5, got %v", got)
	}
	// Three significant figures: values near 10000 share an 8-wide bucket.
	if q := s.Query(); q.Min < 1 || q.Max > 10008 || q.Count != 20000 {
		t.Errorf("unexpected query stats %+v", q)
	}
}

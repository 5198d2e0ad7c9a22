// Package solver finds the cheapest set of deck rows whose query sizes add up
// to at least the deck header. A row's query size is its amount and its
// result size is its cost.
package solver

import (
	"errors"
	"fmt"
	"math"

	"deckgen/internal/deck"
)

var (
	ErrInfeasible      = errors.New("target is unreachable")
	ErrCostOverflow    = errors.New("minimum cost exceeds int64")
	ErrUnknownStrategy = errors.New("unknown solver strategy")
)

// Item is one candidate with a positive amount and a non-negative cost.
type Item struct {
	Amount int64
	Cost   int64
}

// Solver returns the minimum total cost of a subset of items whose amounts
// sum to at least target.
type Solver interface {
	Name() string
	Solve(target int64, items []Item) (int64, error)
}

// Strategies lists the available solvers by name.
func Strategies() map[string]Solver {
	return map[string]Solver{
		"frontier": Frontier{},
		"bnb":      BranchAndBound{},
	}
}

// ByName returns the strategy registered under name.
func ByName(name string) (Solver, error) {
	s, ok := Strategies()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// ItemsFromDeck turns every deck row into an item.
func ItemsFromDeck(d *deck.Deck) []Item {
	items := make([]Item, len(d.Rows))
	for i, row := range d.Rows {
		items[i] = Item{Amount: row.Query, Cost: row.Result}
	}
	return items
}

// SolveDeck solves the covering problem a deck describes.
func SolveDeck(s Solver, d *deck.Deck) (int64, error) {
	return s.Solve(d.Header, ItemsFromDeck(d))
}

// precheck handles the trivial targets shared by every strategy.
func precheck(target int64, items []Item) (cost int64, done bool, err error) {
	if target <= 0 {
		return 0, true, nil
	}
	var total int64
	for _, it := range items {
		if it.Amount <= 0 {
			return 0, true, fmt.Errorf("item amount must be positive, got %d", it.Amount)
		}
		if it.Cost < 0 {
			return 0, true, fmt.Errorf("item cost must not be negative, got %d", it.Cost)
		}
		total = addAmount(total, it.Amount)
	}
	if total < target {
		return 0, true, fmt.Errorf("%w: total amount %d below %d", ErrInfeasible, total, target)
	}
	return 0, false, nil
}

// addAmount and addCost saturate at MaxInt64. Both operands are non-negative.
func addAmount(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func addCost(a, b int64) int64 { return addAmount(a, b) }

// result turns the best saturated cost into an answer. A saturated best
// means every cover costs at least MaxInt64.
func result(best int64, found bool) (int64, error) {
	if !found {
		return 0, ErrInfeasible
	}
	if best == math.MaxInt64 {
		return 0, ErrCostOverflow
	}
	return best, nil
}

// suffixTotals[i] is the total amount of items[i:], saturating at MaxInt64.
func suffixTotals(items []Item) []int64 {
	totals := make([]int64, len(items)+1)
	for i := len(items) - 1; i >= 0; i-- {
		totals[i] = addAmount(totals[i+1], items[i].Amount)
	}
	return totals
}

package solver

import (
	"math"
	"math/bits"
	"slices"
)

// BranchAndBound explores take/skip decisions depth first over items sorted
// by unit price, pruning with the fractional relaxation of the remaining
// items. It can be exponential on adversarial input but is quick on
// generated decks.
type BranchAndBound struct{}

func (BranchAndBound) Name() string { return "bnb" }

// compareUnitPrice orders items by Cost/Amount without rounding.
func compareUnitPrice(a, b Item) int {
	ahi, alo := bits.Mul64(uint64(a.Cost), uint64(b.Amount))
	bhi, blo := bits.Mul64(uint64(b.Cost), uint64(a.Amount))
	switch {
	case ahi < bhi || (ahi == bhi && alo < blo):
		return -1
	case ahi > bhi || (ahi == bhi && alo > blo):
		return 1
	}
	return 0
}

// partialCost is ceil(cost * need / amount) for 0 < need <= amount.
func partialCost(cost, need, amount int64) int64 {
	hi, lo := bits.Mul64(uint64(cost), uint64(need))
	quo, rem := bits.Div64(hi, lo, uint64(amount))
	if rem != 0 {
		quo++
	}
	return int64(quo)
}

func (BranchAndBound) Solve(target int64, items []Item) (int64, error) {
	if cost, done, err := precheck(target, items); done {
		return cost, err
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		if c := compareUnitPrice(a, b); c != 0 {
			return c
		}
		switch {
		case a.Amount > b.Amount:
			return -1
		case a.Amount < b.Amount:
			return 1
		}
		return 0
	})
	remaining := suffixTotals(sorted)

	// lowerBound is the cheapest fractional cover of need using items[i:],
	// rounded up: costs are integers, so no real cover is cheaper.
	lowerBound := func(i int, need int64) int64 {
		var bound int64
		for _, it := range sorted[i:] {
			if it.Amount >= need {
				return addCost(bound, partialCost(it.Cost, need, it.Amount))
			}
			bound = addCost(bound, it.Cost)
			need -= it.Amount
		}
		return math.MaxInt64
	}

	best, found := greedyCover(target, sorted)

	var search func(i int, amount, cost int64)
	search = func(i int, amount, cost int64) {
		if amount >= target {
			best, found = min(best, cost), true
			return
		}
		if i == len(sorted) || remaining[i] < target-amount {
			return
		}
		if found && addCost(cost, lowerBound(i, target-amount)) >= best {
			return
		}
		it := sorted[i]
		search(i+1, addAmount(amount, it.Amount), addCost(cost, it.Cost))
		search(i+1, amount, cost)
	}
	search(0, 0, 0)

	return result(best, found)
}

// greedyCover takes items in order until the target is met.
func greedyCover(target int64, items []Item) (int64, bool) {
	var amount, cost int64
	for _, it := range items {
		amount = addAmount(amount, it.Amount)
		cost = addCost(cost, it.Cost)
		if amount >= target {
			return cost, true
		}
	}
	return math.MaxInt64, false
}

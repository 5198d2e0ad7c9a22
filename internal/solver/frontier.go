package solver

import (
	"math"
	"slices"
)

// Frontier sweeps items from largest to smallest amount while keeping only
// the Pareto frontier of partial selections that have not reached the
// target yet: no kept state is both smaller and more expensive than another.
type Frontier struct{}

func (Frontier) Name() string { return "frontier" }

type state struct {
	amount int64
	cost   int64
}

func (Frontier) Solve(target int64, items []Item) (int64, error) {
	if cost, done, err := precheck(target, items); done {
		return cost, err
	}

	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b Item) int {
		if a.Amount != b.Amount {
			if a.Amount > b.Amount {
				return -1
			}
			return 1
		}
		switch {
		case a.Cost < b.Cost:
			return -1
		case a.Cost > b.Cost:
			return 1
		}
		return 0
	})
	remaining := suffixTotals(sorted)

	best, found := int64(math.MaxInt64), false
	// States are ordered by amount descending and, being a frontier, by cost
	// descending too.
	states := []state{{0, 0}}
	for i, it := range sorted {
		rest := remaining[i+1]
		reachable := func(amount int64) bool {
			return rest >= target-amount
		}

		taken := make([]state, 0, len(states))
		for _, s := range states {
			next := state{addAmount(s.amount, it.Amount), addCost(s.cost, it.Cost)}
			if next.amount >= target {
				best, found = min(best, next.cost), true
				continue
			}
			if reachable(next.amount) {
				taken = append(taken, next)
			}
		}

		merged := make([]state, 0, len(states)+len(taken))
		limit, limited := best, found
		push := func(s state) {
			if !limited || s.cost < limit {
				merged = append(merged, s)
				limit, limited = s.cost, true
			}
		}
		a, b := 0, 0
		for a < len(states) || b < len(taken) {
			switch {
			case b == len(taken) || (a < len(states) && states[a].amount > taken[b].amount):
				if reachable(states[a].amount) {
					push(states[a])
				}
				a++
			case a == len(states) || taken[b].amount > states[a].amount:
				push(taken[b])
				b++
			default:
				push(state{states[a].amount, min(states[a].cost, taken[b].cost)})
				a++
				b++
			}
		}
		states = merged
	}

	return result(best, found)
}

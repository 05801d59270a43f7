package solver

// positiveRegretFloor is the smallest positive-regret mass treated as a real
// signal rather than floating-point noise from equal action values.
const positiveRegretFloor = 1e-9

// UpdateStrategy applies one regret-matching step to every bucket visited
// since the previous update and returns how many buckets changed.
//
// For each bucket the accumulated EV of every action seen in the batch is
// averaged by its reach weight. The regret of an action is its value minus the
// value of the current strategy restricted to the seen actions. The new
// strategy is proportional to positive regret; when no action has positive
// regret the bucket falls back to DefaultStrategy. Accumulators are cleared
// afterwards.
func UpdateStrategy(t *StrategyTable) int {
	updated := 0
	for b := range t.visited {
		r, ok := t.rows[b]
		if !ok {
			continue
		}
		matchRow(r, DefaultStrategy(b, t.caps))
		updated++
	}
	clear(t.visited)
	return updated
}

func matchRow(r *Row, fallback []float64) {
	n := len(r.Probs)

	var mass float64
	for a := 0; a < n; a++ {
		if r.Reach[a] > 0 {
			mass += r.Probs[a]
		}
	}

	var avg float64
	seen := 0
	for a := 0; a < n; a++ {
		if r.Reach[a] <= 0 {
			r.Values[a] = 0
			continue
		}
		seen++
		r.Values[a] = r.EV[a] / r.Reach[a]
	}
	for a := 0; a < n; a++ {
		if r.Reach[a] <= 0 {
			continue
		}
		w := 1 / float64(seen)
		if mass > 0 {
			w = r.Probs[a] / mass
		}
		avg += w * r.Values[a]
	}

	next := make([]float64, n)
	var positive float64
	for a := 0; a < n; a++ {
		if r.Reach[a] <= 0 {
			continue
		}
		if regret := r.Values[a] - avg; regret > 0 {
			next[a] = regret
			positive += regret
		}
	}

	if positive <= positiveRegretFloor {
		copy(next, fallback)
	} else {
		for a := range next {
			next[a] /= positive
		}
	}
	Normalize(next)
	r.Probs = next

	clear(r.EV)
	clear(r.Reach)
}

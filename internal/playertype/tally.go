package playertype

import "math"

// Tally accumulates non-negative votes per type.
type Tally map[Type]float64

// Result normalizes the tally into percentages. Each share is floored and
// the remainder goes to the leading type so the percentages sum to exactly
// 100. An empty tally splits evenly.
func (t Tally) Result() Result {
	var total float64
	for _, typ := range AllTypes() {
		total += math.Max(t[typ], 0)
	}
	if total == 0 {
		return Result{Achiever: 25, Explorer: 25, Socializer: 25, Killer: 25, Dominant: Achiever}
	}

	var r Result
	sum := 0
	for _, typ := range AllTypes() {
		pct := int(math.Floor(math.Max(t[typ], 0) / total * 100))
		r.set(typ, pct)
		sum += pct
	}

	r.Dominant = t.leader()
	r.set(r.Dominant, r.Percentage(r.Dominant)+100-sum)
	return r
}

// leader returns the type with the most votes, earliest in AllTypes on a tie.
func (t Tally) leader() Type {
	best := Achiever
	for _, typ := range AllTypes()[1:] {
		if t[typ] > t[best] {
			best = typ
		}
	}
	return best
}

package signal

import "strconv"

// Validator accepts or rejects numeric-string candidates by magnitude.
// Bounds are deployment configuration tied to the instrument's quoting
// convention (e.g. [1000, 150000] for a high-priced instrument,
// [4000, 6000] for a metal), so an obviously-misread digit never reaches
// the planner.
type Validator struct {
	Min int
	Max int
}

// Validate reports whether candidate is composed only of decimal digits
// and its integer value lies in [Min, Max] inclusive. Empty or non-digit
// input is always rejected.
func (v Validator) Validate(candidate string) bool {
	if candidate == "" {
		return false
	}
	for _, r := range candidate {
		if r < '0' || r > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(candidate)
	if err != nil {
		// all-digit strings can still overflow int
		return false
	}
	return n >= v.Min && n <= v.Max
}

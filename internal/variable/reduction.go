package variable

// Reduction selects how a loss collapses its per-element values into the
// rank-0 result.
type Reduction int

const (
	// Mean divides the summed loss by the number of contributing
	// elements.
	Mean Reduction = iota
	// Sum leaves the summed loss unscaled.
	Sum
)

// reduce collapses an accumulated total per the reduction rule.
func (r Reduction) reduce(total float32, count int) float32 {
	if r == Mean {
		return total / float32(count)
	}
	return total
}

// scale is the factor the reduction applies to each element's gradient.
func (r Reduction) scale(count int) float32 {
	if r == Mean {
		return 1 / float32(count)
	}
	return 1
}

package allan

// DyadicClusterSizes returns powers of two 1, 2, 4, ... up to n/2, the
// largest cluster size that still yields two blocks for a series of length n.
func DyadicClusterSizes(n int) []int {
	var out []int
	for m := 1; m <= n/2; m *= 2 {
		out = append(out, m)
	}
	return out
}

// LinearClusterSizes returns every cluster size 1..n/2. The resulting curve
// oversamples large tau heavily; prefer DyadicClusterSizes unless the full
// resolution is needed.
func LinearClusterSizes(n int) []int {
	half := n / 2
	if half < 1 {
		return nil
	}
	out := make([]int, half)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// minBlocksDefault bounds the default spacing: tail points built from a
// handful of blocks scatter so much that sliding-window fits over them can
// fake either target slope.
const minBlocksDefault = 32

// DefaultClusterSizes returns the dyadic sizes capped so every curve point
// keeps at least 32 blocks. Falls back to the full dyadic range when the
// series is too short for the cap to leave anything.
func DefaultClusterSizes(n int) []int {
	var out []int
	for m := 1; m <= n/minBlocksDefault; m *= 2 {
		out = append(out, m)
	}
	if len(out) == 0 {
		return DyadicClusterSizes(n)
	}
	return out
}

package search

// SpreadIndices picks up to count indices from the inclusive interval
// [lo, hi], spaced so they partition it into count+1 roughly equal
// sub-intervals. This is the k-way generalization of "pick the
// midpoint": with k slots each round eliminates all but ~1/(k+1) of
// the interval, which is what makes the search sub-logarithmic in
// rounds as parallelism grows.
//
// When the interval holds no more than count indices, all of them are
// returned. count <= 0 yields nil. Results are strictly increasing.
func SpreadIndices(lo, hi int64, count int) []int64 {
	if count <= 0 || lo > hi {
		return nil
	}

	delta := hi - lo
	c := int64(count)

	if delta <= c {
		out := make([]int64, 0, delta+1)
		for i := lo; i <= hi; i++ {
			out = append(out, i)
		}
		return out
	}

	// Distribute the non-chosen indices into count+1 gaps; the first
	// `rem` gaps absorb one extra index each so the spacing stays even.
	gap := (delta - c) / (c + 1)
	rem := (delta - c) % (c + 1)

	out := make([]int64, 0, count)
	i := lo
	for n := int64(0); n < c; n++ {
		i += gap
		if rem > 0 {
			rem--
			i++
		}
		out = append(out, i)
		i++
	}
	return out
}

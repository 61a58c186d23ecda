package godeck

// FirstN returns the indices of the first n slides of an open document,
// clamped to the slide count.
func FirstN(d *Document, n int) []int {
	total := d.SlideCount()
	if n > total {
		n = total
	}
	out := make([]int, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, i)
	}
	return out
}

// LastN returns the indices of the last n slides of an open document,
// clamped to the slide count.
func LastN(d *Document, n int) []int {
	total := d.SlideCount()
	start := total - n
	if start < 0 {
		start = 0
	}
	out := make([]int, 0, total-start)
	for i := start; i < total; i++ {
		out = append(out, i)
	}
	return out
}

// SlideRange returns the indices from start to end inclusive (0-based).
// Returns nil when end < start.
func SlideRange(start, end int) []int {
	if end < start {
		return nil
	}
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

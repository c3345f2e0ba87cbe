package timeline

// anything with a closed time range in seconds
type Interval interface {
	Bounds() (start, end float64)
}

// FindActive returns the index of the interval containing t. Items must
// be sorted by start and must not overlap. Both ends are inclusive, but a
// boundary shared with the next interval belongs to the later one, the
// same way half-open [start, end) script events split it.
func FindActive[T Interval](items []T, t float64) (int, bool) {
	low, high := 0, len(items)-1
	for low <= high {
		mid := low + (high-low)/2
		start, end := items[mid].Bounds()
		switch {
		case t >= start && t <= end:
			for mid+1 < len(items) && t == end {
				next, nextEnd := items[mid+1].Bounds()
				if next != t {
					break
				}
				mid, end = mid+1, nextEnd
			}
			return mid, true
		case t < start:
			high = mid - 1
		default:
			low = mid + 1
		}
	}
	return -1, false
}

// segment whose [Start, End] contains t
func ActiveSegment(segments []Segment, t float64) (Segment, bool) {
	i, ok := FindActive(segments, t)
	if !ok {
		return Segment{}, false
	}
	return segments[i], true
}

// index within seg.Words of the word containing t
func ActiveWord(seg Segment, t float64) (int, bool) {
	return FindActive(seg.Words, t)
}

package services

// SegmentRoute splits totalMiles into consecutive range-bounded segments.
// Every segment is maxRangeMiles long except possibly the last one.
func SegmentRoute(totalMiles, maxRangeMiles float64) []float64 {
	segments := []float64{}
	if maxRangeMiles <= 0 {
		return segments
	}

	remaining := totalMiles
	for remaining > 0 {
		segment := min(remaining, maxRangeMiles)
		segments = append(segments, segment)
		remaining -= segment
	}
	return segments
}

// reachLimit returns the furthest point reachable from position and whether
// the destination is already within range (final segment).
func reachLimit(position, totalMiles, maxRangeMiles float64) (maxReach float64, finalLeg bool) {
	if totalMiles-position < maxRangeMiles {
		return totalMiles, true
	}
	return position + maxRangeMiles, false
}

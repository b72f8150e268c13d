package stats

import "time"

// WindowedCount counts, for every sorted timestamp t[i], how many timestamps
// fall inside the closed range [t[i], t[i]+window]. It returns the peak count,
// the number of positions reaching the peak, and the per-position counts.
//
// ts must be sorted ascending. The end index only moves forward, so the scan
// is linear in len(ts).
func WindowedCount(ts []time.Time, window time.Duration) (peak, repeats int, counts []int) {
	if len(ts) == 0 {
		return 0, 0, nil
	}
	counts = make([]int, len(ts))
	end := 0
	for i, start := range ts {
		limit := start.Add(window)
		if end < i {
			end = i
		}
		for end < len(ts) && !ts[end].After(limit) {
			end++
		}
		counts[i] = end - i
	}
	for _, c := range counts {
		switch {
		case c > peak:
			peak = c
			repeats = 1
		case c == peak:
			repeats++
		}
	}
	return peak, repeats, counts
}

// RateWindow pairs a sliding window with the factor that scales its peak
// count to contacts per hour.
type RateWindow struct {
	Window time.Duration
	Scale  int
}

// RateWindows are the 10, 30 and 60 minute windows reported in summaries.
var RateWindows = [3]RateWindow{
	{Window: 10 * time.Minute, Scale: 6},
	{Window: 30 * time.Minute, Scale: 2},
	{Window: 60 * time.Minute, Scale: 1},
}

// Rate is the per-hour peak for one window size.
type Rate struct {
	Window  time.Duration
	PerHour int
	Repeats int
}

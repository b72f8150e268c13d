package stats

import "time"

// DefaultIdleGap separates operating sessions.
const DefaultIdleGap = 30 * time.Minute

// sessionSeed credits the last contact of the log with operating time.
const sessionSeed = time.Minute

// Session is a contiguous stretch of operating.
type Session struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// SegmentSessions splits sorted timestamps into sessions wherever the gap
// between consecutive contacts exceeds idleGap, and returns the total
// operating time: one minute plus the span of every session.
func SegmentSessions(ts []time.Time, idleGap time.Duration) (time.Duration, []Session) {
	if len(ts) == 0 {
		return 0, nil
	}
	if idleGap <= 0 {
		idleGap = DefaultIdleGap
	}
	sessions := make([]Session, 0, 4)
	current := Session{Start: ts[0], End: ts[0]}
	for _, t := range ts[1:] {
		if t.Sub(current.End) > idleGap {
			sessions = append(sessions, current)
			current = Session{Start: t, End: t}
			continue
		}
		current.End = t
	}
	sessions = append(sessions, current)

	total := sessionSeed
	for _, s := range sessions {
		total += s.Duration()
	}
	return total, sessions
}

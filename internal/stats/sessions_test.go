package stats

import (
	"testing"
	"time"
)

func TestSegmentSessionsScenario(t *testing.T) {
	ts := clock(t, "10:00", "10:05", "10:12", "11:00")
	total, sessions := SegmentSessions(ts, DefaultIdleGap)
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if !sessions[0].Start.Equal(ts[0]) || !sessions[0].End.Equal(ts[2]) {
		t.Fatalf("unexpected first session: %+v", sessions[0])
	}
	if !sessions[1].Start.Equal(ts[3]) || !sessions[1].End.Equal(ts[3]) {
		t.Fatalf("unexpected second session: %+v", sessions[1])
	}
	if total != 13*time.Minute {
		t.Fatalf("expected 13m, got %s", total)
	}
}

func TestSegmentSessionsSingleSession(t *testing.T) {
	ts := clock(t, "00:00", "00:30", "01:00", "01:29")
	total, sessions := SegmentSessions(ts, 30*time.Minute)
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}
	want := ts[len(ts)-1].Sub(ts[0]) + time.Minute
	if total != want {
		t.Fatalf("expected %s, got %s", want, total)
	}
}

func TestSegmentSessionsCountsGaps(t *testing.T) {
	ts := clock(t, "00:00", "00:31", "01:05", "01:06", "03:00")
	_, sessions := SegmentSessions(ts, 30*time.Minute)
	if len(sessions) != 4 {
		t.Fatalf("expected 3 gaps + 1 = 4 sessions, got %d", len(sessions))
	}
}

func TestSegmentSessionsDefaultGap(t *testing.T) {
	ts := clock(t, "00:00", "00:45")
	_, sessions := SegmentSessions(ts, 0)
	if len(sessions) != 2 {
		t.Fatalf("expected default 30m gap to split, got %d sessions", len(sessions))
	}
	if total, _ := SegmentSessions(nil, 0); total != 0 {
		t.Fatalf("expected zero for empty input, got %s", total)
	}
}

package media

import "testing"

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		line   string
		want   float64
		wantOK bool
	}{
		{"frame= 120 fps= 30 time=00:00:04.00 bitrate=2000.0kbits/s", 4, true},
		{"frame= 900 fps= 30 time=00:01:30.50 bitrate=2000.0kbits/s", 90.5, true},
		{"time=01:02:03.25", 3723.25, true},
		{"size=     256kB", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseTimestamp(tc.line)
		if ok != tc.wantOK {
			t.Fatalf("%q: ok=%v, want %v", tc.line, ok, tc.wantOK)
		}
		if ok && got != tc.want {
			t.Fatalf("%q: got %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestMonitorPercentAndDebounce(t *testing.T) {
	var updates []float64
	monitor := NewMonitor(100, func(p float64) { updates = append(updates, p) })

	monitor.Observe("time=00:00:10.00")
	monitor.Observe("time=00:00:10.30") // under one point of movement
	monitor.Observe("time=00:00:11.50")

	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %v", updates)
	}
	if updates[0] != 10 || updates[1] != 11.5 {
		t.Fatalf("unexpected updates %v", updates)
	}
}

func TestMonitorRoundsToTwoDecimals(t *testing.T) {
	var last float64
	monitor := NewMonitor(3, func(p float64) { last = p })

	monitor.Observe("time=00:00:01.00")
	if last != 33.33 {
		t.Fatalf("expected 33.33, got %v", last)
	}
}

func TestMonitorClampsAtHundred(t *testing.T) {
	var last float64
	monitor := NewMonitor(10, func(p float64) { last = p })

	monitor.Observe("time=00:00:25.00")
	if last != 100 {
		t.Fatalf("expected clamp at 100, got %v", last)
	}

	// Finish after a clamp must not emit a second 100.
	count := 0
	monitor.emit = func(float64) { count++ }
	monitor.Finish()
	if count != 0 {
		t.Fatalf("expected no extra emit, got %d", count)
	}
}

func TestMonitorMilestonesWhenDurationUnknown(t *testing.T) {
	var updates []float64
	monitor := NewMonitor(0, func(p float64) { updates = append(updates, p) })

	for i := 0; i < 12; i++ {
		monitor.Observe("time=00:00:01.00")
	}

	if len(updates) != len(milestones) {
		t.Fatalf("expected %d milestone updates, got %v", len(milestones), updates)
	}
	for i, want := range milestones {
		if updates[i] != want {
			t.Fatalf("milestone %d: got %v, want %v", i, updates[i], want)
		}
	}

	monitor.Finish()
	if updates[len(updates)-1] != 100 {
		t.Fatalf("expected Finish to emit 100, got %v", updates[len(updates)-1])
	}
}

func TestMonitorIgnoresGarbage(t *testing.T) {
	monitor := NewMonitor(60, func(float64) { t.Fatal("unexpected emit") })
	monitor.Observe("frame= 10 fps=0.0 q=0.0 size= 0kB")
	monitor.Observe("Press [q] to stop")
}

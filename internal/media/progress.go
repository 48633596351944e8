package media

import (
	"math"
	"regexp"
	"strconv"
)

var timestampPattern = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// parseTimestamp extracts the elapsed seconds from an ffmpeg stats line.
func parseTimestamp(line string) (float64, bool) {
	match := timestampPattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	hours, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[3], 64)
	if err != nil {
		return 0, false
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, true
}

// milestones drives progress when the source duration is unknown: each
// observed timestamp advances one step, so the bar still moves.
var milestones = []float64{5, 15, 30, 45, 60, 75, 85, 95}

// Monitor converts ffmpeg stderr output into percent callbacks. Updates are
// debounced to whole-point increases and never move backwards; a monitor
// never fails, it just stops emitting.
type Monitor struct {
	total float64
	last  float64
	step  int
	emit  func(float64)
}

// NewMonitor builds a monitor for a source of totalSeconds duration. Pass a
// non-positive total when the duration could not be probed.
func NewMonitor(totalSeconds float64, emit func(float64)) *Monitor {
	return &Monitor{total: totalSeconds, last: -1, emit: emit}
}

// Observe inspects one stderr line and emits a progress update when the line
// carries a timestamp that moves the percentage forward.
func (m *Monitor) Observe(line string) {
	elapsed, ok := parseTimestamp(line)
	if !ok || m.emit == nil {
		return
	}

	if m.total <= 0 {
		if m.step < len(milestones) {
			m.last = milestones[m.step]
			m.step++
			m.emit(m.last)
		}
		return
	}

	percent := math.Min(100, elapsed/m.total*100)
	percent = math.Round(percent*100) / 100
	if percent-m.last < 1 {
		return
	}
	m.last = percent
	m.emit(percent)
}

// Finish reports completion. Safe to call regardless of what was observed.
func (m *Monitor) Finish() {
	if m.emit == nil || m.last >= 100 {
		return
	}
	m.last = 100
	m.emit(100)
}

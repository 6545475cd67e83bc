package game

import (
	"log/slog"
	"sort"
	"time"
)

// perfWindow is the number of samples kept per tracked phase.
const perfWindow = 120

// PerfStats tracks recent execution time per frame phase.
type PerfStats struct {
	samples map[string]*ring
}

type ring struct {
	buf  [perfWindow]time.Duration
	n    int // samples written, saturates at perfWindow
	next int
}

func (r *ring) add(d time.Duration) {
	r.buf[r.next] = d
	r.next = (r.next + 1) % perfWindow
	if r.n < perfWindow {
		r.n++
	}
}

func (r *ring) avg() time.Duration {
	if r.n == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < r.n; i++ {
		total += r.buf[i]
	}
	return total / time.Duration(r.n)
}

// NewPerfStats creates a new performance tracker.
func NewPerfStats() *PerfStats {
	return &PerfStats{samples: make(map[string]*ring)}
}

// Record adds a duration sample for the named phase.
func (p *PerfStats) Record(name string, d time.Duration) {
	r := p.samples[name]
	if r == nil {
		r = &ring{}
		p.samples[name] = r
	}
	r.add(d)
}

// Avg returns the rolling average for the named phase.
func (p *PerfStats) Avg(name string) time.Duration {
	r := p.samples[name]
	if r == nil {
		return 0
	}
	return r.avg()
}

// Log emits the per-phase averages through slog, slowest first.
func (p *PerfStats) Log(tick int64) {
	names := make([]string, 0, len(p.samples))
	for name := range p.samples {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return p.Avg(names[i]) > p.Avg(names[j])
	})

	attrs := []any{"tick", tick}
	for _, name := range names {
		attrs = append(attrs, name, p.Avg(name).Round(time.Microsecond).String())
	}
	slog.Info("perf", attrs...)
}

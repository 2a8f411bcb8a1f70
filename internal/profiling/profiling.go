// Package profiling accumulates wall time per named section between resets.
package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Sample is the accumulated time and call count of one section.
type Sample struct {
	Total time.Duration
	Calls int
}

var (
	mu       sync.Mutex
	sections = make(map[string]Sample)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s := sections[name]
		s.Total += d
		s.Calls++
		sections[name] = s
		mu.Unlock()
	}
}

// Reset clears all accumulated samples.
func Reset() {
	mu.Lock()
	clear(sections)
	mu.Unlock()
}

// Snapshot returns a copy of the current samples.
func Snapshot() map[string]Sample {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Sample, len(sections))
	for k, v := range sections {
		out[k] = v
	}
	return out
}

// TopN formats the n sections with the largest total time.
// Example: "terrain.Fill:42.1ms/12, meshing.Build:8.3ms/12"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		s    Sample
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, s: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].s.Total != list[j].s.Total {
			return list[i].s.Total > list[j].s.Total
		}
		return list[i].name < list[j].name
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		ms := float64(p.s.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms/%d", p.name, ms, p.s.Calls))
	}
	return strings.Join(parts, ", ")
}

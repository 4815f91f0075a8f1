package pipeline

import (
	"fmt"
	"log"
	"strings"
	"time"
)

type statEntry struct {
	key   string
	value any
}

// profiler measures per-step elapsed time and carries the statistics
// attached to the step currently being measured.
type profiler struct {
	stepStart time.Time
	entries   []statEntry
	keys      map[string]struct{}
}

func newProfiler() *profiler {
	return &profiler{keys: make(map[string]struct{})}
}

func (p *profiler) start() {
	p.stepStart = time.Now()
	p.entries = nil
	p.keys = make(map[string]struct{})
}

func (p *profiler) hasKey(key string) bool {
	_, ok := p.keys[key]
	return ok
}

func (p *profiler) addContext(key string, value any) {
	p.keys[key] = struct{}{}
	p.entries = append(p.entries, statEntry{key: key, value: value})
}

// stopInfo emits the timing record for the step that just finished,
// with any attached statistics appended verbatim.
func (p *profiler) stopInfo(description string) {
	var sb strings.Builder
	for _, e := range p.entries {
		fmt.Fprintf(&sb, " | %s=%v", e.key, e.value)
	}
	log.Printf("%s | time=%dms%s", description, time.Since(p.stepStart).Milliseconds(), sb.String())
}

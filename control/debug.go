// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Debug probe registry. Lanes and pools register named snapshot hooks at
// startup and remove them at shutdown; dumps pull every live hook.

package control

import (
	"sort"
	"sync"
	"time"
)

// ProbeReport is one captured probe observation, timestamped for dumps that
// leave the process (log lines, crash reports).
type ProbeReport struct {
	Name       string
	Value      any
	CapturedAt time.Time
}

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook, replacing any previous hook
// under the same name.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	dp.probes[name] = fn
	dp.mu.Unlock()
}

// UnregisterProbe removes a hook. Lanes call it when they shut down so a
// dump never invokes a probe into torn-down state.
func (dp *DebugProbes) UnregisterProbe(name string) {
	dp.mu.Lock()
	delete(dp.probes, name)
	dp.mu.Unlock()
}

// DumpState returns the output of all probes keyed by name. Probes run
// outside the registry lock; they may take their own locks.
func (dp *DebugProbes) DumpState() map[string]any {
	out := make(map[string]any)
	for _, r := range dp.Capture() {
		out[r.Name] = r.Value
	}
	return out
}

// Capture returns timestamped probe reports sorted by name.
func (dp *DebugProbes) Capture() []ProbeReport {
	dp.mu.RLock()
	hooks := make(map[string]func() any, len(dp.probes))
	for name, fn := range dp.probes {
		hooks[name] = fn
	}
	dp.mu.RUnlock()

	reports := make([]ProbeReport, 0, len(hooks))
	for name, fn := range hooks {
		reports = append(reports, ProbeReport{
			Name:       name,
			Value:      fn(),
			CapturedAt: time.Now(),
		})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })
	return reports
}
